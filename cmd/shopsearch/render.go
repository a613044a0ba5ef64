package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/poiesic/shopsearch/core"
	"github.com/poiesic/shopsearch/search"
)

const descriptionWidth = 80

// highlight wraps every match of query in text with brackets.
func highlight(text, query string) string {
	var b strings.Builder
	for _, seg := range search.HighlightMatches(text, query) {
		if seg.Highlight {
			b.WriteString("[" + seg.Text + "]")
		} else {
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}

// printResponse writes resp as a numbered list. The entry at selected is
// marked; pass -1 to mark nothing.
func printResponse(w io.Writer, resp *search.Response, selected int) {
	if len(resp.Results) == 0 {
		fmt.Fprintf(w, "No results for %q\n", resp.Query)
		if len(resp.Suggestions) > 0 {
			fmt.Fprintf(w, "Did you mean: %s?\n", strings.Join(resp.Suggestions, ", "))
		}
		return
	}

	for i, r := range resp.Results {
		marker := " "
		if i == selected {
			marker = ">"
		}
		fmt.Fprintf(w, "%s %d. %-8s %s (%d)\n", marker, i+1, r.Icon(), highlight(r.Title, resp.Query), r.Score)
		if r.Description != "" {
			snippet := search.ExtractSnippet(r.Description, resp.Query, descriptionWidth)
			fmt.Fprintf(w, "     %s\n", highlight(snippet, resp.Query))
		}
	}

	var counts []string
	for _, t := range core.ResultTypes {
		if n := resp.ByType[t]; n > 0 {
			counts = append(counts, fmt.Sprintf("%s: %d", t, n))
		}
	}
	fmt.Fprintf(w, "%d of %d results (%s)", len(resp.Results), resp.Total, strings.Join(counts, ", "))
	if resp.HasMore {
		fmt.Fprint(w, ", more available")
	}
	fmt.Fprintln(w)
}

func printHistory(w io.Writer, items []core.HistoryItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "History is empty")
		return
	}
	for _, item := range items {
		fmt.Fprintf(w, "%-8s %-30s %-24s %3dx  %s\n",
			item.Type, search.TruncateText(item.Title, 30), item.Id, item.ClickCount,
			item.SearchedAt.Local().Format(time.DateTime))
	}
}

func printStats(w io.Writer, stats core.HistoryStats) {
	fmt.Fprintf(w, "Total: %d\n", stats.Total)
	for _, t := range core.ResultTypes {
		fmt.Fprintf(w, "  %-8s %d\n", t, stats.ByType[t])
	}
	if stats.MostClicked != nil {
		fmt.Fprintf(w, "Most clicked: %s (%dx)\n", stats.MostClicked.Title, stats.MostClicked.ClickCount)
	}
}
