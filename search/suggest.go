package search

import (
	"github.com/poiesic/shopsearch/core"
	"github.com/sahilm/fuzzy"
)

// suggest returns up to n candidate titles that fuzzily match the
// normalized query, best match first.
func suggest(query string, batches [][]core.SearchResult, n int) []string {
	if n <= 0 || query == "" {
		return nil
	}

	var titles, normalized []string
	seen := make(map[string]bool)
	for _, batch := range batches {
		for _, c := range batch {
			key := Normalize(c.Title)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			titles = append(titles, c.Title)
			normalized = append(normalized, key)
		}
	}

	matches := fuzzy.Find(query, normalized)
	suggestions := make([]string, 0, min(n, len(matches)))
	for _, m := range matches {
		if len(suggestions) == n {
			break
		}
		suggestions = append(suggestions, titles[m.Index])
	}
	return suggestions
}
