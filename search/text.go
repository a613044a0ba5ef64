package search

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultSnippetLength is the snippet window size, in characters.
	DefaultSnippetLength = 150

	// DefaultTruncateLength is the maximum length used by TruncateText.
	DefaultTruncateLength = 100

	// Ellipsis marks text cut at either end.
	Ellipsis = "..."

	// snippetBoundarySearch is how far a snippet edge may move to reach a space.
	snippetBoundarySearch = 20
)

// ExtractSnippet returns a window of at most about length characters of text
// centred on the first match of query. Edges are widened to the nearest space
// within a short distance so words are not split, and an ellipsis marks each
// side that does not reach the string boundary. Text that fits is returned as is.
func ExtractSnippet(text, query string, length int) string {
	if length <= 0 {
		length = DefaultSnippetLength
	}

	runes := []rune(text)
	if len(runes) <= length {
		return text
	}

	matches := FindMatchIndices(text, query)
	if len(matches) == 0 {
		return TruncateText(text, length)
	}

	first := matches[0]
	matchStart := utf8.RuneCountInString(text[:first.Start])
	matchLen := utf8.RuneCountInString(text[first.Start:first.End])

	start := max(0, matchStart-(length-matchLen)/2)
	end := start + length
	if end > len(runes) {
		end = len(runes)
		start = max(0, end-length)
	}

	if start > 0 {
		for i := start - 1; i >= 0 && i >= start-snippetBoundarySearch; i-- {
			if unicode.IsSpace(runes[i]) {
				start = i + 1
				break
			}
		}
	}
	if end < len(runes) {
		for i := end; i < len(runes) && i <= end+snippetBoundarySearch; i++ {
			if unicode.IsSpace(runes[i]) {
				end = i
				break
			}
		}
	}

	var b strings.Builder
	if start > 0 {
		b.WriteString(Ellipsis)
	}
	b.WriteString(strings.TrimSpace(string(runes[start:end])))
	if end < len(runes) {
		b.WriteString(Ellipsis)
	}
	return b.String()
}

// TruncateText cuts text to maxLength characters and appends an ellipsis
// when anything was removed.
func TruncateText(text string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultTruncateLength
	}
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxLength]) + Ellipsis
}
