package search

import "strings"

// MatchRange is a half-open byte span [Start, End) of the original text.
type MatchRange struct {
	Start int
	End   int
}

// Segment is a run of text that is either part of a match or not.
type Segment struct {
	Text      string
	Highlight bool
}

// FindMatchIndices returns the non-overlapping occurrences of query in text,
// scanning left to right. Matching is case and diacritic insensitive; the
// returned spans are byte offsets into the original text.
func FindMatchIndices(text, query string) []MatchRange {
	q := Normalize(query)
	if q == "" || text == "" {
		return nil
	}

	folded := fold(text)
	var matches []MatchRange
	for from := 0; from+len(q) <= len(folded.text); {
		idx := strings.Index(folded.text[from:], q)
		if idx < 0 {
			break
		}
		start := from + idx
		end := start + len(q)
		m := MatchRange{Start: folded.starts[start], End: folded.ends[end-1]}

		// Two matches inside one original rune collapse into a single span.
		if n := len(matches); n > 0 && m.Start < matches[n-1].End {
			matches[n-1].End = max(matches[n-1].End, m.End)
		} else {
			matches = append(matches, m)
		}
		from = end
	}
	return matches
}

// HighlightMatches splits text into ordered segments, flagging the ones that
// match query. Concatenating the segments yields text unchanged.
func HighlightMatches(text, query string) []Segment {
	if text == "" {
		return nil
	}

	matches := FindMatchIndices(text, query)
	if len(matches) == 0 {
		return []Segment{{Text: text}}
	}

	segments := make([]Segment, 0, 2*len(matches)+1)
	last := 0
	for _, m := range matches {
		if m.Start > last {
			segments = append(segments, Segment{Text: text[last:m.Start]})
		}
		segments = append(segments, Segment{Text: text[m.Start:m.End], Highlight: true})
		last = m.End
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}
	return segments
}
