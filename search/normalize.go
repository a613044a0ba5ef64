package search

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// combiningMarks is the Combining Diacritical Marks block (U+0300..U+036F).
var combiningMarks = runes.Predicate(func(r rune) bool {
	return r >= 0x0300 && r <= 0x036f
})

// Normalize folds s for accent and case insensitive comparison.
// The result is lower-cased, decomposed (NFD), stripped of combining
// diacritical marks and trimmed. Normalize is idempotent.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	lowered := strings.ToLower(s)
	t := transform.Chain(norm.NFD, runes.Remove(combiningMarks))
	folded, _, err := transform.String(t, lowered)
	if err != nil {
		return strings.TrimSpace(lowered)
	}
	return strings.TrimSpace(strings.ToLower(folded))
}

// foldedText is the normalized form of a string that remembers, for every
// byte of the normalized text, the byte span of the original rune it came from.
type foldedText struct {
	text   string
	starts []int
	ends   []int
}

// fold normalizes s rune by rune so that matches found in the normalized
// text can be mapped back onto the original string.
func fold(s string) foldedText {
	var b strings.Builder
	b.Grow(len(s))
	starts := make([]int, 0, len(s))
	ends := make([]int, 0, len(s))

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		lowered := strings.ToLower(string(r))
		for _, d := range norm.NFD.String(lowered) {
			if combiningMarks.Contains(d) {
				continue
			}
			n, _ := b.WriteRune(unicode.ToLower(d))
			for k := 0; k < n; k++ {
				starts = append(starts, i)
				ends = append(ends, i+size)
			}
		}
		i += size
	}

	text := b.String()
	left := len(text) - len(strings.TrimLeftFunc(text, unicode.IsSpace))
	right := len(strings.TrimRightFunc(text, unicode.IsSpace))
	if right < left {
		right = left
	}
	return foldedText{
		text:   text[left:right],
		starts: starts[left:right],
		ends:   ends[left:right],
	}
}
