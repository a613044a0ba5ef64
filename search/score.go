package search

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/poiesic/shopsearch/core"
)

// Score weights. Title tiers are mutually exclusive, the remaining
// signals add up on top of whichever title tier matched.
const (
	exactMatchScore      = core.MaxScore
	wholeWordScore       = 70
	titlePrefixScore     = 50
	wordPrefixScore      = 40
	titleSubstringScore  = 30
	descriptionScore     = 20
	titleWordBonus       = 5
	descriptionWordBonus = 2
	metadataScore        = 5
)

// Score computes a heuristic relevance score in [0, 100] for a candidate.
// All comparisons run on normalized text. A blank query scores 0.
func Score(query, title, description string, metadata map[string]string) int {
	q := Normalize(query)
	if q == "" {
		return 0
	}

	t := Normalize(title)
	if t == q {
		return exactMatchScore
	}
	d := Normalize(description)
	titleWords := strings.Fields(t)

	score := 0
	switch {
	case containsWholeWord(t, q):
		score += wholeWordScore
	case strings.HasPrefix(t, q):
		score += titlePrefixScore
	case anyHasPrefix(titleWords, q):
		score += wordPrefixScore
	case strings.Contains(t, q):
		score += titleSubstringScore
	}

	if strings.Contains(d, q) {
		score += descriptionScore
	}

	for _, word := range distinctWords(q) {
		if anyContains(titleWords, word) {
			score += titleWordBonus
		}
		if strings.Contains(d, word) {
			score += descriptionWordBonus
		}
	}

	if len(metadata) > 0 && strings.Contains(Normalize(serializeMetadata(metadata)), q) {
		score += metadataScore
	}

	return min(score, core.MaxScore)
}

// containsWholeWord reports whether q occurs in text delimited by word
// boundaries on both sides.
func containsWholeWord(text, q string) bool {
	re, err := regexp2.Compile(`\b`+regexp2.Escape(q)+`\b`, regexp2.ECMAScript)
	if err != nil {
		return false
	}
	ok, err := re.MatchString(text)
	return err == nil && ok
}

func anyHasPrefix(words []string, prefix string) bool {
	for _, w := range words {
		if strings.HasPrefix(w, prefix) {
			return true
		}
	}
	return false
}

func anyContains(words []string, sub string) bool {
	for _, w := range words {
		if strings.Contains(w, sub) {
			return true
		}
	}
	return false
}

// distinctWords splits s on white space and drops repeated words,
// keeping first occurrences in order.
func distinctWords(s string) []string {
	fields := strings.Fields(s)
	seen := make(map[string]bool, len(fields))
	words := fields[:0]
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		words = append(words, f)
	}
	return words
}

// serializeMetadata renders metadata as a JSON object with sorted keys.
func serializeMetadata(metadata map[string]string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(metadata); err != nil {
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
