package search

import (
	"cmp"
	"slices"

	"github.com/poiesic/shopsearch/core"
)

// DefaultMinScore is the lowest score a result needs to be shown.
const DefaultMinScore = 10

// Document is the scorable view of an arbitrary item.
type Document struct {
	Title       string
	Description string
	Metadata    map[string]string
}

// Ranked pairs an item with its relevance score.
type Ranked[T any] struct {
	Item  T
	Score int
}

// FilterByMinScore returns the results whose score is at least minScore.
func FilterByMinScore(results []core.SearchResult, minScore int) []core.SearchResult {
	filtered := make([]core.SearchResult, 0, len(results))
	for _, r := range results {
		if r.Score >= minScore {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// SortByRelevance returns a copy of results ordered by descending score.
// Results with equal scores keep their original relative order.
func SortByRelevance(results []core.SearchResult) []core.SearchResult {
	sorted := slices.Clone(results)
	slices.SortStableFunc(sorted, func(a, b core.SearchResult) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return sorted
}

// ScoreResults returns a copy of results with Score computed for query.
func ScoreResults(results []core.SearchResult, query string) []core.SearchResult {
	scored := slices.Clone(results)
	for i := range scored {
		scored[i].Score = Score(query, scored[i].Title, scored[i].Description, scored[i].Metadata)
	}
	return scored
}

// ScoreAndSort scores every item against query, drops items below
// DefaultMinScore and returns the rest ordered by descending score.
func ScoreAndSort[T any](items []T, query string, extract func(T) Document) []Ranked[T] {
	ranked := make([]Ranked[T], 0, len(items))
	for _, item := range items {
		doc := extract(item)
		score := Score(query, doc.Title, doc.Description, doc.Metadata)
		if score < DefaultMinScore {
			continue
		}
		ranked = append(ranked, Ranked[T]{Item: item, Score: score})
	}
	slices.SortStableFunc(ranked, func(a, b Ranked[T]) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return ranked
}
