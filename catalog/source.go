package catalog

import (
	"context"
	"fmt"
	"maps"

	"github.com/poiesic/shopsearch/core"
	"github.com/poiesic/shopsearch/search"
)

// StaticSource serves a fixed list of candidates of one type.
type StaticSource struct {
	typ     core.ResultType
	results []core.SearchResult
}

var _ search.Source = (*StaticSource)(nil)

// NewStaticSource creates a source over results, which must all be of type typ.
func NewStaticSource(typ core.ResultType, results []core.SearchResult) (*StaticSource, error) {
	if !typ.IsValid() {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidResultType, typ)
	}
	for i := range results {
		if results[i].Type != typ {
			return nil, fmt.Errorf("%w: %s entry %q in %s source", ErrInvalidType, results[i].Type, results[i].Id, typ)
		}
		if err := core.ValidateSearchResult(&results[i]); err != nil {
			return nil, err
		}
	}
	return &StaticSource{typ: typ, results: cloneResults(results)}, nil
}

// Type returns the result type of the source.
func (s *StaticSource) Type() core.ResultType {
	return s.typ
}

// Candidates returns every entry; scoring happens in the searcher.
func (s *StaticSource) Candidates(ctx context.Context, _ string) ([]core.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cloneResults(s.results), nil
}

// Len returns the number of entries.
func (s *StaticSource) Len() int {
	return len(s.results)
}

func cloneResults(results []core.SearchResult) []core.SearchResult {
	cloned := make([]core.SearchResult, len(results))
	for i, r := range results {
		r.Metadata = maps.Clone(r.Metadata)
		cloned[i] = r
	}
	return cloned
}
