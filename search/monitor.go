package search

import "github.com/poiesic/shopsearch/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
// Calls are serialized by the Searcher.
type SearchMonitor interface {
	Start(query string)
	AfterCandidates(sourceType core.ResultType, count int)
	SourceFailed(sourceType core.ResultType, err error)
	AfterScoring(matches int)
	Finish(results []core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                           {}
func (n *noopMonitor) AfterCandidates(_ core.ResultType, _ int) {}
func (n *noopMonitor) SourceFailed(_ core.ResultType, _ error)  {}
func (n *noopMonitor) AfterScoring(_ int)                       {}
func (n *noopMonitor) Finish(_ []core.SearchResult)             {}
