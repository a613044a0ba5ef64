package search

import (
	"context"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/shopsearch/core"
)

const (
	// DefaultCacheSize is the number of queries kept in the result cache.
	DefaultCacheSize = 128

	// DefaultCacheTTL is how long a cached result list stays valid.
	DefaultCacheTTL = 30 * time.Second

	// DefaultMaxSuggestions caps fuzzy suggestions returned for empty result sets.
	DefaultMaxSuggestions = 5
)

// Source provides search candidates of a single result type.
// Implementations must be safe for concurrent use.
type Source interface {
	// Type returns the result type this source produces.
	Type() core.ResultType

	// Candidates returns the entities that may match query. Sources may
	// pre-filter on query but the Searcher scores every candidate itself.
	Candidates(ctx context.Context, query string) ([]core.SearchResult, error)
}

// Request describes a single search pass.
type Request struct {
	Query    string
	Category string // core.CategoryAll, "" or a result type
	Limit    int    // <= 0 returns every match
}

// Response contains the ranked results of a search pass.
type Response struct {
	Query       string
	Results     []core.SearchResult
	Total       int                     // Matches in the category before Limit was applied
	ByType      map[core.ResultType]int // Matches per type, ignoring Category
	HasMore     bool
	Suggestions []string // Fuzzy title suggestions, only set when nothing matched
	Duration    time.Duration
	CacheHit    bool
}

// cacheEntry is a ranked result list with its expiration time.
type cacheEntry struct {
	results     []core.SearchResult
	suggestions []string
	expiresAt   time.Time
}

// Searcher gathers candidates from its sources, scores and ranks them.
type Searcher struct {
	sources        []Source
	pool           *ants.Pool
	cache          *lru.Cache[string, *cacheEntry]
	cacheTTL       time.Duration
	minScore       int
	maxSuggestions int
	now            func() time.Time
	logger         *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMinScore sets the minimum score a result needs to be returned.
// Default is DefaultMinScore.
func WithMinScore(minScore int) Option {
	return func(s *Searcher) error {
		if minScore < 0 || minScore > core.MaxScore {
			return ErrInvalidMinScore
		}
		s.minScore = minScore
		return nil
	}
}

// WithPoolSize sets the number of sources queried concurrently.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(s *Searcher) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if s.pool != nil {
			s.pool.Release()
		}
		s.pool = pool
		return nil
	}
}

// WithCacheSize sets the number of cached queries. Zero disables caching.
func WithCacheSize(size int) Option {
	return func(s *Searcher) error {
		if size <= 0 {
			s.cache = nil
			return nil
		}
		cache, err := lru.New[string, *cacheEntry](size)
		if err != nil {
			return err
		}
		s.cache = cache
		return nil
	}
}

// WithCacheTTL sets how long cached results stay valid. Zero keeps entries
// until they are evicted.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Searcher) error {
		s.cacheTTL = ttl
		return nil
	}
}

// WithMaxSuggestions caps the number of fuzzy suggestions. Zero disables them.
func WithMaxSuggestions(n int) Option {
	return func(s *Searcher) error {
		s.maxSuggestions = max(0, n)
		return nil
	}
}

// withClock replaces the time source. Used by tests.
func withClock(now func() time.Time) Option {
	return func(s *Searcher) error {
		s.now = now
		return nil
	}
}

// NewSearcher creates a new searcher over the given sources.
// Call Release when the searcher is no longer needed.
func NewSearcher(sources []Source, opts ...Option) (*Searcher, error) {
	if len(sources) == 0 {
		return nil, ErrSourcesRequired
	}
	for _, src := range sources {
		if src == nil {
			return nil, ErrNilSource
		}
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	cache, err := lru.New[string, *cacheEntry](DefaultCacheSize)
	if err != nil {
		pool.Release()
		return nil, err
	}

	s := &Searcher{
		sources:        slices.Clone(sources),
		pool:           pool,
		cache:          cache,
		cacheTTL:       DefaultCacheTTL,
		minScore:       DefaultMinScore,
		maxSuggestions: DefaultMaxSuggestions,
		now:            time.Now,
		logger:         slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			s.Release()
			return nil, err
		}
	}

	return s, nil
}

// Release frees the worker pool.
func (s *Searcher) Release() {
	if s.pool != nil {
		s.pool.Release()
	}
}

// InvalidateCache drops every cached result list.
func (s *Searcher) InvalidateCache() {
	if s.cache != nil {
		s.cache.Purge()
	}
}

// Search runs a search pass for req.
func (s *Searcher) Search(ctx context.Context, req Request) (*Response, error) {
	return s.SearchWithMonitor(ctx, req, nil)
}

// SearchWithMonitor runs a search pass, reporting each stage to monitor.
func (s *Searcher) SearchWithMonitor(ctx context.Context, req Request, monitor SearchMonitor) (*Response, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	started := s.now()
	monitor.Start(req.Query)

	query := Normalize(req.Query)
	if query == "" {
		resp := &Response{
			Query:   req.Query,
			Results: []core.SearchResult{},
			ByType:  map[core.ResultType]int{},
		}
		monitor.Finish(resp.Results)
		return resp, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ranked, suggestions, hit := s.lookup(query)
	if !hit {
		batches, failed, err := s.gather(ctx, req.Query, monitor)
		if err != nil {
			return nil, err
		}
		ranked = s.rank(req.Query, batches)
		monitor.AfterScoring(len(ranked))
		if len(ranked) == 0 {
			suggestions = suggest(query, batches, s.maxSuggestions)
		}
		if failed == 0 {
			s.store(query, ranked, suggestions)
		}
	}

	resp := buildResponse(req, ranked, suggestions)
	resp.CacheHit = hit
	resp.Duration = s.now().Sub(started)
	monitor.Finish(resp.Results)

	s.logger.Debug("search finished",
		"query", req.Query,
		"category", req.Category,
		"total", resp.Total,
		"cacheHit", hit,
		"duration", resp.Duration)

	return resp, nil
}

// gather queries every source on the worker pool. The returned batches are
// indexed like s.sources. Failing sources are logged, left empty and counted.
func (s *Searcher) gather(ctx context.Context, query string, monitor SearchMonitor) ([][]core.SearchResult, int, error) {
	batches := make([][]core.SearchResult, len(s.sources))
	failed := 0

	var wg sync.WaitGroup
	var mu sync.Mutex // guards monitor and failed
	for i, src := range s.sources {
		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()
			candidates, err := src.Candidates(ctx, query)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Warn("candidate source failed", "type", src.Type(), "err", err)
				monitor.SourceFailed(src.Type(), err)
				failed++
				return
			}
			batches[i] = candidates
			monitor.AfterCandidates(src.Type(), len(candidates))
		})
		if err != nil {
			wg.Done()
			mu.Lock()
			failed++
			mu.Unlock()
			s.logger.Error("error submitting candidate source", "type", src.Type(), "err", err)
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	return batches, failed, nil
}

// rank scores every valid candidate, drops low scores and sorts the rest.
// Source order is the tie-break for equal scores.
func (s *Searcher) rank(query string, batches [][]core.SearchResult) []core.SearchResult {
	var candidates []core.SearchResult
	for _, batch := range batches {
		for _, c := range batch {
			if err := core.ValidateSearchResult(&c); err != nil {
				s.logger.Debug("skipping invalid candidate", "id", c.Id, "err", err)
				continue
			}
			candidates = append(candidates, c)
		}
	}
	scored := ScoreResults(candidates, query)
	return SortByRelevance(FilterByMinScore(scored, s.minScore))
}

func (s *Searcher) lookup(query string) ([]core.SearchResult, []string, bool) {
	if s.cache == nil {
		return nil, nil, false
	}
	entry, ok := s.cache.Get(query)
	if !ok {
		return nil, nil, false
	}
	if s.cacheTTL > 0 && s.now().After(entry.expiresAt) {
		s.cache.Remove(query)
		return nil, nil, false
	}
	return entry.results, entry.suggestions, true
}

func (s *Searcher) store(query string, results []core.SearchResult, suggestions []string) {
	if s.cache == nil {
		return
	}
	s.cache.Add(query, &cacheEntry{
		results:     results,
		suggestions: suggestions,
		expiresAt:   s.now().Add(s.cacheTTL),
	})
}

// buildResponse applies the category filter and the limit to a ranked list.
func buildResponse(req Request, ranked []core.SearchResult, suggestions []string) *Response {
	byType := make(map[core.ResultType]int)
	filtered := make([]core.SearchResult, 0, len(ranked))
	for _, r := range ranked {
		byType[r.Type]++
		if core.MatchesCategory(r.Type, req.Category) {
			filtered = append(filtered, r)
		}
	}

	total := len(filtered)
	hasMore := false
	if req.Limit > 0 && total > req.Limit {
		filtered = filtered[:req.Limit]
		hasMore = true
	}

	return &Response{
		Query:       req.Query,
		Results:     filtered,
		Total:       total,
		ByType:      byType,
		HasMore:     hasMore,
		Suggestions: slices.Clone(suggestions),
	}
}
