// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/poiesic/shopsearch/catalog"
	"github.com/poiesic/shopsearch/core"
	"github.com/poiesic/shopsearch/search"
)

const (
	// DefaultInitialLimit is the number of results shown before expanding.
	DefaultInitialLimit = 8

	// DefaultExpandedLimit is the number of results shown after Expand.
	DefaultExpandedLimit = 50
)

// LimitMode selects how many results a session shows.
type LimitMode int

const (
	LimitInitial LimitMode = iota
	LimitExpanded
)

func (m LimitMode) String() string {
	if m == LimitExpanded {
		return "expanded"
	}
	return "initial"
}

// Searcher runs search passes for a session.
type Searcher interface {
	Search(ctx context.Context, req search.Request) (*search.Response, error)
}

// Recorder records selected results.
type Recorder interface {
	Save(ctx context.Context, result core.SearchResult) error
}

// Session holds the state of one open search dialog: the raw and debounced
// query, the category filter and the limit mode. Query changes are
// debounced before a search pass runs.
type Session struct {
	ctx       context.Context
	searcher  Searcher
	recorder  Recorder
	router    func(core.SearchResult) string
	debouncer *Debouncer[string]
	navigator *Navigator[core.SearchResult]
	logger    *slog.Logger

	delay         time.Duration
	afterFunc     AfterFunc
	initialLimit  int
	expandedLimit int
	onResults     func(*search.Response)
	onNavigate    func(route string)
	onClose       func()

	mu        sync.Mutex
	query     string
	debounced string
	category  string
	mode      LimitMode
	response  *search.Response
	gen       uint64
}

// Option configures a Session.
type Option func(*Session) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithDelay sets the debounce delay.
// Default is DefaultDelay.
func WithDelay(delay time.Duration) Option {
	return func(s *Session) error {
		if delay < 0 {
			return ErrInvalidDelay
		}
		s.delay = delay
		return nil
	}
}

// WithLimits sets the initial and expanded result limits.
func WithLimits(initial, expanded int) Option {
	return func(s *Session) error {
		if initial < 1 || expanded < initial {
			return ErrInvalidLimits
		}
		s.initialLimit = initial
		s.expandedLimit = expanded
		return nil
	}
}

// WithRecorder records every selected result.
func WithRecorder(recorder Recorder) Option {
	return func(s *Session) error {
		s.recorder = recorder
		return nil
	}
}

// WithRouter replaces the function that turns a result into a route.
// Default is catalog.Route.
func WithRouter(router func(core.SearchResult) string) Option {
	return func(s *Session) error {
		if router != nil {
			s.router = router
		}
		return nil
	}
}

// WithTimer replaces the debounce timer factory.
func WithTimer(fn AfterFunc) Option {
	return func(s *Session) error {
		s.afterFunc = fn
		return nil
	}
}

// OnResults registers a callback invoked after every completed search pass.
func OnResults(fn func(*search.Response)) Option {
	return func(s *Session) error {
		s.onResults = fn
		return nil
	}
}

// OnNavigate registers a callback invoked with the route of a selected result.
func OnNavigate(fn func(route string)) Option {
	return func(s *Session) error {
		s.onNavigate = fn
		return nil
	}
}

// OnClose registers a callback invoked when the session closes.
func OnClose(fn func()) Option {
	return func(s *Session) error {
		s.onClose = fn
		return nil
	}
}

// New creates a session that searches with searcher. ctx bounds every
// search pass the session runs.
func New(ctx context.Context, searcher Searcher, opts ...Option) (*Session, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}

	s := &Session{
		ctx:           ctx,
		searcher:      searcher,
		router:        catalog.Route,
		logger:        slog.Default(),
		delay:         DefaultDelay,
		initialLimit:  DefaultInitialLimit,
		expandedLimit: DefaultExpandedLimit,
		category:      core.CategoryAll,
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	var debounceOpts []DebounceOption
	if s.afterFunc != nil {
		debounceOpts = append(debounceOpts, WithAfterFunc(s.afterFunc))
	}
	s.debouncer = NewDebouncer("", s.delay, s.onDebounced, debounceOpts...)
	s.navigator = NewNavigator(
		func(r core.SearchResult) { s.Select(r) },
		s.Close,
	)

	return s, nil
}

// Open activates the navigator for a freshly opened dialog.
func (s *Session) Open() {
	s.navigator.Activate()
}

// SetQuery updates the raw query. A search pass runs once the query has
// been stable for the debounce delay.
func (s *Session) SetQuery(query string) {
	s.mu.Lock()
	s.query = query
	s.mu.Unlock()

	s.debouncer.Set(query)
}

// SetCategory changes the category filter, resets the limit mode and
// re-runs the current debounced query.
func (s *Session) SetCategory(category string) {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		category = core.CategoryAll
	}

	s.mu.Lock()
	s.category = category
	s.mode = LimitInitial
	s.mu.Unlock()

	s.refresh()
}

// Expand switches to the expanded limit and re-runs the current query.
func (s *Session) Expand() {
	s.mu.Lock()
	if s.mode == LimitExpanded {
		s.mu.Unlock()
		return
	}
	s.mode = LimitExpanded
	s.mu.Unlock()

	s.refresh()
}

// HandleKey forwards a key press to the navigator and reports whether it
// was handled.
func (s *Session) HandleKey(key Key) bool {
	return s.navigator.HandleKey(key)
}

// Select records result, navigates to its route and closes the session.
// The route is returned. Recording failures are logged and otherwise ignored.
func (s *Session) Select(result core.SearchResult) string {
	if s.recorder != nil {
		if err := s.recorder.Save(s.ctx, result); err != nil {
			s.logger.Warn("error recording selection", "id", result.Id, "err", err)
		}
	}

	route := s.router(result)
	if s.onNavigate != nil {
		s.onNavigate(route)
	}
	s.Close()
	return route
}

// Close cancels any pending search and resets the session state.
func (s *Session) Close() {
	s.debouncer.Reset("")
	s.navigator.SetResults(nil)

	s.mu.Lock()
	s.gen++
	s.query = ""
	s.debounced = ""
	s.category = core.CategoryAll
	s.mode = LimitInitial
	s.response = nil
	s.mu.Unlock()

	if s.onClose != nil {
		s.onClose()
	}
}

// Query returns the raw query.
func (s *Session) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// DebouncedQuery returns the query the last search pass ran with.
func (s *Session) DebouncedQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.debounced
}

// Category returns the active category filter.
func (s *Session) Category() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category
}

// Mode returns the limit mode.
func (s *Session) Mode() LimitMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Response returns the latest search response, or nil.
func (s *Session) Response() *search.Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.response
}

// Selected returns the index selected by the navigator.
func (s *Session) Selected() int {
	return s.navigator.Selected()
}

// Current returns the result selected by the navigator, if any.
func (s *Session) Current() (core.SearchResult, bool) {
	return s.navigator.Current()
}

func (s *Session) onDebounced(query string) {
	s.mu.Lock()
	s.debounced = query
	s.mode = LimitInitial
	s.mu.Unlock()

	s.refresh()
}

// refresh runs a search pass for the current state. Responses that arrive
// after a newer pass started or after Close are dropped.
func (s *Session) refresh() {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	limit := s.initialLimit
	if s.mode == LimitExpanded {
		limit = s.expandedLimit
	}
	req := search.Request{Query: s.debounced, Category: s.category, Limit: limit}
	s.mu.Unlock()

	resp, err := s.searcher.Search(s.ctx, req)
	if err != nil {
		s.logger.Warn("search failed", "query", req.Query, "err", err)
		return
	}

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.response = resp
	s.navigator.SetResults(resp.Results)
	s.mu.Unlock()

	if s.onResults != nil {
		s.onResults(resp)
	}
}
