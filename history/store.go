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


package history

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/poiesic/shopsearch/core"
	"github.com/poiesic/shopsearch/storage"
)

// DefaultCapacity is the number of entries a store keeps.
const DefaultCapacity = 10

// Store is a bounded, persisted list of selected search results ordered
// from most to least recently selected.
//
// Storage failures never leave the caller without a value: reads return an
// empty list or zero stats and writes become no-ops. The failure is logged
// and returned wrapped in ErrReadFailed or ErrWriteFailed.
type Store struct {
	mu       sync.Mutex
	repo     storage.HistoryRepository
	capacity int
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures a Store.
type Option func(*Store) error

// WithCapacity sets the maximum number of entries.
// Default is DefaultCapacity.
func WithCapacity(capacity int) Option {
	return func(s *Store) error {
		if capacity < 1 {
			return ErrInvalidCapacity
		}
		s.capacity = capacity
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithClock replaces the time source used for SearchedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) error {
		if now != nil {
			s.now = now
		}
		return nil
	}
}

// NewStore creates a history store backed by repo.
func NewStore(repo storage.HistoryRepository, opts ...Option) (*Store, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}

	s := &Store{
		repo:     repo,
		capacity: DefaultCapacity,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Capacity returns the maximum number of entries.
func (s *Store) Capacity() int {
	return s.capacity
}

// Save records a selection of result. A result already in the history is
// moved to the front with its click count incremented; a new one is
// inserted at the front. Entries beyond capacity are dropped.
func (s *Store) Save(ctx context.Context, result core.SearchResult) error {
	if err := core.ValidateSearchResult(&result); err != nil {
		s.logger.Warn("refusing to save invalid result", "id", result.Id, "err", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	err := s.repo.UpdateHistory(ctx, func(items []core.HistoryItem) ([]core.HistoryItem, error) {
		return insertFront(items, result, now, s.capacity), nil
	})
	return s.writeFailed(err, "save", "id", result.Id)
}

// Get returns the full history, most recent first.
func (s *Store) Get(ctx context.Context) ([]core.HistoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// GetRecent returns the n most recent entries.
func (s *Store) GetRecent(ctx context.Context, n int) ([]core.HistoryItem, error) {
	items, err := s.Get(ctx)
	if n <= 0 {
		return []core.HistoryItem{}, err
	}
	if len(items) > n {
		items = items[:n]
	}
	return items, err
}

// GetByType returns the entries of type t, most recent first.
func (s *Store) GetByType(ctx context.Context, t core.ResultType) ([]core.HistoryItem, error) {
	items, err := s.Get(ctx)
	filtered := make([]core.HistoryItem, 0, len(items))
	for _, item := range items {
		if item.Type == t {
			filtered = append(filtered, item)
		}
	}
	return filtered, err
}

// Remove deletes the entry with the given id. Unknown ids are ignored.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.repo.UpdateHistory(ctx, func(items []core.HistoryItem) ([]core.HistoryItem, error) {
		return slices.DeleteFunc(items, func(item core.HistoryItem) bool {
			return item.Id == id
		}), nil
	})
	return s.writeFailed(err, "remove", "id", id)
}

// Clear deletes every entry.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.repo.ClearHistory(ctx)
	return s.writeFailed(err, "clear")
}

// Stats summarizes the history. MostClicked is the entry with the highest
// click count; on ties the most recent one wins.
func (s *Store) Stats(ctx context.Context) (core.HistoryStats, error) {
	items, err := s.Get(ctx)

	stats := core.HistoryStats{
		Total:  len(items),
		ByType: make(map[core.ResultType]int),
	}
	for i := range items {
		stats.ByType[items[i].Type]++
		if stats.MostClicked == nil || items[i].ClickCount > stats.MostClicked.ClickCount {
			item := items[i]
			stats.MostClicked = &item
		}
	}
	return stats, err
}

// load reads the history. Callers must hold s.mu.
func (s *Store) load(ctx context.Context) ([]core.HistoryItem, error) {
	items, err := s.repo.LoadHistory(ctx)
	if err != nil {
		s.logger.Error("error reading search history", "err", err)
		return []core.HistoryItem{}, fmt.Errorf("%w: %w", ErrReadFailed, err)
	}
	if items == nil {
		return []core.HistoryItem{}, nil
	}
	if len(items) > s.capacity {
		items = items[:s.capacity]
	}
	return items, nil
}

func (s *Store) writeFailed(err error, op string, attrs ...any) error {
	if err == nil {
		return nil
	}
	s.logger.Error("error writing search history", append([]any{"op", op, "err", err}, attrs...)...)
	return fmt.Errorf("%w: %w", ErrWriteFailed, err)
}

// insertFront returns items with result recorded at index 0 and the list
// cut to capacity.
func insertFront(items []core.HistoryItem, result core.SearchResult, now time.Time, capacity int) []core.HistoryItem {
	entry := core.HistoryItem{
		SearchResult: result,
		SearchedAt:   now,
		ClickCount:   1,
	}
	entry.Metadata = maps.Clone(result.Metadata)

	if i := slices.IndexFunc(items, func(item core.HistoryItem) bool { return item.Id == result.Id }); i >= 0 {
		entry = items[i]
		entry.SearchedAt = now
		entry.ClickCount++
		items = slices.Delete(items, i, i+1)
	}

	next := make([]core.HistoryItem, 0, min(len(items)+1, capacity))
	next = append(next, entry)
	for _, item := range items {
		if len(next) == capacity {
			break
		}
		next = append(next, item)
	}
	return next
}
