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


package shopsearch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/shopsearch/catalog"
	"github.com/poiesic/shopsearch/config"
	"github.com/poiesic/shopsearch/history"
	"github.com/poiesic/shopsearch/search"
	"github.com/poiesic/shopsearch/session"
	"github.com/poiesic/shopsearch/storage"
	"github.com/poiesic/shopsearch/storage/badger"
)

// Database wires the history store, its badger backend and the search
// engine settings together.
type Database struct {
	backend     *badger.Backend
	historyRepo storage.HistoryRepository
	history     *history.Store
	config      *config.Config
	logger      *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	config   *config.Config
	logger   *slog.Logger
	inMemory bool
}

// WithConfig sets the engine configuration.
// Default is config.DefaultConfig().
func WithConfig(cfg *config.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.config = cfg
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		o.logger = logger
	}
}

// WithInMemory keeps history in memory instead of on disk.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// NewDatabase opens the history database at filePath.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		config: config.DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	if options.config == nil {
		options.config = config.DefaultConfig()
	}
	if err := options.config.Validate(); err != nil {
		return nil, err
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory, badger.WithLogger(options.logger))
	if err != nil {
		return nil, err
	}

	historyRepo := badger.NewHistoryRepository(backend, options.config.Namespace)
	store, err := history.NewStore(historyRepo,
		history.WithCapacity(options.config.HistoryCapacity),
		history.WithLogger(options.logger),
	)
	if err != nil {
		historyRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:     backend,
		historyRepo: historyRepo,
		history:     store,
		config:      options.config,
		logger:      options.logger,
	}, nil
}

// Open opens the database described by cfg.
func Open(cfg *config.Config, opts ...DatabaseOption) (*Database, error) {
	return NewDatabase(cfg.DatabasePath, append([]DatabaseOption{WithConfig(cfg)}, opts...)...)
}

func (db *Database) Close() error {
	if err := db.historyRepo.Close(); err != nil {
		db.logger.Error("error closing history repository", "err", err)
		return err
	}

	// Close backend
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) Config() *config.Config {
	return db.config
}

func (db *Database) History() *history.Store {
	return db.history
}

func (db *Database) HistoryRepository() storage.HistoryRepository {
	return db.historyRepo
}

// Sources builds the search sources named by the configuration: the
// catalog file sections and, when configured, the remote staff API.
// A configured staff API replaces the catalog's staff section.
func (db *Database) Sources() ([]search.Source, error) {
	staffOpts := []catalog.StaffOption{
		catalog.WithPageSize(db.config.StaffPageSize),
		catalog.WithMaxPages(db.config.StaffMaxPages),
		catalog.WithStaffLogger(db.logger),
	}

	var sources []search.Source
	if db.config.CatalogPath != "" {
		cat, err := catalog.LoadCatalog(db.config.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		if db.config.HasStaffAPI() {
			cat.Staff = nil
		}
		sources, err = cat.Sources(staffOpts...)
		if err != nil {
			return nil, err
		}
	}

	if db.config.HasStaffAPI() {
		directory := catalog.NewHTTPStaffDirectory(db.config.StaffAPIURL, db.config.StaffAPIToken)
		src, err := catalog.NewStaffSource(directory, staffOpts...)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	if len(sources) == 0 {
		return nil, search.ErrSourcesRequired
	}
	return sources, nil
}

// NewSearcher creates a searcher over sources using the configured score
// threshold, pool and cache. opts are applied after the configuration.
func (db *Database) NewSearcher(sources []search.Source, opts ...search.Option) (*search.Searcher, error) {
	base := []search.Option{
		search.WithLogger(db.logger),
		search.WithMinScore(db.config.MinScore),
		search.WithCacheSize(db.config.CacheSize),
		search.WithCacheTTL(db.config.CacheTTL),
	}
	if db.config.PoolSize > 0 {
		base = append(base, search.WithPoolSize(db.config.PoolSize))
	}
	return search.NewSearcher(sources, append(base, opts...)...)
}

// NewSession creates a search session that records selections in the
// history store. opts are applied after the configuration.
func (db *Database) NewSession(ctx context.Context, searcher session.Searcher, opts ...session.Option) (*session.Session, error) {
	base := []session.Option{
		session.WithLogger(db.logger),
		session.WithDelay(db.config.DebounceDelay),
		session.WithLimits(db.config.InitialLimit, db.config.ExpandedLimit),
		session.WithRecorder(db.history),
	}
	return session.New(ctx, searcher, append(base, opts...)...)
}
