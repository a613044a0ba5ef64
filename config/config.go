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


package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/poiesic/shopsearch/catalog"
	"github.com/poiesic/shopsearch/history"
	"github.com/poiesic/shopsearch/search"
	"github.com/poiesic/shopsearch/session"
	"github.com/poiesic/shopsearch/storage/badger"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SHOPSEARCH"

// ErrInvalidConfig is returned when a configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the settings of the search engine and its collaborators.
type Config struct {
	DatabasePath    string        `envconfig:"DB_PATH" validate:"required"`
	Namespace       string        `envconfig:"NAMESPACE" validate:"required,max=64"`
	HistoryCapacity int           `envconfig:"HISTORY_CAPACITY" validate:"min=1,max=1000"`
	MinScore        int           `envconfig:"MIN_SCORE" validate:"min=0,max=100"`
	DebounceDelay   time.Duration `envconfig:"DEBOUNCE_DELAY" validate:"gte=0"`
	InitialLimit    int           `envconfig:"INITIAL_LIMIT" validate:"min=1"`
	ExpandedLimit   int           `envconfig:"EXPANDED_LIMIT" validate:"gtefield=InitialLimit"`
	PoolSize        int           `envconfig:"POOL_SIZE" validate:"min=0"`
	CacheSize       int           `envconfig:"CACHE_SIZE" validate:"min=0"`
	CacheTTL        time.Duration `envconfig:"CACHE_TTL" validate:"gte=0"`
	CatalogPath     string        `envconfig:"CATALOG"`
	CategoriesPath  string        `envconfig:"CATEGORIES"`
	StaffAPIURL     string        `envconfig:"STAFF_API_URL" validate:"omitempty,url"`
	StaffAPIToken   string        `envconfig:"STAFF_API_TOKEN"`
	StaffPageSize   int           `envconfig:"STAFF_PAGE_SIZE" validate:"min=1,max=200"`
	StaffMaxPages   int           `envconfig:"STAFF_MAX_PAGES" validate:"min=1"`
	LogLevel        string        `envconfig:"LOG_LEVEL" validate:"oneof=debug info warn error"`
}

// DefaultConfig returns a configuration with default values. It is the
// only source of defaults; Load starts from it.
func DefaultConfig() *Config {
	return &Config{
		DatabasePath:    "./shopsearch.db",
		Namespace:       badger.DefaultNamespace,
		HistoryCapacity: history.DefaultCapacity,
		MinScore:        search.DefaultMinScore,
		DebounceDelay:   session.DefaultDelay,
		InitialLimit:    session.DefaultInitialLimit,
		ExpandedLimit:   session.DefaultExpandedLimit,
		CacheSize:       search.DefaultCacheSize,
		CacheTTL:        search.DefaultCacheTTL,
		StaffPageSize:   catalog.DefaultPageSize,
		StaffMaxPages:   catalog.DefaultMaxPages,
		LogLevel:        "info",
	}
}

// Option is a functional option for configuring the engine.
type Option func(*Config)

// WithDatabasePath sets the history database directory.
func WithDatabasePath(path string) Option {
	return func(c *Config) {
		c.DatabasePath = path
	}
}

// WithNamespace sets the history namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithHistoryCapacity sets the number of history entries kept.
func WithHistoryCapacity(capacity int) Option {
	return func(c *Config) {
		c.HistoryCapacity = capacity
	}
}

// WithMinScore sets the minimum score of returned results.
func WithMinScore(score int) Option {
	return func(c *Config) {
		c.MinScore = score
	}
}

// WithDebounceDelay sets the session debounce delay.
func WithDebounceDelay(delay time.Duration) Option {
	return func(c *Config) {
		c.DebounceDelay = delay
	}
}

// WithLimits sets the initial and expanded result limits.
func WithLimits(initial, expanded int) Option {
	return func(c *Config) {
		c.InitialLimit = initial
		c.ExpandedLimit = expanded
	}
}

// WithCache sets the result cache size and TTL.
func WithCache(size int, ttl time.Duration) Option {
	return func(c *Config) {
		c.CacheSize = size
		c.CacheTTL = ttl
	}
}

// WithCatalogPath sets the catalog file.
func WithCatalogPath(path string) Option {
	return func(c *Config) {
		c.CatalogPath = path
	}
}

// WithCategoriesPath sets the category configuration file.
func WithCategoriesPath(path string) Option {
	return func(c *Config) {
		c.CategoriesPath = path
	}
}

// WithStaffAPI sets the staff API endpoint and token.
func WithStaffAPI(baseURL, token string) Option {
	return func(c *Config) {
		c.StaffAPIURL = baseURL
		c.StaffAPIToken = token
	}
}

// WithLogLevel sets the log level name.
func WithLogLevel(level string) Option {
	return func(c *Config) {
		c.LogLevel = strings.ToLower(level)
	}
}

// NewConfig creates a validated configuration from defaults and options.
func NewConfig(opts ...Option) (*Config, error) {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(c)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads the configuration from SHOPSEARCH_* environment variables.
// Unset variables keep their DefaultConfig value. Variables found in
// envFiles (default ".env") are loaded first; missing files are ignored
// and variables already set take precedence.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	c := DefaultConfig()
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the configuration constraints.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// HasStaffAPI reports whether a staff API endpoint is configured.
func (c *Config) HasStaffAPI() bool {
	return c.StaffAPIURL != ""
}

// SlogLevel converts LogLevel to a slog.Level. Unknown names map to Info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
