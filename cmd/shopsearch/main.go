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


package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/shopsearch"
	"github.com/poiesic/shopsearch/config"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "shopsearch",
		Usage: "Global search over pages, staff, services and units of the shop back office",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Environment file with SHOPSEARCH_* settings",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB history directory (overrides SHOPSEARCH_DB_PATH)",
			},
			&cli.StringFlag{
				Name:    "catalog",
				Aliases: []string{"c"},
				Usage:   "Catalog YAML file (overrides SHOPSEARCH_CATALOG)",
			},
			&cli.StringFlag{
				Name:  "categories",
				Usage: "Category YAML file (overrides SHOPSEARCH_CATEGORIES)",
			},
			&cli.StringFlag{
				Name:  "namespace",
				Usage: "History namespace (overrides SHOPSEARCH_NAMESPACE)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Run one search pass and print the ranked results",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "category",
						Usage: "Result type filter (all, page, staff, service, unit)",
						Value: "all",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of results to print",
						Value: 8,
					},
				},
			},
			{
				Name:      "select",
				Usage:     "Record a catalog entry as selected and print its route",
				ArgsUsage: "<id>",
				Action:    selectCommand,
			},
			{
				Name:   "history",
				Usage:  "List recent searches, most recent first",
				Action: historyCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "type",
						Usage: "Only list entries of this result type",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of entries to list (0 lists all)",
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Print history statistics",
				Action: statsCommand,
			},
			{
				Name:      "forget",
				Usage:     "Remove an entry from the history",
				ArgsUsage: "<id>",
				Action:    forgetCommand,
			},
			{
				Name:   "clear",
				Usage:  "Remove every history entry",
				Action: clearCommand,
			},
			{
				Name:   "categories",
				Usage:  "List the configured category filters",
				Action: categoriesCommand,
			},
			{
				Name:   "shell",
				Usage:  "Interactive search session reading queries and keys from stdin",
				Action: shellCommand,
			},
		},
	}
}

// loadConfig reads the SHOPSEARCH_* environment and applies global flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return nil, err
	}

	if v := c.String("db"); v != "" {
		cfg.DatabasePath = v
	}
	if v := c.String("catalog"); v != "" {
		cfg.CatalogPath = v
	}
	if v := c.String("categories"); v != "" {
		cfg.CategoriesPath = v
	}
	if v := c.String("namespace"); v != "" {
		cfg.Namespace = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openDatabase(c *cli.Context) (*shopsearch.Database, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	db, err := shopsearch.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
