package main

import (
	"bufio"
	"context"
	"flag"
	"iter"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/shopsearch"
	"github.com/poiesic/shopsearch/catalog"
	"github.com/poiesic/shopsearch/config"
)

var (
	dbPath      = flag.String("db", "./history_db", "history database directory")
	catalogPath = flag.String("catalog", "", "catalog YAML file")
	seedFile    = flag.String("src", "", "file of catalog ids to select, one per line")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// linesFromFile returns an iterator over the non-blank lines in a file.
func linesFromFile(filename string) (iter.Seq[string], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if !yield(line) {
				return
			}
		}
	}, nil
}

// catalogIDs returns an iterator over the ids of every catalog entry.
func catalogIDs(cat *catalog.Catalog) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, r := range cat.All() {
			if !yield(r.Id) {
				return
			}
		}
	}
}

// seed records a selection for every id found in the catalog.
func seed(ctx context.Context, db *shopsearch.Database, cat *catalog.Catalog, ids iter.Seq[string]) (int, error) {
	saved := 0
	for id := range ids {
		result, ok := cat.Find(id)
		if !ok {
			slog.Warn("unknown catalog id", "id", id)
			continue
		}
		if err := db.History().Save(ctx, result); err != nil {
			return saved, err
		}
		saved++
	}
	return saved, nil
}

func main() {
	if *catalogPath == "" {
		slog.Error("-catalog is required")
		os.Exit(2)
	}

	cfg, err := config.NewConfig(config.WithDatabasePath(*dbPath), config.WithCatalogPath(*catalogPath))
	if err != nil {
		panic(err)
	}
	db, err := shopsearch.Open(cfg)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	cat, err := catalog.LoadCatalog(*catalogPath)
	if err != nil {
		panic(err)
	}

	// Determine source of seed data
	var ids iter.Seq[string]
	if *seedFile != "" {
		ids, err = linesFromFile(*seedFile)
		if err != nil {
			panic(err)
		}
	} else {
		ids = catalogIDs(cat)
	}

	saved, err := seed(context.Background(), db, cat, ids)
	if err != nil {
		panic(err)
	}
	slog.Info("seeded history", "selections", saved, "capacity", db.History().Capacity())
}
