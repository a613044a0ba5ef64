package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/poiesic/shopsearch/catalog"
	"github.com/poiesic/shopsearch/config"
	"github.com/poiesic/shopsearch/core"
	"github.com/poiesic/shopsearch/search"
	"github.com/urfave/cli/v2"
)

var errMissingArgument = errors.New("missing argument")

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("%w: query", errMissingArgument)
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	categories, err := config.LoadCategories(db.Config().CategoriesPath)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	category := c.String("category")
	if !config.IsTypeOption(categories, category) {
		return fmt.Errorf("unknown category %q: must be one of %s", category, strings.Join(config.TypeOptions(categories), ", "))
	}

	sources, err := db.Sources()
	if err != nil {
		return err
	}
	searcher, err := db.NewSearcher(sources)
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}
	defer searcher.Release()

	resp, err := searcher.Search(ctx, search.Request{Query: query, Category: category, Limit: c.Int("limit")})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	printResponse(c.App.Writer, resp, -1)
	return nil
}

func selectCommand(c *cli.Context) error {
	ctx := context.Background()

	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("%w: id", errMissingArgument)
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if db.Config().CatalogPath == "" {
		return errors.New("a catalog is required to select entries")
	}
	cat, err := catalog.LoadCatalog(db.Config().CatalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	result, ok := cat.Find(id)
	if !ok {
		return fmt.Errorf("no catalog entry with id %q", id)
	}

	if err := db.History().Save(ctx, result); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, catalog.Route(result))
	return nil
}

func historyCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	var items []core.HistoryItem
	if typ := c.String("type"); typ != "" {
		t, err := core.ParseResultType(typ)
		if err != nil {
			return err
		}
		items, err = db.History().GetByType(ctx, t)
		if err != nil {
			return err
		}
	} else if n := c.Int("limit"); n > 0 {
		items, err = db.History().GetRecent(ctx, n)
		if err != nil {
			return err
		}
	} else {
		items, err = db.History().Get(ctx)
		if err != nil {
			return err
		}
	}
	if n := c.Int("limit"); n > 0 && len(items) > n {
		items = items[:n]
	}

	printHistory(c.App.Writer, items)
	return nil
}

func statsCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := db.History().Stats(ctx)
	if err != nil {
		return err
	}
	printStats(c.App.Writer, stats)
	return nil
}

func forgetCommand(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("%w: id", errMissingArgument)
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.History().Remove(context.Background(), id)
}

func clearCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.History().Clear(context.Background())
}

func categoriesCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	categories, err := config.LoadCategories(cfg.CategoriesPath)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}

	for _, cat := range categories {
		fmt.Fprintf(c.App.Writer, "%s (%s, field %s)\n", cat.Label, cat.Key, cat.MatchField)
		for _, o := range cat.Options {
			fmt.Fprintf(c.App.Writer, "  %-10s %s\n", o.Value, o.DisplayLabel)
		}
	}
	return nil
}
