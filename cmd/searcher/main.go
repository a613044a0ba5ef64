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
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/shopsearch"
	"github.com/poiesic/shopsearch/config"
	"github.com/poiesic/shopsearch/core"
	"github.com/poiesic/shopsearch/search"
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

// traceMonitor prints every step of a search pass with its elapsed time.
type traceMonitor struct {
	start time.Time
}

var _ search.SearchMonitor = (*traceMonitor)(nil)

func (m *traceMonitor) Start(query string) {
	m.start = time.Now()
	fmt.Printf("search %q\n", query)
}

func (m *traceMonitor) AfterCandidates(sourceType core.ResultType, count int) {
	fmt.Printf("  %-8s %3d candidates  +%s\n", sourceType, count, time.Since(m.start))
}

func (m *traceMonitor) SourceFailed(sourceType core.ResultType, err error) {
	fmt.Printf("  %-8s failed: %v\n", sourceType, err)
}

func (m *traceMonitor) AfterScoring(matches int) {
	fmt.Printf("  %d matches  +%s\n", matches, time.Since(m.start))
}

func (m *traceMonitor) Finish(results []core.SearchResult) {
	fmt.Printf("  %d results  +%s\n", len(results), time.Since(m.start))
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	db, err := shopsearch.Open(cfg)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	sources, err := db.Sources()
	if err != nil {
		panic(err)
	}
	searcher, err := db.NewSearcher(sources)
	if err != nil {
		panic(err)
	}
	defer searcher.Release()

	query := "corte"
	if len(os.Args) > 1 {
		query = strings.Join(os.Args[1:], " ")
	}

	ctx := context.Background()
	resp, err := searcher.SearchWithMonitor(ctx, search.Request{Query: query}, &traceMonitor{})
	if err != nil {
		panic(err)
	}

	fmt.Printf("Found %d hits in %s\n", resp.Total, resp.Duration)
	for i, hit := range resp.Results {
		fmt.Printf("%d: '%s' (%s)[%d]\n", i, hit.Title, hit.Type, hit.Score)
	}
}
