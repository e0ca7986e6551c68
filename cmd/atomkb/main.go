// Copyright 2025 CodeBang Labs
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
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/codebang/atomkb/ai"
	"github.com/codebang/atomkb/ai/openai"
	"github.com/codebang/atomkb/ingestion"
	"github.com/codebang/atomkb/reembed"
	"github.com/codebang/atomkb/search"
	"github.com/codebang/atomkb/storage/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "atomkb",
		Usage: "Knowledge atom store with semantic search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Parse a markdown atom document and commit its atoms",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the markdown atom document",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "namespace",
						Aliases:  []string{"n"},
						Usage:    "Namespace to ingest atoms into",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
				},
			},
			{
				Name:   "search",
				Usage:  "Search atoms by semantic similarity to a query",
				Action: searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Query text",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Maximum number of results",
						Value:   5,
					},
					&cli.StringFlag{
						Name:    "namespace",
						Aliases: []string{"n"},
						Usage:   "Restrict search to a namespace (all namespaces if empty)",
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
				},
			},
			{
				Name:   "get",
				Usage:  "Print a single atom by id",
				Action: getCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Atom identifier",
						Required: true,
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Print atom counts per namespace",
				Action: statsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Reembed all atoms with fresh embeddings",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of atoms to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N atoms",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	repo, cleanup, err := openRepository(c)
	if err != nil {
		return err
	}
	defer cleanup()

	embedder, err := newEmbedder(c)
	if err != nil {
		return err
	}
	defer embedder.Close()

	filePath := c.String("file")
	body, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	pipeline, err := ingestion.NewPipeline(repo, embedder)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	document := filepath.Base(filePath)
	report, err := pipeline.Ingest(ctx, document, string(body), c.String("namespace"))
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("Document: %s\n", report.Document)
	fmt.Printf("Namespace: %s\n", report.Namespace)
	fmt.Printf("Attempted: %d  Committed: %d  Skipped: %d  Failed: %d\n",
		report.Attempted, report.Committed, report.Skipped, report.Failed)
	for _, status := range report.Atoms {
		if status.Reason == "" {
			fmt.Printf("  %s: %s\n", status.AtomID, status.State)
			continue
		}
		fmt.Printf("  %s: %s (%s) %s\n", status.AtomID, status.State, status.Reason, status.Detail)
	}

	if report.Failed > 0 {
		return fmt.Errorf("%d of %d atoms failed", report.Failed, report.Attempted)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	repo, cleanup, err := openRepository(c)
	if err != nil {
		return err
	}
	defer cleanup()

	embedder, err := newEmbedder(c)
	if err != nil {
		return err
	}
	defer embedder.Close()

	searcher, err := search.NewSearcher(repo, embedder)
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}

	results, err := searcher.Search(ctx, c.String("query"), c.Int("top-k"), c.String("namespace"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Printf("Found %d hits\n", len(results))
	for i, hit := range results {
		fmt.Printf("%d: %s [%0.3f] %s\n", i, hit.Atom.AtomID, hit.Score, hit.Atom.Title)
	}
	return nil
}

func getCommand(c *cli.Context) error {
	ctx := context.Background()

	repo, cleanup, err := openRepository(c)
	if err != nil {
		return err
	}
	defer cleanup()

	atom, err := repo.Get(ctx, c.String("id"))
	if err != nil {
		return fmt.Errorf("failed to get atom: %w", err)
	}

	fmt.Printf("Id: %s\n", atom.AtomID)
	fmt.Printf("Namespace: %s\n", atom.Namespace)
	fmt.Printf("Type: %s\n", atom.Type)
	fmt.Printf("Title: %s\n", atom.Title)
	fmt.Printf("Summary: %s\n", atom.Summary)
	if len(atom.Keywords) > 0 {
		fmt.Printf("Keywords: %s\n", strings.Join(atom.Keywords, ", "))
	}
	if len(atom.RelatedAtoms) > 0 {
		fmt.Printf("Related: %s\n", strings.Join(atom.RelatedAtoms, ", "))
	}
	if atom.Source.Document != "" {
		fmt.Printf("Source: %s %v\n", atom.Source.Document, atom.Source.Pages)
	}
	fmt.Printf("Updated: %s\n", atom.UpdatedAt.Format(time.RFC3339))
	fmt.Println()
	fmt.Println(atom.Content)
	return nil
}

func statsCommand(c *cli.Context) error {
	ctx := context.Background()

	repo, cleanup, err := openRepository(c)
	if err != nil {
		return err
	}
	defer cleanup()

	stats, err := repo.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}

	fmt.Printf("Total atoms: %d\n", stats.TotalAtoms)
	for namespace, count := range stats.Namespaces {
		fmt.Printf("  %s: %d\n", namespace, count)
	}
	return nil
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	repo, cleanup, err := openRepository(c)
	if err != nil {
		return err
	}
	defer cleanup()

	embedder, err := newEmbedder(c)
	if err != nil {
		return err
	}
	defer embedder.Close()

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	// Validate config
	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder := reembed.NewReembedder(repo, embedder, reembedConfig, os.Stderr)

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if err := reembedder.Run(ctx); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}

	return nil
}

// openRepository opens the backend and atom repository named by the db flag.
// The returned cleanup closes both in order.
func openRepository(c *cli.Context) (*badger.AtomRepository, func(), error) {
	dbPath := c.String("db")
	if dbPath == "" {
		return nil, nil, fmt.Errorf("database path is required")
	}

	backend, err := badger.OpenBackend(dbPath, false)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	repo, err := badger.NewAtomRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, fmt.Errorf("failed to create repository: %w", err)
	}

	cleanup := func() {
		repo.Close()
		backend.Close()
	}
	return repo, cleanup, nil
}

func newEmbedder(c *cli.Context) (ai.Embedder, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	return embedder, nil
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
