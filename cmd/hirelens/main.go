// Copyright 2025 Hirelens Authors
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
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/hirelens/hirelens"
	"github.com/hirelens/hirelens/ai"
	"github.com/hirelens/hirelens/ai/openai"
	"github.com/hirelens/hirelens/core"
	"github.com/hirelens/hirelens/ingestion"
	"github.com/hirelens/hirelens/reembed"
	"github.com/hirelens/hirelens/search"
	"github.com/hirelens/hirelens/storage/badger"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "hirelens",
		Usage: "Hybrid lexical and semantic candidate ranking",
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
				Usage:  "Ingest experience records from a JSON-lines file",
				Action: ingestCommand,
				Flags: append(aiFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to JSON-lines file with experience records",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Worker pool size for embedding and indexing",
					},
				),
			},
			{
				Name:   "search",
				Usage:  "Rank candidates against a job query",
				Action: searchCommand,
				Flags: append(aiFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "position",
						Usage: "Position title to search for",
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "Job description text",
					},
					&cli.StringFlag{
						Name:  "method",
						Usage: "Search method (lexical, semantic, hybrid)",
						Value: "hybrid",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of candidates",
						Value: 20,
					},
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Minimum experience score",
					},
					&cli.Float64Flag{
						Name:  "min-years",
						Usage: "Minimum years of experience per record",
					},
					&cli.StringSliceFlag{
						Name:  "company",
						Usage: "Restrict to experiences at these companies",
					},
				),
			},
			{
				Name:   "status",
				Usage:  "Report database and index health",
				Action: statusCommand,
				Flags: append(aiFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				),
			},
			{
				Name:   "reembed",
				Usage:  "Reembed all experience records with new embeddings",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "ai-host",
						Usage: "OpenAI-compatible service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:     "embedding-model",
						Usage:    "Embedding model name",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N records",
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

func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "ai-host",
			Usage: "OpenAI-compatible service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.StringFlag{
			Name:  "translator-model",
			Usage: "Translation model name",
			Value: "qwen2.5:3b",
		},
	}
}

func openDatabase(c *cli.Context) (*hirelens.Database, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithTranslatorModel(c.String("translator-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	db, err := hirelens.NewDatabase(c.String("db"), hirelens.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// experienceRecord is the JSON-lines shape of one ingested record.
type experienceRecord struct {
	CandidateID uint64 `json:"candidate_id"`
	Position    string `json:"position"`
	Company     string `json:"company"`
	Content     string `json:"content"`
	StartDate   string `json:"start_date"` // YYYY-MM-DD
	EndDate     string `json:"end_date"`   // YYYY-MM-DD, empty means present
}

func (r *experienceRecord) toExperience() (*core.Experience, error) {
	exp := &core.Experience{
		CandidateId: core.ID(r.CandidateID),
		Position:    r.Position,
		Company:     r.Company,
		Content:     r.Content,
	}

	var err error
	if r.StartDate != "" {
		if exp.StartDate, err = time.Parse(time.DateOnly, r.StartDate); err != nil {
			return nil, fmt.Errorf("invalid start_date %q: %w", r.StartDate, err)
		}
	}
	if r.EndDate != "" {
		if exp.EndDate, err = time.Parse(time.DateOnly, r.EndDate); err != nil {
			return nil, fmt.Errorf("invalid end_date %q: %w", r.EndDate, err)
		}
	}
	return exp, nil
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	var opts []ingestion.Option
	if size := c.Int("pool-size"); size > 0 {
		opts = append(opts, ingestion.WithPoolSize(size))
	}
	pipeline, err := db.NewIngestionPipeline(opts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var record experienceRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			return fmt.Errorf("invalid record on line %d: %w", count+1, err)
		}
		exp, err := record.toExperience()
		if err != nil {
			return fmt.Errorf("invalid record on line %d: %w", count+1, err)
		}

		if _, err := pipeline.Ingest(ctx, exp); err != nil {
			return fmt.Errorf("ingestion failed on line %d: %w", count+1, err)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	pipeline.Wait()
	fmt.Fprintf(os.Stderr, "Ingested %d experience records\n", count)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := loadIndex(ctx, db); err != nil {
		return fmt.Errorf("failed to build lexical index: %w", err)
	}

	engine, err := db.NewEngine()
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	results, err := engine.Search(ctx, c.String("position"), c.String("description"), search.Options{
		Method:         search.ParseMethod(c.String("method")),
		Limit:          c.Int("limit"),
		ScoreThreshold: c.Float64("threshold"),
		Filters: search.Filters{
			MinYears:  c.Float64("min-years"),
			Companies: c.StringSlice("company"),
		},
	})
	if err != nil {
		return err
	}

	fmt.Printf("Found %d candidates\n", len(results))
	for i, candidate := range results {
		fmt.Printf("%d: candidate %d [%.2f]\n", i+1, uint64(candidate.CandidateId), candidate.FinalScore)
		for _, exp := range candidate.Experiences {
			fmt.Printf("   %s at %s (%.1f years, %s, %.2f)\n",
				exp.Summary.Canonical, exp.Summary.Company, exp.Summary.Years, exp.Tier, exp.Score)
		}
	}
	return nil
}

func statusCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.ExperienceRepository().Ping(ctx); err != nil {
		return fmt.Errorf("storage unavailable: %w", err)
	}

	stored := 0
	err = db.ExperienceRepository().IterateExperiences(ctx, func(*core.Experience) (bool, error) {
		stored++
		return true, nil
	})
	if err != nil {
		return fmt.Errorf("failed to count experiences: %w", err)
	}

	if err := loadIndex(ctx, db); err != nil {
		return fmt.Errorf("failed to build lexical index: %w", err)
	}
	indexed, err := db.SearchIndex().Count(ctx)
	if err != nil {
		return fmt.Errorf("index unavailable: %w", err)
	}

	fmt.Printf("storage: ok (%d experiences)\n", stored)
	fmt.Printf("index:   ok (%d documents)\n", indexed)
	return nil
}

func reembedCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo := badger.NewExperienceRepository(backend)

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid AI configuration: %w", err)
	}

	embedder, err := openai.NewEmbedder(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	reembedder := reembed.NewReembedder(repo, embedder, reembedConfig, os.Stderr)
	return reembedder.Run(ctx)
}

// loadIndex fills the in-memory lexical index from the store. A
// database opened with an external index client would skip this.
func loadIndex(ctx context.Context, db *hirelens.Database) error {
	const batchSize = 256

	batch := make([]core.ExperienceSummary, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := db.SearchIndex().Index(ctx, batch...); err != nil {
			return err
		}
		batch = batch[:0]
		return nil
	}

	err := db.ExperienceRepository().IterateExperiences(ctx, func(exp *core.Experience) (bool, error) {
		batch = append(batch, exp.Summary())
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return false, err
			}
		}
		return true, nil
	})
	if err != nil {
		return err
	}
	return flush()
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
