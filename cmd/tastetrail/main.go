// Copyright 2025 Tastetrail Authors
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
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/tastetrail/tastetrail"
	"github.com/tastetrail/tastetrail/ai"
	"github.com/tastetrail/tastetrail/core"
	"github.com/tastetrail/tastetrail/ingestion"
	"github.com/tastetrail/tastetrail/reembed"
	"github.com/tastetrail/tastetrail/search"
	"github.com/urfave/cli/v2"
)

func main() {
	// Local overrides for API keys and hosts; missing file is fine.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "tastetrail",
		Usage: "Hybrid restaurant search and route planning over a local place store",
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
				Name:   "serve",
				Usage:  "Build the search indices and serve the HTTP API",
				Action: serveCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "addr",
						Usage: "HTTP listen address",
						Value: ":8080",
					},
				}, aiFlags()...),
			},
			{
				Name:   "ingest",
				Usage:  "Load restaurant, review, and menu CSV exports into the place store",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "restaurants",
						Usage:    "Path to the restaurant CSV export",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "reviews",
						Usage: "Path to the review CSV export",
					},
					&cli.StringFlag{
						Name:  "menu",
						Usage: "Path to the menu CSV export",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent store workers",
						Value: 4,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Run a single hybrid search from the command line",
				Action:    searchCommand,
				ArgsUsage: "<query>",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "district",
						Usage: "Restrict results to addresses containing this locality",
					},
					&cli.Float64Flag{
						Name:  "lat",
						Usage: "Query center latitude",
					},
					&cli.Float64Flag{
						Name:  "lon",
						Usage: "Query center longitude",
					},
					&cli.Float64Flag{
						Name:  "radius",
						Usage: "Hard distance cutoff in kilometers (0 disables)",
					},
					&cli.Float64Flag{
						Name:  "alpha",
						Usage: "Semantic vs lexical blend weight",
						Value: search.DefaultAlpha,
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of results to return",
						Value: search.DefaultTopK,
					},
				}, aiFlags()...),
			},
			{
				Name:      "route",
				Usage:     "Parse a multi-stop query and print the best route plans",
				Action:    routeCommand,
				ArgsUsage: "<query>",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.Float64Flag{
						Name:  "lat",
						Usage: "Starting point latitude",
						Value: 10.7769,
					},
					&cli.Float64Flag{
						Name:  "lon",
						Usage: "Starting point longitude",
						Value: 106.7009,
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Candidates to keep per stop",
						Value: 5,
					},
				}, aiFlags()...),
			},
			{
				Name:   "resync",
				Usage:  "Re-embed every stored place, ignoring the embedding cache",
				Action: resyncCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of places to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N places",
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
				}, aiFlags()...),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// aiFlags returns the flags shared by every command that talks to the
// embedding or parsing services.
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
			Value: "bge-m3",
		},
		&cli.StringFlag{
			Name:  "parser-model",
			Usage: "Chat model name for intent parsing",
			Value: "qwen2.5:3b",
		},
		&cli.Float64Flag{
			Name:  "embedding-rate-limit",
			Usage: "Embedding API calls per second (0 disables)",
			Value: 10,
		},
	}
}

func aiConfigFromFlags(c *cli.Context) (*ai.Config, error) {
	config := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithParserModel(c.String("parser-model")),
		ai.WithEmbeddingRateLimit(c.Float64("embedding-rate-limit")),
	)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return config, nil
}

func openDatabase(c *cli.Context) (*tastetrail.Database, error) {
	config, err := aiConfigFromFlags(c)
	if err != nil {
		return nil, err
	}
	db, err := tastetrail.NewDatabase(c.String("db"), tastetrail.WithAIConfig(config))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func serveCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	engine, err := db.NewEngine()
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("building search indices")
	if err := engine.Build(ctx); err != nil {
		return fmt.Errorf("failed to build indices: %w", err)
	}

	server, err := db.NewServer(engine)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	httpServer := &http.Server{
		Addr:              c.String("addr"),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", httpServer.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func ingestCommand(c *cli.Context) error {
	db, err := tastetrail.NewDatabase(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline(ingestion.WithPoolSize(c.Int("pool-size")))
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	sources := ingestion.Sources{}
	restaurants, err := os.Open(c.String("restaurants"))
	if err != nil {
		return fmt.Errorf("failed to open restaurant CSV: %w", err)
	}
	defer restaurants.Close()
	sources.Restaurants = restaurants

	if path := c.String("reviews"); path != "" {
		reviews, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open review CSV: %w", err)
		}
		defer reviews.Close()
		sources.Reviews = reviews
	}
	if path := c.String("menu"); path != "" {
		menu, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open menu CSV: %w", err)
		}
		defer menu.Close()
		sources.Menu = menu
	}

	report, err := pipeline.Run(c.Context, sources)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Read:     %d\n", report.Read)
	fmt.Fprintf(os.Stderr, "Stored:   %d\n", report.Stored)
	fmt.Fprintf(os.Stderr, "Excluded: %d\n", report.Excluded)
	return nil
}

func searchCommand(c *cli.Context) error {
	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if text == "" {
		return fmt.Errorf("a query is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	engine, err := db.NewEngine()
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	if err := engine.Build(c.Context); err != nil {
		return fmt.Errorf("failed to build indices: %w", err)
	}

	query := search.NewQuery(text)
	query.Locality = c.String("district")
	query.Alpha = c.Float64("alpha")
	query.TopK = c.Int("top-k")
	query.RadiusKm = c.Float64("radius")
	if c.IsSet("lat") || c.IsSet("lon") {
		query.Center = &core.GeoPoint{Lat: c.Float64("lat"), Lon: c.Float64("lon")}
	}

	candidates, err := engine.Rank(c.Context, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	for i, candidate := range candidates {
		printCandidate(os.Stdout, i+1, candidate)
	}
	return nil
}

func routeCommand(c *cli.Context) error {
	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if text == "" {
		return fmt.Errorf("a query is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	engine, err := db.NewEngine()
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	if err := engine.Build(c.Context); err != nil {
		return fmt.Errorf("failed to build indices: %w", err)
	}

	intents, err := db.IntentParser().ParseIntents(c.Context, text)
	if err != nil || len(intents) == 0 {
		slog.Warn("intent parsing failed, using query verbatim", "err", err)
		intents = []ai.Intent{{Keyword: text}}
	}

	start := core.GeoPoint{Lat: c.Float64("lat"), Lon: c.Float64("lon")}
	steps := make([]core.Step, 0, len(intents))
	for i, intent := range intents {
		query := search.NewQuery(intent.Keyword)
		query.Locality = intent.Locality
		query.TopK = c.Int("top-k")
		query.Center = &start

		candidates, err := engine.Rank(c.Context, query)
		if err != nil {
			return fmt.Errorf("search failed for %q: %w", intent.Keyword, err)
		}
		fmt.Fprintf(os.Stdout, "Step %d: %s\n", i+1, intent.Keyword)
		for j, candidate := range candidates {
			printCandidate(os.Stdout, j+1, candidate)
		}
		steps = append(steps, core.Step{
			Index:      i,
			Keyword:    intent.Keyword,
			Locality:   intent.Locality,
			Candidates: candidates,
		})
	}

	plans, err := db.NewRouteOptimizer()
	if err != nil {
		return fmt.Errorf("failed to create optimizer: %w", err)
	}
	routes, err := plans.Optimize(steps, start)
	if err != nil {
		return fmt.Errorf("route optimization failed: %w", err)
	}

	for _, plan := range routes {
		fmt.Fprintf(os.Stdout, "%s  score=%.3f  distance=%.2fkm\n",
			plan.RouteID, plan.TotalScore, plan.TotalDistanceKm)
		for i, stop := range plan.Stops {
			fmt.Fprintf(os.Stdout, "  %d. %s (%s)\n", i+1, stop.Place.Name, stop.Place.Address)
		}
	}
	return nil
}

func resyncCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	config := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reembedder, err := reembed.NewReembedder(db.PlaceRepository(), db.Embedder(), db.EmbeddingCache(), config, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to create reembedder: %w", err)
	}

	if err := reembedder.Run(c.Context); err != nil {
		return fmt.Errorf("resync failed: %w", err)
	}
	return nil
}

func printCandidate(w *os.File, rank int, candidate core.Candidate) {
	distance := ""
	if candidate.DistanceKm >= 0 {
		distance = fmt.Sprintf("  %.2fkm", candidate.DistanceKm)
	}
	fmt.Fprintf(w, "%3d. %-40s score=%.3f%s\n", rank, candidate.Place.Name, candidate.FinalScore, distance)
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
