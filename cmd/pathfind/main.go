// Package main runs one triangular path enumeration over the configured pool
// source and writes the reports.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"defi-path-finder/internal/config"
	"defi-path-finder/internal/domain"
	"defi-path-finder/internal/logging"
	"defi-path-finder/internal/observability"
	"defi-path-finder/internal/pathfinder"
	"defi-path-finder/internal/reporting"
	"defi-path-finder/internal/snapshot"
	"defi-path-finder/internal/source"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (default: $PATHFINDER_CONFIG)")
	workers := flag.Int("workers", 0, "Worker count (overrides config)")
	include := flag.String("include", "", "Comma-separated token ids every triple must contain (overrides config)")
	outputDir := flag.String("output-dir", "", "Output directory for reports (overrides config)")
	saveRun := flag.Bool("save-run", true, "Record the run summary next to the pool source")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *workers != 0 {
		cfg.Engine.Workers = *workers
	}
	if *include != "" {
		tokens, err := config.ParseTokenList(*include)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing --include: %v\n", err)
			os.Exit(1)
		}
		cfg.Engine.IncludeTokens = tokens
	}
	if *outputDir != "" {
		cfg.Output.Dir = *outputDir
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Options{Level: cfg.Logging.Level, Pretty: cfg.Logging.Pretty})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *saveRun, logger); err != nil {
		logger.Error().Err(err).Msg("pathfind failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, saveRun bool, logger logging.Logger) error {
	opts := source.Options{
		Kind:      cfg.Source.Kind,
		Path:      cfg.Source.Path,
		DSN:       cfg.Source.DSN,
		Exchanges: cfg.Registry.Exchanges,
		Exchange:  cfg.Source.Exchange,
	}

	src, err := source.Open(ctx, opts)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	ds, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("load pools: %w", err)
	}
	logger.Info().Str("source", cfg.Source.Kind).Int("pools", len(ds.Records)).Msg("pools loaded")
	observability.DefaultMetrics.RecordPools(ds.PoolsByExchange())

	engine := pathfinder.New(pathfinder.Options{
		Workers:       cfg.Engine.Workers,
		ProgressEvery: cfg.Engine.ProgressEvery,
		Logger:        logger,
		Metrics:       observability.DefaultMetrics,
	})
	res, err := engine.Run(ds.Pools(), includeTokens(cfg.Engine.IncludeTokens))
	if err != nil {
		return err
	}

	report := reporting.NewGenerator(ds.Mapping).
		WithReserves(snapshot.NewReserveBook(ds.Records)).
		Generate(res)
	written, err := reporting.WriteAll(cfg.Output.Dir, cfg.Output.Formats, report)
	if err != nil {
		return fmt.Errorf("write reports: %w", err)
	}
	for _, path := range written {
		logger.Info().Str("path", path).Msg("report written")
	}

	if saveRun {
		runs, closeRuns, err := source.OpenRunStore(ctx, opts)
		if err != nil {
			return fmt.Errorf("open run store: %w", err)
		}
		defer closeRuns()
		if err := runs.Insert(ctx, source.RecordOf(res)); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
	}

	fmt.Printf("Run %s: %d tokens, %d triples retained, %d paths\n",
		res.RunID, res.Stats.Tokens, res.Stats.Retained, res.Stats.Paths)
	return nil
}

func includeTokens(ids []int) []domain.TokenID {
	out := make([]domain.TokenID, len(ids))
	for i, id := range ids {
		out[i] = domain.TokenID(id)
	}
	return out
}
