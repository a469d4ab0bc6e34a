// Package main provides the long-running service: it re-runs the triangular
// path enumeration over the configured pool source on an interval and serves
// /health, /metrics, /status and /ws.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"defi-path-finder/internal/config"
	"defi-path-finder/internal/logging"
	"defi-path-finder/internal/observability"
	"defi-path-finder/internal/source"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (default: $PATHFINDER_CONFIG)")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	interval := flag.Duration("interval", 0, "Run interval (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *interval > 0 {
		cfg.Server.IntervalSeconds = int(interval.Seconds())
	}
	if cfg.Server.IntervalSeconds < 1 {
		fmt.Fprintln(os.Stderr, "Error: server interval must be at least 1s")
		os.Exit(1)
	}

	logger := logging.New(logging.Options{Level: cfg.Logging.Level, Pretty: cfg.Logging.Pretty})

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opts := source.Options{
		Kind:      cfg.Source.Kind,
		Path:      cfg.Source.Path,
		DSN:       cfg.Source.DSN,
		Exchanges: cfg.Registry.Exchanges,
		Exchange:  cfg.Source.Exchange,
	}
	src, err := source.Open(ctx, opts)
	if err != nil {
		logger.Fatal().Err(err).Msg("open source")
	}
	defer src.Close()

	runs, closeRuns, err := source.OpenRunStore(ctx, opts)
	if err != nil {
		logger.Fatal().Err(err).Msg("open run store")
	}
	defer closeRuns()

	server := NewServer(cfg, src, runs, observability.DefaultMetrics, logger)
	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to signal completion
	done := make(chan struct{})

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("initiating graceful shutdown")
		cancel()

		// Wait for second signal for immediate shutdown
		select {
		case sig := <-sigCh:
			logger.Warn().Str("signal", sig.String()).Msg("second signal, forcing immediate shutdown")
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Warn().Msg("graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	// Start HTTP server
	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("HTTP server error")
			cancel()
		}
	}()

	err = server.Run(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if serr := httpServer.Shutdown(shutdownCtx); serr != nil {
		logger.Warn().Err(serr).Msg("HTTP shutdown")
	}
	shutdownCancel()
	close(done)

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("server error")
	}
	logger.Info().Msg("shutdown complete")
}
