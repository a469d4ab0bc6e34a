// Package main loads a raw pool snapshot, assigns token and exchange ids and
// writes the prepared pools (and tokens) into a pool store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"defi-path-finder/internal/config"
	"defi-path-finder/internal/domain"
	"defi-path-finder/internal/logging"
	"defi-path-finder/internal/registry"
	"defi-path-finder/internal/snapshot"
	"defi-path-finder/internal/storage"
	chstore "defi-path-finder/internal/storage/clickhouse"
	"defi-path-finder/internal/storage/migrations"
	pgstore "defi-path-finder/internal/storage/postgres"
	"defi-path-finder/internal/storage/sqlite"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (default: $PATHFINDER_CONFIG)")
	snapshotPath := flag.String("snapshot", "pools.json", "Raw pool snapshot (JSON)")
	target := flag.String("target", config.SourceSQLite, "Target store: sqlite, postgres, clickhouse")
	sqlitePath := flag.String("sqlite-path", "pools.db", "SQLite database file")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(logging.Options{Level: cfg.Logging.Level, Pretty: cfg.Logging.Pretty})

	ctx := context.Background()

	raw, err := snapshot.Load(*snapshotPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", *snapshotPath).Msg("load snapshot")
	}
	exchanges := cfg.Registry.Exchanges
	if len(raw.Exchanges) > 0 {
		exchanges = raw.Exchanges
	}
	reg, err := registry.New(exchanges)
	if err != nil {
		logger.Fatal().Err(err).Msg("create registry")
	}
	records, err := snapshot.Prepare(raw, reg)
	if err != nil {
		logger.Fatal().Err(err).Msg("prepare snapshot")
	}
	tokens := tokenPtrs(reg.Tokens())
	logger.Info().Int("pools", len(records)).Int("tokens", len(tokens)).Msg("snapshot prepared")

	var (
		pools     storage.PoolStore
		tokenRepo storage.TokenStore
		cleanup   func()
	)

	switch *target {
	case config.SourceSQLite:
		db, err := sqlite.Open(ctx, *sqlitePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("open sqlite")
		}
		if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
			logger.Fatal().Err(err).Msg("sqlite migrations")
		}
		pools, tokenRepo = sqlite.NewPoolStore(db), sqlite.NewTokenStore(db)
		cleanup = func() { db.Close() }

	case config.SourcePostgres:
		if *postgresDSN == "" {
			logger.Fatal().Msg("--postgres-dsn is required for the postgres target")
		}
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			logger.Fatal().Err(err).Msg("connect postgres")
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatal().Err(err).Msg("postgres migrations")
		}
		pools, tokenRepo = pgstore.NewPoolStore(pool), pgstore.NewTokenStore(pool)
		cleanup = pool.Close

	case config.SourceClickhouse:
		if *clickhouseDSN == "" {
			logger.Fatal().Msg("--clickhouse-dsn is required for the clickhouse target")
		}
		conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
		if err != nil {
			logger.Fatal().Err(err).Msg("clickhouse migrations")
		}
		pools = chstore.NewPoolStore(conn)
		cleanup = func() { conn.Close() }

	default:
		logger.Fatal().Str("target", *target).Msg("unknown target")
	}
	defer cleanup()

	if tokenRepo != nil {
		if err := tokenRepo.InsertBulk(ctx, tokens); err != nil {
			logger.Error().Err(err).Msg("insert tokens")
			cleanup()
			os.Exit(1)
		}
	}
	if err := pools.InsertBulk(ctx, records); err != nil {
		logger.Error().Err(err).Msg("insert pools")
		cleanup()
		os.Exit(1)
	}

	logger.Info().Str("target", *target).Int("pools", len(records)).Msg("pools stored")
}

func tokenPtrs(tokens []domain.Token) []*domain.Token {
	out := make([]*domain.Token, len(tokens))
	for i := range tokens {
		out[i] = &tokens[i]
	}
	return out
}
