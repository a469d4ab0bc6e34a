package source

import (
	"context"

	"defi-path-finder/internal/config"
	"defi-path-finder/internal/pathfinder"
	"defi-path-finder/internal/storage"
	"defi-path-finder/internal/storage/memory"
	"defi-path-finder/internal/storage/migrations"
	"defi-path-finder/internal/storage/postgres"
	"defi-path-finder/internal/storage/sqlite"
)

// OpenRunStore returns the run history store that lives next to the pool
// source. File, rows and ClickHouse sources have no run table; they get an
// in-memory store. The returned close func is never nil.
func OpenRunStore(ctx context.Context, opts Options) (storage.RunStore, func(), error) {
	switch opts.Kind {
	case config.SourceSQLite:
		db, err := sqlite.Open(ctx, opts.Path)
		if err != nil {
			return nil, nil, err
		}
		if err := migrations.RunSQLiteMigrations(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return sqlite.NewRunStore(db), func() { db.Close() }, nil

	case config.SourcePostgres:
		pool, err := postgres.NewPool(ctx, opts.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return postgres.NewRunStore(pool), pool.Close, nil
	}
	return memory.NewRunStore(), func() {}, nil
}

// RecordOf summarizes res for the run store.
func RecordOf(res *pathfinder.Result) *storage.RunRecord {
	s := res.Stats
	return &storage.RunRecord{
		RunID:      res.RunID,
		StartedAt:  res.StartedAt.UnixMilli(),
		DurationMs: s.Duration.Milliseconds(),
		Workers:    s.Workers,
		Pools:      s.Pools,
		Tokens:     s.Tokens,
		Triples:    s.Triples,
		Retained:   s.Retained,
		Degenerate: s.Degenerate,
		Excluded:   s.Excluded,
		Edges:      s.Edges,
		Paths:      s.Paths,
	}
}
