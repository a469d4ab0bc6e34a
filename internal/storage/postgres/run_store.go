package postgres

import (
	"context"
	"fmt"

	"defi-path-finder/internal/storage"
)

// RunStore implements storage.RunStore using PostgreSQL.
type RunStore struct {
	pool *Pool
}

// NewRunStore creates a new RunStore.
func NewRunStore(pool *Pool) *RunStore {
	return &RunStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RunStore = (*RunStore)(nil)

// Insert adds a run. Returns ErrDuplicateKey if run_id exists.
func (s *RunStore) Insert(ctx context.Context, r *storage.RunRecord) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO enumeration_runs (
			run_id, started_at, duration_ms, workers, pools, tokens,
			triples, retained, degenerate, excluded, edges, paths
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		r.RunID, r.StartedAt, r.DurationMs, r.Workers, r.Pools, r.Tokens,
		r.Triples, r.Retained, r.Degenerate, r.Excluded, r.Edges, r.Paths,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetLatest returns the most recently started run.
func (s *RunStore) GetLatest(ctx context.Context) (*storage.RunRecord, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT run_id, started_at, duration_ms, workers, pools, tokens,
		       triples, retained, degenerate, excluded, edges, paths
		FROM enumeration_runs
		ORDER BY started_at DESC, run_id DESC
		LIMIT 1
	`)

	var r storage.RunRecord
	err := row.Scan(
		&r.RunID, &r.StartedAt, &r.DurationMs, &r.Workers, &r.Pools, &r.Tokens,
		&r.Triples, &r.Retained, &r.Degenerate, &r.Excluded, &r.Edges, &r.Paths,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get latest run: %w", err)
	}
	return &r, nil
}
