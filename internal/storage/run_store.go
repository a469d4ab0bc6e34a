package storage

import "context"

// RunRecord summarizes one completed enumeration run.
type RunRecord struct {
	RunID      string
	StartedAt  int64 // unix ms
	DurationMs int64
	Workers    int
	Pools      int
	Tokens     int
	Triples    int
	Retained   int
	Degenerate int
	Excluded   int
	Edges      int
	Paths      int
}

// RunStore keeps the history of enumeration runs, so a restarted server can
// report the last successful run.
type RunStore interface {
	// Insert adds a run. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, r *RunRecord) error

	// GetLatest returns the run with the greatest started_at.
	// Returns ErrNotFound if no run has been recorded yet.
	GetLatest(ctx context.Context) (*RunRecord, error)
}
