// Package pathfinder runs the triangular path enumeration end to end:
// token universe -> triples -> parallel edge materialization -> cycles.
package pathfinder

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"defi-path-finder/internal/domain"
	"defi-path-finder/internal/edges"
	"defi-path-finder/internal/logging"
	"defi-path-finder/internal/observability"
	"defi-path-finder/internal/parallel"
	"defi-path-finder/internal/poolgraph"
	"defi-path-finder/internal/triples"
)

// DefaultWorkers is the worker count used when none is configured.
const DefaultWorkers = 5

// Options for creating Engine.
type Options struct {
	Workers       int
	ProgressEvery int // triples between progress log lines per worker
	Logger        logging.Logger
	Metrics       *observability.Metrics // nil disables metrics
	Clock         func() time.Time
}

// Stats describes one enumeration run.
type Stats struct {
	Pools    int
	Tokens   int
	Triples  int // C(tokens, 3)
	Workers  int
	Edges    int
	Paths    int
	Duration time.Duration
	edges.Stats
}

// Result is the output of one enumeration run.
type Result struct {
	RunID     string
	StartedAt time.Time
	EdgeTable domain.EdgeTable
	Paths     []domain.Path
	Stats     Stats
}

// partial is one worker's output.
type partial struct {
	table domain.EdgeTable
	stats edges.Stats
}

// Engine enumerates triangular paths. It holds no per-run state and may be
// reused.
type Engine struct {
	workers       int
	progressEvery int
	logger        logging.Logger
	metrics       *observability.Metrics
	clock         func() time.Time

	// runChunk is the per-worker body, replaceable in tests.
	runChunk func(m *edges.Materializer, chunk []domain.TokenTriple) (partial, error)
}

// New creates an Engine. A zero Workers value selects DefaultWorkers.
func New(opts Options) *Engine {
	workers := opts.Workers
	if workers == 0 {
		workers = DefaultWorkers
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Engine{
		workers:       workers,
		progressEvery: opts.ProgressEvery,
		logger:        logging.Component(opts.Logger, "pathfinder"),
		metrics:       opts.Metrics,
		clock:         clock,
		runChunk:      materializeChunk,
	}
}

// EnumerateTriangularPaths is the plain entry point: it returns the merged
// edge table and every concrete triangular path over pools.
func EnumerateTriangularPaths(pools []domain.Pool, includeTokens []domain.TokenID, workerCount int) (domain.EdgeTable, []domain.Path, error) {
	if workerCount < 1 {
		return nil, nil, fmt.Errorf("%w: worker count must be >= 1, got %d", ErrInvalidInput, workerCount)
	}
	res, err := New(Options{Workers: workerCount, Logger: logging.Nop()}).Run(pools, includeTokens)
	if err != nil {
		return nil, nil, err
	}
	return res.EdgeTable, res.Paths, nil
}

// Run executes one enumeration over pools. Materialization reads the full
// pool set; includeTokens only narrows the token universe and the triples
// kept.
func (e *Engine) Run(pools []domain.Pool, includeTokens []domain.TokenID) (*Result, error) {
	if err := e.validate(pools, includeTokens); err != nil {
		e.recordFailure(err)
		return nil, err
	}

	start := e.clock()
	runID := uuid.NewString()
	log := e.logger.With().Str("run_id", runID).Logger()

	universe := poolgraph.DistinctTokens(poolgraph.Filter(pools, includeTokens))
	combos := triples.Enumerate(universe)

	chunks, err := parallel.Partition(combos, e.workers)
	if err != nil {
		e.recordFailure(err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	log.Info().
		Int("pools", len(pools)).
		Int("tokens", len(universe)).
		Int("triples", len(combos)).
		Int("workers", e.workers).
		Ints("include_tokens", tokenInts(includeTokens)).
		Msg("enumeration started")

	graph := poolgraph.New(pools)
	var done atomic.Int64
	total := len(combos)

	parts, err := parallel.Map(chunks, func(worker int, chunk []domain.TokenTriple) (partial, error) {
		from, to := parallel.Bounds(total, e.workers, worker)
		log.Debug().Int("worker", worker).Int("from", from).Int("to", to).Msg("worker started")

		m := edges.New(graph, edges.Options{
			IncludeTokens: includeTokens,
			ProgressEvery: e.progressEvery,
			OnProgress: func(delta int) {
				n := done.Add(int64(delta))
				log.Debug().Int("worker", worker).Int64("done", n).Int("total", total).Msg("progress")
			},
		})
		return e.runChunk(m, chunk)
	})
	if err != nil {
		e.recordFailure(err)
		log.Error().Err(err).Msg("enumeration aborted")
		return nil, fmt.Errorf("materialize edges: %w", err)
	}

	tables := make([]domain.EdgeTable, 0, len(parts))
	stats := Stats{Pools: len(pools), Tokens: len(universe), Triples: total, Workers: e.workers}
	for _, p := range parts {
		tables = append(tables, p.table)
		stats.Stats.Add(p.stats)
	}

	merged, err := mergeTables(tables)
	if err != nil {
		e.recordFailure(err)
		return nil, err
	}

	paths := CollectPaths(merged)

	stats.Edges = merged.EdgeCount()
	stats.Paths = len(paths)
	stats.Duration = e.clock().Sub(start)

	log.Info().
		Int("retained", stats.Retained).
		Int("degenerate", stats.Degenerate).
		Int("excluded", stats.Excluded).
		Int("edges", stats.Edges).
		Int("paths", stats.Paths).
		Dur("duration", stats.Duration).
		Msg("enumeration completed")

	if e.metrics != nil {
		e.metrics.RecordRun(observability.RunStats{
			Tokens:     stats.Tokens,
			Considered: stats.Considered,
			Excluded:   stats.Excluded,
			Degenerate: stats.Degenerate,
			Retained:   stats.Retained,
			Edges:      stats.Edges,
			Paths:      stats.Paths,
			Seconds:    stats.Duration.Seconds(),
		}, e.clock().Unix())
	}

	return &Result{
		RunID:     runID,
		StartedAt: start,
		EdgeTable: merged,
		Paths:     paths,
		Stats:     stats,
	}, nil
}

func (e *Engine) validate(pools []domain.Pool, includeTokens []domain.TokenID) error {
	if e.workers < 1 {
		return fmt.Errorf("%w: worker count must be >= 1, got %d", ErrInvalidInput, e.workers)
	}
	for i, p := range pools {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%w: pool %d: %v", ErrInvalidInput, i, err)
		}
	}
	for _, t := range includeTokens {
		if t < 0 {
			return fmt.Errorf("%w: negative include token %d", ErrInvalidInput, t)
		}
	}
	return nil
}

func (e *Engine) recordFailure(err error) {
	if e.metrics != nil {
		e.metrics.RecordFailure(IsWorkerFailure(err))
	}
}

// mergeTables unions per-worker tables; keys are disjoint by construction.
func mergeTables(tables []domain.EdgeTable) (domain.EdgeTable, error) {
	parts := make([]map[domain.TokenTriple][]domain.DirectedEdge, len(tables))
	for i, t := range tables {
		parts[i] = t
	}
	merged, err := parallel.MergeDisjoint(parts...)
	if err != nil {
		return nil, fmt.Errorf("merge edge tables: %w", err)
	}
	return domain.EdgeTable(merged), nil
}

func materializeChunk(m *edges.Materializer, chunk []domain.TokenTriple) (partial, error) {
	table, stats := m.MaterializeAll(chunk)
	return partial{table: table, stats: stats}, nil
}

func tokenInts(tokens []domain.TokenID) []int {
	out := make([]int, len(tokens))
	for i, t := range tokens {
		out[i] = int(t)
	}
	return out
}
