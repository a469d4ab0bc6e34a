// Package edges turns candidate token triples into per-triple directed edge
// tables, dropping triples whose pools cannot close a 3-cycle.
package edges

import (
	"defi-path-finder/internal/domain"
	"defi-path-finder/internal/poolgraph"
	"defi-path-finder/internal/triples"
)

// DefaultProgressEvery is the number of triples between progress callbacks.
const DefaultProgressEvery = 10000

// Stats counts how a batch of triples was handled.
type Stats struct {
	Considered int // triples seen
	Excluded   int // not a superset of the include tokens
	Degenerate int // fewer than 3 tokens or fewer than 3 distinct pools
	Retained   int // present in the edge table
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Considered += o.Considered
	s.Excluded += o.Excluded
	s.Degenerate += o.Degenerate
	s.Retained += o.Retained
}

// Options configures a Materializer.
type Options struct {
	// IncludeTokens restricts output to triples containing all of them.
	IncludeTokens []domain.TokenID
	// OnProgress, if set, receives the number of triples processed since the
	// previous call. Advisory only.
	OnProgress func(delta int)
	// ProgressEvery defaults to DefaultProgressEvery.
	ProgressEvery int
}

// Materializer builds edge tables against a fixed pool graph.
type Materializer struct {
	graph         *poolgraph.Graph
	include       []domain.TokenID
	onProgress    func(int)
	progressEvery int
}

// New creates a Materializer over the full pool graph.
func New(g *poolgraph.Graph, opts Options) *Materializer {
	every := opts.ProgressEvery
	if every <= 0 {
		every = DefaultProgressEvery
	}
	return &Materializer{
		graph:         g,
		include:       opts.IncludeTokens,
		onProgress:    opts.OnProgress,
		progressEvery: every,
	}
}

// Materialize returns the directed edges of triple t, or false when the
// triple's pools cannot form a cycle.
func (m *Materializer) Materialize(t domain.TokenTriple) ([]domain.DirectedEdge, bool) {
	pools := m.graph.Within(t)
	if !Qualifies(pools) {
		return nil, false
	}
	return Expand(pools), true
}

// MaterializeAll processes a worker's triples and returns its partial table.
func (m *Materializer) MaterializeAll(batch []domain.TokenTriple) (domain.EdgeTable, Stats) {
	table := make(domain.EdgeTable)
	var stats Stats

	pending := 0
	for _, t := range batch {
		stats.Considered++
		pending++
		if pending == m.progressEvery {
			m.report(pending)
			pending = 0
		}

		if !triples.ContainsAll(t, m.include) {
			stats.Excluded++
			continue
		}

		edges, ok := m.Materialize(t)
		if !ok {
			stats.Degenerate++
			continue
		}
		table[t] = edges
		stats.Retained++
	}
	if pending > 0 {
		m.report(pending)
	}

	return table, stats
}

func (m *Materializer) report(n int) {
	if m.onProgress != nil {
		m.onProgress(n)
	}
}

// Qualifies reports whether pools span exactly 3 distinct tokens through at
// least 3 distinct (token0, token1) pairs.
func Qualifies(pools []domain.Pool) bool {
	tokens := make(map[domain.TokenID]struct{}, 3)
	pairs := make(map[[2]domain.TokenID]struct{}, len(pools))
	for _, p := range pools {
		tokens[p.Token0] = struct{}{}
		tokens[p.Token1] = struct{}{}
		pairs[[2]domain.TokenID{p.Token0, p.Token1}] = struct{}{}
	}
	return len(tokens) == 3 && len(pairs) >= 3
}

// Expand emits both traversal directions for every pool, forward first.
func Expand(pools []domain.Pool) []domain.DirectedEdge {
	out := make([]domain.DirectedEdge, 0, 2*len(pools))
	for _, p := range pools {
		dirs := p.Directions()
		out = append(out, dirs[0], dirs[1])
	}
	return out
}
