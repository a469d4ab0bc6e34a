package reporting

import (
	"sort"
	"strings"
	"time"

	"defi-path-finder/internal/domain"
	"defi-path-finder/internal/idhash"
	"defi-path-finder/internal/pathfinder"
	"defi-path-finder/internal/registry"
	"defi-path-finder/internal/snapshot"
)

// DefaultTopTriples is the number of triples listed in the summary.
const DefaultTopTriples = 10

// Generator produces reports from enumeration results.
type Generator struct {
	mapping  *registry.Mapping     // may be nil
	reserves *snapshot.ReserveBook // may be nil
	topN     int
	now      func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator. A nil mapping renders
// numeric ids.
func NewGenerator(mapping *registry.Mapping) *Generator {
	return &Generator{
		mapping: mapping,
		topN:    DefaultTopTriples,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// WithReserves attaches pool reserves to every hop of the rendered paths.
func (g *Generator) WithReserves(book *snapshot.ReserveBook) *Generator {
	g.reserves = book
	return g
}

// WithTopTriples sets how many triples the summary lists.
func (g *Generator) WithTopTriples(n int) *Generator {
	g.topN = n
	return g
}

// Generate builds the report for res.
func (g *Generator) Generate(res *pathfinder.Result) *Report {
	r := &Report{
		GeneratedAt: g.now(),
		RunID:       res.RunID,
		Summary: Summary{
			Pools:      res.Stats.Pools,
			Tokens:     res.Stats.Tokens,
			Triples:    res.Stats.Triples,
			Retained:   res.Stats.Retained,
			Degenerate: res.Stats.Degenerate,
			Excluded:   res.Stats.Excluded,
			Edges:      res.Stats.Edges,
			Paths:      res.Stats.Paths,
			Workers:    res.Stats.Workers,
			DurationMs: res.Stats.Duration.Milliseconds(),
		},
	}

	cycles := make(map[domain.CycleKey]struct{})
	perTriple := make(map[domain.TokenTriple]int)
	r.Paths = make([]PathRow, 0, len(res.Paths))
	for _, p := range res.Paths {
		key := p.CycleKey()
		cycles[key] = struct{}{}
		perTriple[key.Triple]++
		r.Paths = append(r.Paths, g.pathRow(p, key))
	}
	r.Summary.Cycles = len(cycles)
	r.TopTriples = g.topTriples(res.EdgeTable, perTriple)
	return r
}

func (g *Generator) pathRow(p domain.Path, key domain.CycleKey) PathRow {
	row := PathRow{
		PathID:  idhash.ComputePathID(p),
		CycleID: idhash.ComputeCycleID(key),
	}
	labels := make([]string, 0, 4)
	for i, e := range p {
		row.Hops[i] = HopRow{
			TokenIn:  int(e.TokenIn),
			TokenOut: int(e.TokenOut),
			Exchange: g.exchange(e.Exchange),
			Pool:     g.poolAddress(e.Pool().Key()),
		}
		if g.reserves != nil {
			if r, ok := g.reserves.Edge(e); ok {
				row.Hops[i].ReserveIn = r.In.String()
				row.Hops[i].ReserveOut = r.Out.String()
			}
		}
		labels = append(labels, g.token(e.TokenIn))
	}
	labels = append(labels, g.token(p.Start()))
	row.Route = strings.Join(labels, ">")
	return row
}

// topTriples orders retained triples by path count desc, then triple asc.
func (g *Generator) topTriples(table domain.EdgeTable, perTriple map[domain.TokenTriple]int) []TripleRow {
	rows := make([]TripleRow, 0, len(table))
	for _, t := range table.Triples() {
		rows = append(rows, TripleRow{
			Tokens: [3]int{int(t[0]), int(t[1]), int(t[2])},
			Label:  g.token(t[0]) + "/" + g.token(t[1]) + "/" + g.token(t[2]),
			Edges:  len(table[t]),
			Paths:  perTriple[t],
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Paths > rows[j].Paths })
	if g.topN >= 0 && len(rows) > g.topN {
		rows = rows[:g.topN]
	}
	return rows
}

func (g *Generator) token(id domain.TokenID) string {
	if g.mapping == nil {
		return itoa(int(id))
	}
	return g.mapping.TokenLabel(id)
}

func (g *Generator) exchange(id domain.ExchangeID) string {
	if g.mapping == nil {
		return itoa(int(id))
	}
	return g.mapping.ExchangeName(id)
}

func (g *Generator) poolAddress(k domain.PoolKey) string {
	if g.mapping == nil {
		return ""
	}
	addr, _ := g.mapping.PoolAddress(k)
	return addr
}
