// Package poolgraph holds pools as edges of a sparse token multigraph and
// answers per-triple membership lookups over them.
package poolgraph

import (
	"sort"

	"defi-path-finder/internal/domain"
)

// Filter returns the pools with at least one endpoint in includeTokens.
// An empty includeTokens passes every pool through (as a copy).
func Filter(pools []domain.Pool, includeTokens []domain.TokenID) []domain.Pool {
	if len(includeTokens) == 0 {
		out := make([]domain.Pool, len(pools))
		copy(out, pools)
		return out
	}

	include := make(map[domain.TokenID]struct{}, len(includeTokens))
	for _, t := range includeTokens {
		include[t] = struct{}{}
	}

	var out []domain.Pool
	for _, p := range pools {
		_, in0 := include[p.Token0]
		_, in1 := include[p.Token1]
		if in0 || in1 {
			out = append(out, p)
		}
	}
	return out
}

// DistinctTokens returns the tokens appearing as either endpoint, ascending.
func DistinctTokens(pools []domain.Pool) []domain.TokenID {
	seen := make(map[domain.TokenID]struct{}, len(pools))
	for _, p := range pools {
		seen[p.Token0] = struct{}{}
		seen[p.Token1] = struct{}{}
	}

	tokens := make([]domain.TokenID, 0, len(seen))
	for t := range seen {
		tokens = append(tokens, t)
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i] < tokens[j] })
	return tokens
}

// pair is an unordered token pair, lo < hi.
type pair struct {
	lo, hi domain.TokenID
}

func pairOf(a, b domain.TokenID) pair {
	if a > b {
		a, b = b, a
	}
	return pair{lo: a, hi: b}
}

// Graph indexes pools by token pair. It is read-only after New and safe for
// concurrent readers.
type Graph struct {
	pools  []domain.Pool
	byPair map[pair][]int // pool indices in input order
}

// New indexes pools. Pools must already be validated.
func New(pools []domain.Pool) *Graph {
	g := &Graph{
		pools:  pools,
		byPair: make(map[pair][]int),
	}
	for i, p := range pools {
		k := pairOf(p.Token0, p.Token1)
		g.byPair[k] = append(g.byPair[k], i)
	}
	return g
}

// Within returns the pools whose endpoints both lie in the triple, in input
// order.
func (g *Graph) Within(t domain.TokenTriple) []domain.Pool {
	ab := g.byPair[pair{t[0], t[1]}]
	ac := g.byPair[pair{t[0], t[2]}]
	bc := g.byPair[pair{t[1], t[2]}]

	idx := make([]int, 0, len(ab)+len(ac)+len(bc))
	idx = append(idx, ab...)
	idx = append(idx, ac...)
	idx = append(idx, bc...)
	sort.Ints(idx)

	out := make([]domain.Pool, 0, len(idx))
	for _, i := range idx {
		out = append(out, g.pools[i])
	}
	return out
}
