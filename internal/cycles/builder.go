// Package cycles expands per-triple edge tables into concrete triangular
// paths.
//
// Every triple is walked in all 6 token orderings. Rotations and reversals of
// the same triangle are therefore emitted as separate paths; use
// domain.Path.CycleKey to fold them if needed.
package cycles

import "defi-path-finder/internal/domain"

// Orderings returns the 6 permutations of t in lexicographic order.
func Orderings(t domain.TokenTriple) [6][3]domain.TokenID {
	a, b, c := t[0], t[1], t[2]
	return [6][3]domain.TokenID{
		{a, b, c},
		{a, c, b},
		{b, a, c},
		{b, c, a},
		{c, a, b},
		{c, b, a},
	}
}

// Hops pairs every token of the ordering with the next one, wrapping around:
// (x->y), (y->z), (z->x).
func Hops(order [3]domain.TokenID) [3]domain.Hop {
	var hops [3]domain.Hop
	for i := 0; i < 3; i++ {
		hops[i] = domain.Hop{In: order[i], Out: order[(i+1)%3]}
	}
	return hops
}

// BuildTriple returns every path over the triple's edges.
func BuildTriple(t domain.TokenTriple, edges []domain.DirectedEdge) []domain.Path {
	byHop := make(map[domain.Hop][]domain.DirectedEdge, 6)
	for _, e := range edges {
		byHop[e.Hop()] = append(byHop[e.Hop()], e)
	}

	var paths []domain.Path
	for _, order := range Orderings(t) {
		hops := Hops(order)
		first, second, third := byHop[hops[0]], byHop[hops[1]], byHop[hops[2]]

		// An empty hop yields an empty product.
		if len(first) == 0 || len(second) == 0 || len(third) == 0 {
			continue
		}

		for _, e0 := range first {
			for _, e1 := range second {
				for _, e2 := range third {
					paths = append(paths, domain.Path{e0, e1, e2})
				}
			}
		}
	}
	return paths
}

// Count returns how many paths BuildTriple would emit without building them.
func Count(t domain.TokenTriple, edges []domain.DirectedEdge) int {
	byHop := make(map[domain.Hop]int, 6)
	for _, e := range edges {
		byHop[e.Hop()]++
	}

	n := 0
	for _, order := range Orderings(t) {
		hops := Hops(order)
		n += byHop[hops[0]] * byHop[hops[1]] * byHop[hops[2]]
	}
	return n
}
