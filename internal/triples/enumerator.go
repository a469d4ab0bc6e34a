// Package triples generates candidate token triples for cycle search.
package triples

import (
	"sort"

	"defi-path-finder/internal/domain"
)

// Count returns C(n, 3), the number of triples over n distinct tokens.
func Count(n int) int {
	if n < 3 {
		return 0
	}
	return n * (n - 1) * (n - 2) / 6
}

// Enumerate returns every 3-combination of tokens as canonical triples in
// lexicographic order. Input is sorted and de-duplicated first.
func Enumerate(tokens []domain.TokenID) []domain.TokenTriple {
	universe := normalize(tokens)
	n := len(universe)

	out := make([]domain.TokenTriple, 0, Count(n))
	for i := 0; i < n-2; i++ {
		for j := i + 1; j < n-1; j++ {
			for k := j + 1; k < n; k++ {
				out = append(out, domain.TokenTriple{universe[i], universe[j], universe[k]})
			}
		}
	}
	return out
}

// ContainsAll reports whether the triple is a superset of include.
// An empty include is satisfied by every triple.
func ContainsAll(t domain.TokenTriple, include []domain.TokenID) bool {
	for _, tok := range include {
		if !t.Contains(tok) {
			return false
		}
	}
	return true
}

func normalize(tokens []domain.TokenID) []domain.TokenID {
	sorted := make([]domain.TokenID, len(tokens))
	copy(sorted, tokens)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	out := sorted[:0]
	for i, t := range sorted {
		if i > 0 && t == sorted[i-1] {
			continue
		}
		out = append(out, t)
	}
	return out
}
