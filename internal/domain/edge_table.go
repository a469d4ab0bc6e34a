package domain

import "sort"

// EdgeTable maps each usable token triple to the directed edges whose
// endpoints both lie within the triple.
type EdgeTable map[TokenTriple][]DirectedEdge

// Triples returns the table keys in ascending order.
func (t EdgeTable) Triples() []TokenTriple {
	keys := make([]TokenTriple, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// EdgeCount returns the total number of directed edges across all triples.
func (t EdgeTable) EdgeCount() int {
	n := 0
	for _, edges := range t {
		n += len(edges)
	}
	return n
}
