package domain

import "sort"

// Path is one concrete triangular route: three directed edges where each
// edge's token_out feeds the next edge's token_in, wrapping around.
type Path [3]DirectedEdge

// Valid reports whether the hops chain into a closed cycle over three
// distinct tokens.
func (p Path) Valid() bool {
	for i := 0; i < 3; i++ {
		if p[i].TokenIn == p[i].TokenOut {
			return false
		}
		if p[i].TokenOut != p[(i+1)%3].TokenIn {
			return false
		}
	}
	return p[0].TokenIn != p[1].TokenIn && p[1].TokenIn != p[2].TokenIn && p[0].TokenIn != p[2].TokenIn
}

// Start returns the token the route begins and ends with.
func (p Path) Start() TokenID {
	return p[0].TokenIn
}

// Tokens returns the token visiting order (start, second, third).
func (p Path) Tokens() [3]TokenID {
	return [3]TokenID{p[0].TokenIn, p[1].TokenIn, p[2].TokenIn}
}

// Triple returns the canonical token set of the route.
func (p Path) Triple() TokenTriple {
	t := TokenTriple(p.Tokens())
	sort.Slice(t[:], func(i, j int) bool { return t[i] < t[j] })
	return t
}

// CycleKey identifies a route up to rotation and reversal: the token set
// plus the pool used on each side of the triangle.
type CycleKey struct {
	Triple TokenTriple
	Pools  [3]PoolKey
}

// CycleKey returns the rotation- and reflection-invariant key of the path.
// The enumeration engine never folds equivalent paths; callers that want
// one representative per triangle can group by this key.
func (p Path) CycleKey() CycleKey {
	k := CycleKey{Triple: p.Triple()}
	for i, e := range p {
		k.Pools[i] = e.Pool().Key()
	}
	sort.Slice(k.Pools[:], func(i, j int) bool {
		a, b := k.Pools[i], k.Pools[j]
		if a.Token0 != b.Token0 {
			return a.Token0 < b.Token0
		}
		if a.Token1 != b.Token1 {
			return a.Token1 < b.Token1
		}
		return a.Exchange < b.Exchange
	})
	return k
}
