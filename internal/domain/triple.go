package domain

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidTriple is returned when three token ids are not pairwise distinct.
var ErrInvalidTriple = errors.New("invalid token triple")

// TokenTriple is an unordered set of three distinct tokens, stored sorted
// ascending so equal sets compare equal as map keys.
type TokenTriple [3]TokenID

// NewTokenTriple builds the canonical triple for a, b, c.
func NewTokenTriple(a, b, c TokenID) (TokenTriple, error) {
	t := TokenTriple{a, b, c}
	sort.Slice(t[:], func(i, j int) bool { return t[i] < t[j] })
	if t[0] == t[1] || t[1] == t[2] {
		return TokenTriple{}, fmt.Errorf("%w: (%d, %d, %d)", ErrInvalidTriple, a, b, c)
	}
	return t, nil
}

// Contains reports whether token is a member of the triple.
func (t TokenTriple) Contains(token TokenID) bool {
	return t[0] == token || t[1] == token || t[2] == token
}

// Less orders triples lexicographically.
func (t TokenTriple) Less(o TokenTriple) bool {
	for i := 0; i < 3; i++ {
		if t[i] != o[i] {
			return t[i] < o[i]
		}
	}
	return false
}

func (t TokenTriple) String() string {
	return fmt.Sprintf("(%d, %d, %d)", t[0], t[1], t[2])
}
