package domain

import (
	"errors"
	"fmt"
)

// TokenID is a dense integer token identifier assigned by the registry.
type TokenID int

// ExchangeID is a small integer exchange identifier assigned by the registry.
type ExchangeID int

// ErrInvalidPool is returned when a pool row cannot be used as a graph edge.
var ErrInvalidPool = errors.New("invalid pool")

// Pool is a liquidity pair between two tokens on one exchange.
// It is traversable in either direction; reserves live in PoolRecord.
type Pool struct {
	Token0   TokenID
	Token1   TokenID
	Exchange ExchangeID
}

// PoolKey identifies a pool by its ordered token pair and exchange.
type PoolKey struct {
	Token0   TokenID
	Token1   TokenID
	Exchange ExchangeID
}

// Key returns the pool identity.
func (p Pool) Key() PoolKey {
	return PoolKey{Token0: p.Token0, Token1: p.Token1, Exchange: p.Exchange}
}

// Has reports whether token is one of the pool endpoints.
func (p Pool) Has(token TokenID) bool {
	return p.Token0 == token || p.Token1 == token
}

// Validate checks that the pool is a usable edge.
func (p Pool) Validate() error {
	if p.Token0 < 0 || p.Token1 < 0 || p.Exchange < 0 {
		return fmt.Errorf("%w: negative id in (%d, %d, %d)", ErrInvalidPool, p.Token0, p.Token1, p.Exchange)
	}
	if p.Token0 == p.Token1 {
		return fmt.Errorf("%w: token0 == token1 (%d)", ErrInvalidPool, p.Token0)
	}
	return nil
}

// Directions returns both traversal directions of the pool:
// token0 -> token1 first, then token1 -> token0.
func (p Pool) Directions() [2]DirectedEdge {
	return [2]DirectedEdge{
		{Token0: p.Token0, Token1: p.Token1, Exchange: p.Exchange, TokenIn: p.Token0, TokenOut: p.Token1},
		{Token0: p.Token0, Token1: p.Token1, Exchange: p.Exchange, TokenIn: p.Token1, TokenOut: p.Token0},
	}
}

// DirectedEdge is a pool annotated with a traversal direction.
type DirectedEdge struct {
	Token0   TokenID
	Token1   TokenID
	Exchange ExchangeID
	TokenIn  TokenID
	TokenOut TokenID
}

// Pool returns the undirected pool the edge was derived from.
func (e DirectedEdge) Pool() Pool {
	return Pool{Token0: e.Token0, Token1: e.Token1, Exchange: e.Exchange}
}

// Hop is the (token_in, token_out) direction of an edge.
type Hop struct {
	In  TokenID
	Out TokenID
}

// Hop returns the traversal direction of the edge.
func (e DirectedEdge) Hop() Hop {
	return Hop{In: e.TokenIn, Out: e.TokenOut}
}

// String renders the edge as "in>out@exchange".
func (e DirectedEdge) String() string {
	return fmt.Sprintf("%d>%d@%d", e.TokenIn, e.TokenOut, e.Exchange)
}

// PoolsFromRows converts raw integer rows into pools.
// Each row must carry at least (token0, token1, exchange); extra columns
// such as reserves are ignored.
func PoolsFromRows(rows [][]int64) ([]Pool, error) {
	pools := make([]Pool, 0, len(rows))
	for i, row := range rows {
		if len(row) < 3 {
			return nil, fmt.Errorf("%w: row %d has %d columns, want at least 3", ErrInvalidPool, i, len(row))
		}
		p := Pool{Token0: TokenID(row[0]), Token1: TokenID(row[1]), Exchange: ExchangeID(row[2])}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		pools = append(pools, p)
	}
	return pools, nil
}
