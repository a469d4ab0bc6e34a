package snapshot

import (
	"github.com/shopspring/decimal"

	"defi-path-finder/internal/domain"
)

// Reserves are the pool balances seen from one swap direction.
type Reserves struct {
	In  decimal.Decimal
	Out decimal.Decimal
}

// reserveKey pins a lookup to one pool, so (A, B, ex) and (B, A, ex)
// keep separate balances.
type reserveKey struct {
	pool domain.PoolKey
	in   domain.TokenID
}

// ReserveBook answers directional reserve lookups for directed edges.
type ReserveBook struct {
	byDir map[reserveKey]Reserves
}

// NewReserveBook indexes records in both swap directions.
func NewReserveBook(records []*domain.PoolRecord) *ReserveBook {
	b := &ReserveBook{byDir: make(map[reserveKey]Reserves, 2*len(records))}
	for _, r := range records {
		key := r.Key()
		b.byDir[reserveKey{key, r.Token0}] = Reserves{In: r.Reserve0, Out: r.Reserve1}
		b.byDir[reserveKey{key, r.Token1}] = Reserves{In: r.Reserve1, Out: r.Reserve0}
	}
	return b
}

// Get returns the reserves of pool when swapping in is the input token.
func (b *ReserveBook) Get(pool domain.PoolKey, in domain.TokenID) (Reserves, bool) {
	r, ok := b.byDir[reserveKey{pool, in}]
	return r, ok
}

// Edge returns the reserves behind a directed edge.
func (b *ReserveBook) Edge(e domain.DirectedEdge) (Reserves, bool) {
	return b.Get(e.Pool().Key(), e.TokenIn)
}

// Len returns the number of indexed directions.
func (b *ReserveBook) Len() int {
	return len(b.byDir)
}
