package snapshot

import (
	"fmt"

	"defi-path-finder/internal/domain"
	"defi-path-finder/internal/registry"
)

// Prepare maps raw pools to id-based records, registering tokens and pool
// addresses in reg. Pools are returned in snapshot order. A pool key that
// appears twice is rejected.
func Prepare(raw *Raw, reg *registry.Registry) ([]*domain.PoolRecord, error) {
	if raw == nil || reg == nil {
		return nil, fmt.Errorf("%w: nil input", ErrInvalidSnapshot)
	}

	records := make([]*domain.PoolRecord, 0, len(raw.Pools))
	seen := make(map[domain.PoolKey]int, len(raw.Pools))

	for i, p := range raw.Pools {
		ex, err := reg.Exchange(p.Exchange)
		if err != nil {
			return nil, fmt.Errorf("pool %d: %w", i, err)
		}
		t0, err := reg.Token(p.Token0.Address, p.Token0.Symbol, p.Token0.Decimals)
		if err != nil {
			return nil, fmt.Errorf("pool %d token0: %w", i, err)
		}
		t1, err := reg.Token(p.Token1.Address, p.Token1.Symbol, p.Token1.Decimals)
		if err != nil {
			return nil, fmt.Errorf("pool %d token1: %w", i, err)
		}

		rec := &domain.PoolRecord{
			Token0:    t0,
			Token1:    t1,
			Exchange:  ex,
			Reserve0:  p.Reserve0,
			Reserve1:  p.Reserve1,
			FetchedAt: raw.FetchedAt,
		}
		if err := rec.Pool().Validate(); err != nil {
			return nil, fmt.Errorf("%w: pool %d: %v", ErrInvalidSnapshot, i, err)
		}
		if rec.Reserve0.IsNegative() || rec.Reserve1.IsNegative() {
			return nil, fmt.Errorf("%w: pool %d has negative reserves", ErrInvalidSnapshot, i)
		}

		key := rec.Key()
		if j, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: pools %d and %d share key %v", ErrInvalidSnapshot, j, i, key)
		}
		seen[key] = i

		if p.Address != "" {
			if err := reg.Pool(key, p.Address); err != nil {
				return nil, fmt.Errorf("pool %d: %w", i, err)
			}
			rec.Address, _ = registry.NormalizeAddress(p.Address)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Pools projects records onto engine pools.
func Pools(records []*domain.PoolRecord) []domain.Pool {
	return domain.PoolsOf(records)
}
