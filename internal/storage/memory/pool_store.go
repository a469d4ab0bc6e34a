package memory

import (
	"context"
	"sort"
	"sync"

	"defi-path-finder/internal/domain"
	"defi-path-finder/internal/storage"
)

// PoolStore is an in-memory implementation of storage.PoolStore.
type PoolStore struct {
	mu   sync.RWMutex
	data map[domain.PoolKey]*domain.PoolRecord
}

// NewPoolStore creates a new in-memory pool store.
func NewPoolStore() *PoolStore {
	return &PoolStore{
		data: make(map[domain.PoolKey]*domain.PoolRecord),
	}
}

// Compile-time interface check.
var _ storage.PoolStore = (*PoolStore)(nil)

// InsertBulk adds multiple pools atomically. Fails entire batch on any duplicate.
func (s *PoolStore) InsertBulk(_ context.Context, pools []*domain.PoolRecord) error {
	if len(pools) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[domain.PoolKey]struct{}, len(pools))

	// First pass: check for duplicates (existing + intra-batch)
	for _, p := range pools {
		if !storage.ValidPool(p) {
			return storage.ErrInvalidInput
		}
		key := p.Key()
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	// Second pass: insert all
	for _, p := range pools {
		copy := *p
		s.data[p.Key()] = &copy
	}

	return nil
}

// GetAll retrieves all pools, ordered by (exchange, token0, token1) ASC.
func (s *PoolStore) GetAll(_ context.Context) ([]*domain.PoolRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.PoolRecord, 0, len(s.data))
	for _, p := range s.data {
		copy := *p
		result = append(result, &copy)
	}
	sortPools(result)
	return result, nil
}

// GetByExchange retrieves pools of one exchange, ordered by (token0, token1) ASC.
func (s *PoolStore) GetByExchange(_ context.Context, exchange domain.ExchangeID) ([]*domain.PoolRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PoolRecord
	for _, p := range s.data {
		if p.Exchange == exchange {
			copy := *p
			result = append(result, &copy)
		}
	}
	sortPools(result)
	return result, nil
}

func sortPools(pools []*domain.PoolRecord) {
	sort.Slice(pools, func(i, j int) bool {
		a, b := pools[i], pools[j]
		if a.Exchange != b.Exchange {
			return a.Exchange < b.Exchange
		}
		if a.Token0 != b.Token0 {
			return a.Token0 < b.Token0
		}
		return a.Token1 < b.Token1
	})
}
