package memory

import (
	"context"
	"sort"
	"sync"

	"defi-path-finder/internal/domain"
	"defi-path-finder/internal/storage"
)

// TokenStore is an in-memory implementation of storage.TokenStore.
type TokenStore struct {
	mu        sync.RWMutex
	data      map[domain.TokenID]*domain.Token
	byAddress map[string]domain.TokenID
}

// NewTokenStore creates a new in-memory token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{
		data:      make(map[domain.TokenID]*domain.Token),
		byAddress: make(map[string]domain.TokenID),
	}
}

// Compile-time interface check.
var _ storage.TokenStore = (*TokenStore)(nil)

// InsertBulk adds multiple tokens atomically. Fails entire batch on any duplicate.
func (s *TokenStore) InsertBulk(_ context.Context, tokens []*domain.Token) error {
	if len(tokens) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make(map[domain.TokenID]struct{}, len(tokens))
	addrs := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if !storage.ValidToken(t) {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[t.ID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := s.byAddress[t.Address]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := ids[t.ID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := addrs[t.Address]; exists {
			return storage.ErrDuplicateKey
		}
		ids[t.ID] = struct{}{}
		addrs[t.Address] = struct{}{}
	}

	for _, t := range tokens {
		copy := *t
		s.data[t.ID] = &copy
		s.byAddress[t.Address] = t.ID
	}
	return nil
}

// GetAll retrieves all tokens, ordered by id ASC.
func (s *TokenStore) GetAll(_ context.Context) ([]*domain.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Token, 0, len(s.data))
	for _, t := range s.data {
		copy := *t
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// GetByAddress retrieves a token by address. Returns ErrNotFound if not exists.
func (s *TokenStore) GetByAddress(_ context.Context, address string) (*domain.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byAddress[address]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copy := *s.data[id]
	return &copy, nil
}
