package memory

import (
	"context"
	"sync"

	"defi-path-finder/internal/storage"
)

// RunStore is an in-memory implementation of storage.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]*storage.RunRecord
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{runs: make(map[string]*storage.RunRecord)}
}

// Compile-time interface check.
var _ storage.RunStore = (*RunStore)(nil)

// Insert adds a run. Returns ErrDuplicateKey if run_id exists.
func (s *RunStore) Insert(_ context.Context, r *storage.RunRecord) error {
	if r == nil || r.RunID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[r.RunID]; exists {
		return storage.ErrDuplicateKey
	}
	copy := *r
	s.runs[r.RunID] = &copy
	return nil
}

// GetLatest returns the most recently started run.
func (s *RunStore) GetLatest(_ context.Context) (*storage.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *storage.RunRecord
	for _, r := range s.runs {
		if latest == nil || r.StartedAt > latest.StartedAt ||
			(r.StartedAt == latest.StartedAt && r.RunID > latest.RunID) {
			latest = r
		}
	}
	if latest == nil {
		return nil, storage.ErrNotFound
	}
	copy := *latest
	return &copy, nil
}
