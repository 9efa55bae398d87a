package memory

import (
	"context"
	"sync"

	"cardano-pool-sentinel/internal/storage"
)

// PoolLedgerStore is an in-memory implementation of
// storage.PoolLedgerStore.
type PoolLedgerStore struct {
	mu   sync.RWMutex
	seen map[string]bool
}

// NewPoolLedgerStore creates a new in-memory pool ledger store.
func NewPoolLedgerStore() *PoolLedgerStore {
	return &PoolLedgerStore{
		seen: make(map[string]bool),
	}
}

// Compile-time interface check.
var _ storage.PoolLedgerStore = (*PoolLedgerStore)(nil)

// Insert records a pool id. Returns ErrDuplicateKey if already recorded.
func (s *PoolLedgerStore) Insert(_ context.Context, poolID string) error {
	if poolID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seen[poolID] {
		return storage.ErrDuplicateKey
	}
	s.seen[poolID] = true
	return nil
}

// Seen reports whether a pool id has been recorded.
func (s *PoolLedgerStore) Seen(_ context.Context, poolID string) (bool, error) {
	if poolID == "" {
		return false, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.seen[poolID], nil
}

// LoadSeen returns all recorded pool ids.
func (s *PoolLedgerStore) LoadSeen(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.seen))
	for id := range s.seen {
		ids = append(ids, id)
	}
	return ids, nil
}
