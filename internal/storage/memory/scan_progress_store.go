package memory

import (
	"context"
	"sync"

	"cardano-pool-sentinel/internal/storage"
)

// ScanProgressStore is an in-memory implementation of
// storage.ScanProgressStore.
type ScanProgressStore struct {
	mu     sync.RWMutex
	height int64
	set    bool
}

// NewScanProgressStore creates a new in-memory scan progress store.
func NewScanProgressStore() *ScanProgressStore {
	return &ScanProgressStore{}
}

// Compile-time interface check.
var _ storage.ScanProgressStore = (*ScanProgressStore)(nil)

// GetLastHeight returns the last confirmed height.
func (s *ScanProgressStore) GetLastHeight(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.set {
		return 0, storage.ErrNotFound
	}
	return s.height, nil
}

// SetLastHeight saves the last confirmed height.
func (s *ScanProgressStore) SetLastHeight(_ context.Context, height int64) error {
	if height < 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.height = height
	s.set = true
	return nil
}
