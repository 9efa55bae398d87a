package discovery

import (
	"context"
	"errors"
	"sync"

	"cardano-pool-sentinel/internal/storage"
)

// Outcome is the result of observing a pool identity.
type Outcome int

// Observe outcomes.
const (
	// First means the pool id was not seen before; the caller owns
	// scoring it.
	First Outcome = iota
	// Duplicate means the pool was already observed and must be
	// discarded with no further processing.
	Duplicate
)

// Ledger deduplicates pool events by identity. It is the sole
// deduplication point in the pipeline: downstream stages see each pool
// id exactly once. Check-and-insert is atomic across goroutines.
type Ledger struct {
	mu    sync.Mutex
	seen  map[string]bool
	store storage.PoolLedgerStore
}

// NewLedger creates a ledger backed by the given store.
func NewLedger(store storage.PoolLedgerStore) *Ledger {
	return &Ledger{
		seen:  make(map[string]bool),
		store: store,
	}
}

// WarmCache loads previously recorded pool ids into the in-process set.
// Called once at startup when the store is durable.
func (l *Ledger) WarmCache(ctx context.Context) error {
	ids, err := l.store.LoadSeen(ctx)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range ids {
		l.seen[id] = true
	}
	return nil
}

// Observe records a pool id, returning First exactly once per id and
// Duplicate for every subsequent call. A store insert that reports
// ErrDuplicateKey (e.g. another process won a race) is a Duplicate, not
// an error.
func (l *Ledger) Observe(ctx context.Context, poolID string) (Outcome, error) {
	if poolID == "" {
		return Duplicate, storage.ErrInvalidInput
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.seen[poolID] {
		return Duplicate, nil
	}

	if err := l.store.Insert(ctx, poolID); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			l.seen[poolID] = true
			return Duplicate, nil
		}
		return Duplicate, err
	}

	l.seen[poolID] = true
	return First, nil
}
