// Package scanner drives the block-polling pipeline: cursor advance,
// transaction matching, dedup, scoring and decision routing.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cardano-pool-sentinel/internal/chain"
	"cardano-pool-sentinel/internal/storage"
)

// Range is an inclusive span of block heights to scan.
type Range struct {
	From int64
	To   int64
}

// Cursor tracks the last fully processed block height. The confirmed
// height never decreases, and it only moves after the caller confirms a
// range was completely processed. Progress survives restarts through
// the store; re-scanning after a crash is safe because the pool ledger
// absorbs duplicates.
type Cursor struct {
	client chain.Client
	store  storage.ScanProgressStore

	mu     sync.Mutex
	height int64
	loaded bool
}

// NewCursor creates a cursor backed by the given progress store.
func NewCursor(client chain.Client, store storage.ScanProgressStore) *Cursor {
	return &Cursor{client: client, store: store}
}

// Advance fetches the current tip and returns the inclusive range of
// heights not yet processed. ok is false when the tip has not moved
// past the cursor. A tip-fetch failure leaves the cursor untouched and
// surfaces the error.
func (c *Cursor) Advance(ctx context.Context) (Range, bool, error) {
	tip, err := c.client.LatestBlock(ctx)
	if err != nil {
		return Range{}, false, fmt.Errorf("fetch tip: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		if err := c.load(ctx, tip.Height); err != nil {
			return Range{}, false, err
		}
	}

	if tip.Height <= c.height {
		return Range{}, false, nil
	}
	return Range{From: c.height + 1, To: tip.Height}, true, nil
}

// load initializes the cursor from the store. A fresh deployment seeds
// at the current tip so only blocks produced from now on are scanned.
func (c *Cursor) load(ctx context.Context, tip int64) error {
	height, err := c.store.GetLastHeight(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		if err := c.store.SetLastHeight(ctx, tip); err != nil {
			return fmt.Errorf("seed progress: %w", err)
		}
		c.height = tip
	case err != nil:
		return fmt.Errorf("load progress: %w", err)
	default:
		c.height = height
	}
	c.loaded = true
	return nil
}

// Confirm persists height as fully processed. Confirming a height at or
// below the current cursor is a no-op, so the stored value is
// monotonic regardless of call order.
func (c *Cursor) Confirm(ctx context.Context, height int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded || height <= c.height {
		return nil
	}
	if err := c.store.SetLastHeight(ctx, height); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	c.height = height
	return nil
}

// Height returns the last confirmed height.
func (c *Cursor) Height() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height
}
