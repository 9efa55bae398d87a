package postgres

import (
	"context"

	"cardano-pool-sentinel/internal/storage"
)

// PoolLedgerStore is a PostgreSQL implementation of
// storage.PoolLedgerStore. The pool_ledger table's primary key enforces
// the at-most-once invariant at the database level.
type PoolLedgerStore struct {
	pool *Pool
}

// NewPoolLedgerStore creates a new PostgreSQL pool ledger store.
func NewPoolLedgerStore(pool *Pool) *PoolLedgerStore {
	return &PoolLedgerStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PoolLedgerStore = (*PoolLedgerStore)(nil)

// Insert records a pool id. Returns ErrDuplicateKey if it was already
// recorded.
func (s *PoolLedgerStore) Insert(ctx context.Context, poolID string) error {
	if poolID == "" {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO pool_ledger (pool_id, seen_at)
		VALUES ($1, NOW())
	`, poolID)
	if isDuplicateKeyError(err) {
		return storage.ErrDuplicateKey
	}
	return err
}

// Seen reports whether a pool id has been recorded.
func (s *PoolLedgerStore) Seen(ctx context.Context, poolID string) (bool, error) {
	if poolID == "" {
		return false, storage.ErrInvalidInput
	}

	row := s.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM pool_ledger WHERE pool_id = $1)
	`, poolID)

	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// LoadSeen returns all recorded pool ids.
func (s *PoolLedgerStore) LoadSeen(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT pool_id FROM pool_ledger
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
