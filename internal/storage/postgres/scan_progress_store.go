package postgres

import (
	"context"

	"cardano-pool-sentinel/internal/storage"
)

// ScanProgressStore is a PostgreSQL implementation of
// storage.ScanProgressStore. A single row carries the last confirmed
// height; monotonicity is the cursor's job, not the table's.
type ScanProgressStore struct {
	pool *Pool
}

// NewScanProgressStore creates a new PostgreSQL scan progress store.
func NewScanProgressStore(pool *Pool) *ScanProgressStore {
	return &ScanProgressStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ScanProgressStore = (*ScanProgressStore)(nil)

// GetLastHeight returns the last confirmed height, or ErrNotFound when
// no progress has been saved yet.
func (s *ScanProgressStore) GetLastHeight(ctx context.Context) (int64, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT height FROM scan_progress
		LIMIT 1
	`)

	var height int64
	if err := row.Scan(&height); err != nil {
		if isNotFoundError(err) {
			return 0, storage.ErrNotFound
		}
		return 0, err
	}
	return height, nil
}

// SetLastHeight saves the last confirmed height (upsert).
func (s *ScanProgressStore) SetLastHeight(ctx context.Context, height int64) error {
	if height < 0 {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO scan_progress (id, height, updated_at)
		VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE
		SET height = EXCLUDED.height,
		    updated_at = NOW()
	`, height)
	return err
}
