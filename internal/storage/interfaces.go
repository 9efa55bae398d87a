package storage

import (
	"context"

	"cardano-pool-sentinel/internal/domain"
)

// PoolLedgerStore persists the set of seen pool identities. The ledger
// set grows monotonically for the process (or database) lifetime.
type PoolLedgerStore interface {
	// Insert records a pool id. Returns ErrDuplicateKey if it was
	// already recorded.
	Insert(ctx context.Context, poolID string) error

	// Seen reports whether a pool id has been recorded.
	Seen(ctx context.Context, poolID string) (bool, error)

	// LoadSeen returns all recorded pool ids (for warming the
	// in-process cache after a restart).
	LoadSeen(ctx context.Context) ([]string, error)
}

// ScanProgressStore persists the scan cursor: the last block height that
// was fully processed. Monotonicity is enforced by the cursor, not here.
type ScanProgressStore interface {
	// GetLastHeight returns the last confirmed height.
	// Returns ErrNotFound if no progress has been saved yet.
	GetLastHeight(ctx context.Context) (int64, error)

	// SetLastHeight saves the last confirmed height (upsert).
	SetLastHeight(ctx context.Context, height int64) error
}

// AssessmentRecord is one scored pool as archived for later analysis.
type AssessmentRecord struct {
	PoolID         string
	Dex            string
	TxHash         string
	BlockHeight    int64
	Score          float64
	Recommendation string
	Reasons        []string
	LiquidityADA   float64
	AssessedAt     int64 // Unix timestamp in milliseconds
}

// AssessmentStore is an append-only archive of risk assessments.
type AssessmentStore interface {
	// Insert adds an assessment record.
	Insert(ctx context.Context, rec *AssessmentRecord) error

	// GetByPoolID retrieves all records for a pool, ordered by
	// assessed_at ASC.
	GetByPoolID(ctx context.Context, poolID string) ([]*AssessmentRecord, error)

	// GetByRecommendation retrieves all records with a given outcome.
	GetByRecommendation(ctx context.Context, rec domain.Recommendation) ([]*AssessmentRecord, error)
}
