package clickhouse

import (
	"context"
	"fmt"

	"cardano-pool-sentinel/internal/domain"
	"cardano-pool-sentinel/internal/storage"
)

// AssessmentStore implements storage.AssessmentStore using ClickHouse.
// MergeTree does not enforce uniqueness; the pipeline only archives a
// pool once because the ledger gates scoring upstream.
type AssessmentStore struct {
	conn *Conn
}

// NewAssessmentStore creates a new ClickHouse assessment store.
func NewAssessmentStore(conn *Conn) *AssessmentStore {
	return &AssessmentStore{conn: conn}
}

// Compile-time interface check.
var _ storage.AssessmentStore = (*AssessmentStore)(nil)

// Insert adds an assessment record.
func (s *AssessmentStore) Insert(ctx context.Context, rec *storage.AssessmentRecord) error {
	if rec == nil || rec.PoolID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO risk_assessments (
			pool_id, dex, tx_hash, block_height,
			score, recommendation, reasons,
			liquidity_ada, assessed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := s.conn.Exec(ctx, query,
		rec.PoolID, rec.Dex, rec.TxHash, rec.BlockHeight,
		rec.Score, rec.Recommendation, rec.Reasons,
		rec.LiquidityADA, rec.AssessedAt,
	)
	if err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}
	return nil
}

// GetByPoolID retrieves all records for a pool, ordered by assessed_at
// ASC.
func (s *AssessmentStore) GetByPoolID(ctx context.Context, poolID string) ([]*storage.AssessmentRecord, error) {
	if poolID == "" {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT pool_id, dex, tx_hash, block_height,
		       score, recommendation, reasons,
		       liquidity_ada, assessed_at
		FROM risk_assessments
		WHERE pool_id = ?
		ORDER BY assessed_at ASC
	`
	rows, err := s.conn.Query(ctx, query, poolID)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// GetByRecommendation retrieves all records with a given terminal
// outcome, ordered by assessed_at ASC.
func (s *AssessmentStore) GetByRecommendation(ctx context.Context, rec domain.Recommendation) ([]*storage.AssessmentRecord, error) {
	query := `
		SELECT pool_id, dex, tx_hash, block_height,
		       score, recommendation, reasons,
		       liquidity_ada, assessed_at
		FROM risk_assessments
		WHERE recommendation = ?
		ORDER BY assessed_at ASC
	`
	rows, err := s.conn.Query(ctx, query, string(rec))
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// rowScanner is the subset of driver.Rows used by scanRecords.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRecords(rows rowScanner) ([]*storage.AssessmentRecord, error) {
	var records []*storage.AssessmentRecord
	for rows.Next() {
		var rec storage.AssessmentRecord
		err := rows.Scan(
			&rec.PoolID, &rec.Dex, &rec.TxHash, &rec.BlockHeight,
			&rec.Score, &rec.Recommendation, &rec.Reasons,
			&rec.LiquidityADA, &rec.AssessedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
