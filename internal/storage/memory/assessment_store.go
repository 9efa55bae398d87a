package memory

import (
	"context"
	"sort"
	"sync"

	"cardano-pool-sentinel/internal/domain"
	"cardano-pool-sentinel/internal/storage"
)

// AssessmentStore is an in-memory implementation of
// storage.AssessmentStore.
type AssessmentStore struct {
	mu   sync.RWMutex
	recs []*storage.AssessmentRecord
}

// NewAssessmentStore creates a new in-memory assessment store.
func NewAssessmentStore() *AssessmentStore {
	return &AssessmentStore{}
}

// Compile-time interface check.
var _ storage.AssessmentStore = (*AssessmentStore)(nil)

// Insert adds an assessment record.
func (s *AssessmentStore) Insert(_ context.Context, rec *storage.AssessmentRecord) error {
	if rec == nil || rec.PoolID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Store a copy to prevent external mutation
	recCopy := *rec
	recCopy.Reasons = append([]string(nil), rec.Reasons...)
	s.recs = append(s.recs, &recCopy)
	return nil
}

// GetByPoolID retrieves all records for a pool, ordered by assessed_at ASC.
func (s *AssessmentStore) GetByPoolID(_ context.Context, poolID string) ([]*storage.AssessmentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*storage.AssessmentRecord
	for _, rec := range s.recs {
		if rec.PoolID == poolID {
			recCopy := *rec
			result = append(result, &recCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].AssessedAt < result[j].AssessedAt
	})

	return result, nil
}

// GetByRecommendation retrieves all records with a given outcome.
func (s *AssessmentStore) GetByRecommendation(_ context.Context, rec domain.Recommendation) ([]*storage.AssessmentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*storage.AssessmentRecord
	for _, r := range s.recs {
		if r.Recommendation == string(rec) {
			recCopy := *r
			result = append(result, &recCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].AssessedAt < result[j].AssessedAt
	})

	return result, nil
}
