package scanner

import (
	"sync"
	"time"

	"cardano-pool-sentinel/internal/decision"
	"cardano-pool-sentinel/internal/domain"
	"cardano-pool-sentinel/internal/observability"
)

// Stats aggregates process-wide pipeline counters. It implements
// decision.Sink for the terminal outcomes; the scan loop feeds the
// block and discovery counters. Counters are never persisted, a
// restart resets them.
type Stats struct {
	metrics  *observability.Metrics // optional, may be nil
	tradeADA float64

	mu             sync.Mutex
	blocksScanned  int64
	poolsDetected  int64
	scamsFiltered  int64
	tradesExecuted int64
	analysisFailed int64
	duplicates     int64
	volumeADA      float64
	startTime      time.Time
	lastCheck      time.Time
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	BlocksScanned  int64
	PoolsDetected  int64
	ScamsFiltered  int64
	TradesExecuted int64
	AnalysisFailed int64
	Duplicates     int64
	VolumeADA      float64
	Uptime         time.Duration
	LastCheck      time.Time
}

// NewStats creates a stats sink. tradeADA is the per-trade volume added
// on each executed trade; metrics may be nil.
func NewStats(tradeADA float64, metrics *observability.Metrics) *Stats {
	return &Stats{
		metrics:   metrics,
		tradeADA:  tradeADA,
		startTime: time.Now(),
	}
}

// Compile-time interface check.
var _ decision.Sink = (*Stats)(nil)

// BlockScanned records one fully processed block.
func (s *Stats) BlockScanned() {
	s.mu.Lock()
	s.blocksScanned++
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.BlocksScanned.Inc()
	}
}

// PoolDetected records a first-seen pool.
func (s *Stats) PoolDetected(event *domain.PoolEvent) {
	s.mu.Lock()
	s.poolsDetected++
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.PoolsDetected.WithLabelValues(event.Dex).Inc()
	}
}

// DuplicatePool records a re-observed pool creation.
func (s *Stats) DuplicatePool() {
	s.mu.Lock()
	s.duplicates++
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.DuplicatePools.Inc()
	}
}

// ScoreObserved records an assessment's aggregate score.
func (s *Stats) ScoreObserved(score float64) {
	if s.metrics != nil {
		s.metrics.RiskScore.Observe(score)
	}
}

// TradeExecuted implements decision.Sink.
func (s *Stats) TradeExecuted(_ *domain.PoolEvent) {
	s.mu.Lock()
	s.tradesExecuted++
	s.volumeADA += s.tradeADA
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.TradesExecuted.Inc()
		s.metrics.VolumeADA.Add(s.tradeADA)
	}
}

// PoolFiltered implements decision.Sink.
func (s *Stats) PoolFiltered(_ *domain.PoolEvent, _ float64) {
	s.mu.Lock()
	s.scamsFiltered++
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.PoolsFiltered.Inc()
	}
}

// AnalysisFailed implements decision.Sink. Failed analyses count on
// their own, neither as trades nor as filtered scams.
func (s *Stats) AnalysisFailed(_ *domain.PoolEvent) {
	s.mu.Lock()
	s.analysisFailed++
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.AnalysisFailed.Inc()
	}
}

// MarkChecked records that a scan cycle reached the chain, whether or
// not new blocks were found.
func (s *Stats) MarkChecked() {
	s.mu.Lock()
	s.lastCheck = time.Now()
	s.mu.Unlock()
}

// Snapshot returns a copy of the counters.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		BlocksScanned:  s.blocksScanned,
		PoolsDetected:  s.poolsDetected,
		ScamsFiltered:  s.scamsFiltered,
		TradesExecuted: s.tradesExecuted,
		AnalysisFailed: s.analysisFailed,
		Duplicates:     s.duplicates,
		VolumeADA:      s.volumeADA,
		Uptime:         time.Since(s.startTime),
		LastCheck:      s.lastCheck,
	}
}
