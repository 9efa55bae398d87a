package trade

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"cardano-pool-sentinel/internal/domain"
)

// DefaultTradeADA is the base trade size when none is configured.
const DefaultTradeADA = 50.0

// SimulatedExecutor logs trade intent and accumulates simulated volume
// without touching the chain. It is the default executor; real
// submission plugs in behind the same interface.
type SimulatedExecutor struct {
	logger   *logrus.Logger
	tradeADA float64

	mu     sync.Mutex
	trades int64
	volume float64
}

// NewSimulatedExecutor creates a dry-run executor trading tradeADA per
// accepted pool.
func NewSimulatedExecutor(tradeADA float64, logger *logrus.Logger) *SimulatedExecutor {
	if tradeADA <= 0 {
		tradeADA = DefaultTradeADA
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &SimulatedExecutor{logger: logger, tradeADA: tradeADA}
}

// Compile-time interface check.
var _ Executor = (*SimulatedExecutor)(nil)

// Execute records the simulated trade.
func (s *SimulatedExecutor) Execute(_ context.Context, event *domain.PoolEvent, assessment *domain.RiskAssessment) error {
	s.mu.Lock()
	s.trades++
	s.volume += s.tradeADA
	trades, volume := s.trades, s.volume
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"pool_id":      event.PoolID,
		"dex":          event.Dex,
		"pair":         event.TokenA.Unit() + "/" + event.TokenB.Unit(),
		"risk_score":   assessment.Score,
		"trade_ada":    s.tradeADA,
		"total_trades": trades,
		"total_volume": volume,
	}).Info("Simulated trade")

	return nil
}

// Totals returns the number of simulated trades and the accumulated
// volume in ADA.
func (s *SimulatedExecutor) Totals() (int64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trades, s.volume
}
