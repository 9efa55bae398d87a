// Package decision turns a risk score into a terminal trade/no-trade
// outcome and routes accepted pools to the execution hook.
package decision

import "cardano-pool-sentinel/internal/domain"

// Record itemizes one routing decision for a detected pool.
type Record struct {
	PoolID         string
	Dex            string
	Score          float64
	Threshold      float64
	Recommendation domain.Recommendation
	Reasons        []string
	DecidedAt      int64 // unix millis
}

// Sink receives terminal outcomes for aggregate counters. Implementations
// must be safe for concurrent use.
type Sink interface {
	TradeExecuted(event *domain.PoolEvent)
	PoolFiltered(event *domain.PoolEvent, score float64)
	AnalysisFailed(event *domain.PoolEvent)
}

// noopSink is used when no sink is wired.
type noopSink struct{}

func (noopSink) TradeExecuted(*domain.PoolEvent)         {}
func (noopSink) PoolFiltered(*domain.PoolEvent, float64) {}
func (noopSink) AnalysisFailed(*domain.PoolEvent)        {}
