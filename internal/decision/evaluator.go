package decision

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"cardano-pool-sentinel/internal/domain"
	"cardano-pool-sentinel/internal/trade"
)

// Evaluator wraps Decide with hook invocation and counter routing.
type Evaluator struct {
	executor  trade.Executor
	sink      Sink
	threshold float64
	logger    *logrus.Logger
}

// NewEvaluator creates an evaluator routing accepted pools to executor.
// sink may be nil.
func NewEvaluator(executor trade.Executor, sink Sink, threshold float64, logger *logrus.Logger) *Evaluator {
	if sink == nil {
		sink = noopSink{}
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Evaluator{executor: executor, sink: sink, threshold: threshold, logger: logger}
}

// Evaluate finalizes the assessment's recommendation and routes the
// pool. Assessments already marked as failed are never traded; the
// failure counts separately from filtered scams. A hook failure is
// logged and not retried, and does not count as an executed trade.
func (e *Evaluator) Evaluate(ctx context.Context, event *domain.PoolEvent, assessment *domain.RiskAssessment) *Record {
	if assessment.Recommendation != domain.ErrorAnalysisFailed {
		assessment.Recommendation = Decide(assessment.Score, e.threshold)
	}

	record := &Record{
		PoolID:         event.PoolID,
		Dex:            event.Dex,
		Score:          assessment.Score,
		Threshold:      e.threshold,
		Recommendation: assessment.Recommendation,
		Reasons:        assessment.Reasons,
		DecidedAt:      time.Now().UnixMilli(),
	}

	fields := logrus.Fields{
		"pool_id":   event.PoolID,
		"dex":       event.Dex,
		"score":     assessment.Score,
		"threshold": e.threshold,
	}

	switch assessment.Recommendation {
	case domain.SafeToTrade:
		e.logger.WithFields(fields).Info("Pool accepted")
		if err := e.executor.Execute(ctx, event, assessment); err != nil {
			e.logger.WithFields(fields).WithError(err).Warn("Trade hook failed")
		} else {
			e.sink.TradeExecuted(event)
		}
	case domain.TooRisky:
		e.logger.WithFields(fields).Info("Pool filtered")
		e.sink.PoolFiltered(event, assessment.Score)
	default:
		e.logger.WithFields(fields).Warn("Pool skipped, analysis failed")
		e.sink.AnalysisFailed(event)
	}

	return record
}
