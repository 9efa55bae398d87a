// Package risk implements the multi-factor scoring engine. Four
// independent checks each produce a CheckResult; the engine sums their
// contributions directly, with no weighting or normalization.
package risk

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"cardano-pool-sentinel/internal/chain"
	"cardano-pool-sentinel/internal/domain"
)

// Check names, in evaluation order.
const (
	CheckPolicy    = "policy"
	CheckLiquidity = "liquidity"
	CheckMinting   = "minting"
	CheckMetadata  = "metadata"
)

// Engine runs the risk checks against a PoolEvent.
type Engine struct {
	client chain.Client
	logger *logrus.Logger
}

// NewEngine creates a new scoring engine.
func NewEngine(client chain.Client, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Engine{client: client, logger: logger}
}

// Assess runs all checks and aggregates their results. Lookup failures
// inside individual checks are absorbed as flat penalties and never
// abort the assessment; only an unexpected panic short-circuits, yielding
// ErrorAnalysisFailed with whatever partial score had accumulated.
func (e *Engine) Assess(ctx context.Context, event *domain.PoolEvent) (assessment *domain.RiskAssessment) {
	assessment = &domain.RiskAssessment{
		PoolID:     event.PoolID,
		Checks:     make(map[string]domain.CheckResult),
		AssessedAt: time.Now().UnixMilli(),
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.WithFields(logrus.Fields{
				"pool_id": event.PoolID,
				"panic":   r,
			}).Error("Risk assessment failed")
			assessment.Recommendation = domain.ErrorAnalysisFailed
		}
	}()

	checks := []struct {
		name string
		run  func(context.Context, *domain.PoolEvent) domain.CheckResult
	}{
		{CheckPolicy, e.checkPolicy},
		{CheckLiquidity, e.checkLiquidity},
		{CheckMinting, e.checkMinting},
		{CheckMetadata, e.checkMetadata},
	}

	for _, c := range checks {
		result := c.run(ctx, event)
		assessment.Checks[c.name] = result
		assessment.Score += result.Score
		assessment.Reasons = append(assessment.Reasons, result.Reasons...)
	}

	return assessment
}

// label returns the token identifier used in reason strings.
func label(t domain.TokenInfo) string {
	if t.Ticker != "" {
		return t.Ticker
	}
	if t.Name != "" {
		return t.Name
	}
	return t.PolicyID
}

// pairTokens returns the non-native tokens of the pair in slot order.
func pairTokens(event *domain.PoolEvent) []domain.TokenInfo {
	var tokens []domain.TokenInfo
	for _, t := range []domain.TokenInfo{event.TokenA, event.TokenB} {
		if !t.IsNative {
			tokens = append(tokens, t)
		}
	}
	return tokens
}
