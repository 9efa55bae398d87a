// Package trade holds the execution hook fired for pools the decision
// policy accepts.
package trade

import (
	"context"

	"cardano-pool-sentinel/internal/domain"
)

// Executor places an opening trade for an accepted pool. The ledger
// guarantees at most one invocation per pool; implementations do not
// need their own dedup. Failures are logged by the caller, not retried.
type Executor interface {
	Execute(ctx context.Context, event *domain.PoolEvent, assessment *domain.RiskAssessment) error
}
