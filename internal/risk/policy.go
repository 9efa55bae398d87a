package risk

import (
	"context"
	"fmt"

	"cardano-pool-sentinel/internal/chain"
	"cardano-pool-sentinel/internal/domain"
)

// Policy check contributions.
const (
	ScorePlutusPolicy     = 0.1
	ScoreHighMintActivity = 0.2
	ScorePolicyUnverified = 0.15

	// MintActivityLimit is the mint/burn transaction count above which a
	// token looks suspicious.
	MintActivityLimit = 100
)

// checkPolicy inspects each token's minting policy script. Time-locked
// policies are safe; programmable policies need manual review; lookup
// failures are absorbed as a flat penalty.
func (e *Engine) checkPolicy(ctx context.Context, event *domain.PoolEvent) domain.CheckResult {
	var result domain.CheckResult

	for _, token := range pairTokens(event) {
		script, err := e.client.PolicyScript(ctx, token.PolicyID)
		if err != nil {
			result.Score += ScorePolicyUnverified
			result.Reasons = append(result.Reasons,
				fmt.Sprintf("%s: could not verify minting policy", label(token)))
			result.Unverified = true
		} else {
			switch script.Type {
			case chain.ScriptTypeTimelock:
				result.Reasons = append(result.Reasons,
					fmt.Sprintf("%s: time-locked minting policy", label(token)))
			case chain.ScriptTypePlutus:
				result.Score += ScorePlutusPolicy
				result.Reasons = append(result.Reasons,
					fmt.Sprintf("%s: programmable minting policy, needs manual review", label(token)))
			}
		}

		if token.MintOrBurnCount > MintActivityLimit {
			result.Score += ScoreHighMintActivity
			result.Reasons = append(result.Reasons,
				fmt.Sprintf("%s: many minting transactions (%d)", label(token), token.MintOrBurnCount))
		}
	}

	return result
}
