package risk

import (
	"context"
	"fmt"

	"cardano-pool-sentinel/internal/domain"
)

// Minting-recency check contributions.
const (
	ScoreRecentMint     = 0.3
	ScoreMintUnverified = 0.1

	// RecentMintBlocks is the block-height delta under which a token's
	// first mint counts as "very recent".
	RecentMintBlocks = 10
)

// checkMinting compares each token's first mint against the pool's
// creation block. Tokens minted moments before their pool appears are a
// classic rug-pull setup. Lookup failures are absorbed as a flat penalty.
func (e *Engine) checkMinting(ctx context.Context, event *domain.PoolEvent) domain.CheckResult {
	var result domain.CheckResult

	for _, token := range pairTokens(event) {
		history, err := e.client.AssetMintHistory(ctx, token.Unit())
		if err != nil {
			result.Score += ScoreMintUnverified
			result.Reasons = append(result.Reasons,
				fmt.Sprintf("%s: could not verify mint history", label(token)))
			result.Unverified = true
			continue
		}
		if len(history) == 0 {
			continue
		}

		// History is ordered earliest-first; resolve the first mint's
		// block height.
		firstMint, err := e.client.Transaction(ctx, history[0].TxHash)
		if err != nil {
			result.Score += ScoreMintUnverified
			result.Reasons = append(result.Reasons,
				fmt.Sprintf("%s: could not verify mint history", label(token)))
			result.Unverified = true
			continue
		}

		age := event.BlockHeight - firstMint.BlockHeight
		if age < RecentMintBlocks {
			result.Score += ScoreRecentMint
			result.Reasons = append(result.Reasons,
				fmt.Sprintf("%s: minted very recently (%d blocks before pool)", label(token), age))
		} else {
			result.Reasons = append(result.Reasons,
				fmt.Sprintf("%s: minted %d blocks before pool", label(token), age))
		}
	}

	return result
}
