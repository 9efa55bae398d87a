package risk

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"cardano-pool-sentinel/internal/domain"
)

// Liquidity check contributions and bands.
const (
	ScoreLowLiquidity = 0.3
	ScoreExtremeRatio = 0.4
	ScoreHighRatio    = 0.2

	LowLiquidityADA  = 1_000
	GoodLiquidityADA = 10_000
)

// Ratio bands, larger over smaller raw token quantity.
var (
	extremeRatio = decimal.NewFromInt(1_000_000)
	highRatio    = decimal.NewFromInt(10_000)
)

// checkLiquidity runs two independent sub-checks: the absolute
// base-currency liquidity band and the raw token quantity ratio. Both
// contribute; neither needs a network call.
func (e *Engine) checkLiquidity(_ context.Context, event *domain.PoolEvent) domain.CheckResult {
	var result domain.CheckResult

	switch {
	case event.LiquidityADA < LowLiquidityADA:
		result.Score += ScoreLowLiquidity
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("low liquidity (%.0f ADA)", event.LiquidityADA))
	case event.LiquidityADA > GoodLiquidityADA:
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("good liquidity (%.0f ADA)", event.LiquidityADA))
	default:
		result.Reasons = append(result.Reasons,
			fmt.Sprintf("moderate liquidity (%.0f ADA)", event.LiquidityADA))
	}

	ratio, ok := quantityRatio(event.TokenA.RawQuantity, event.TokenB.RawQuantity)
	switch {
	case !ok || ratio.GreaterThan(extremeRatio):
		result.Score += ScoreExtremeRatio
		result.Reasons = append(result.Reasons, "extreme token ratio")
	case ratio.GreaterThan(highRatio):
		result.Score += ScoreHighRatio
		result.Reasons = append(result.Reasons, "high token ratio")
	default:
		result.Reasons = append(result.Reasons, "normal token ratio")
	}

	return result
}

// quantityRatio returns larger/smaller of the two raw quantities.
// ok is false when the smaller quantity is zero (degenerate pool,
// treated as extreme by the caller).
func quantityRatio(a, b decimal.Decimal) (decimal.Decimal, bool) {
	lo, hi := a, b
	if lo.GreaterThan(hi) {
		lo, hi = hi, lo
	}
	if lo.IsZero() {
		return decimal.Zero, false
	}
	return hi.Div(lo), true
}
