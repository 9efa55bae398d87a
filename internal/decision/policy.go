package decision

import "cardano-pool-sentinel/internal/domain"

// DefaultThreshold gates trading when no threshold is configured.
const DefaultThreshold = 0.5

// Decide applies the acceptance boundary to a raw score. The boundary
// is inclusive: a score exactly at the threshold is still safe. Decide
// knows nothing about how the score was produced.
func Decide(score, threshold float64) domain.Recommendation {
	if score <= threshold {
		return domain.SafeToTrade
	}
	return domain.TooRisky
}
