package risk

import (
	"context"
	"fmt"
	"strings"

	"cardano-pool-sentinel/internal/domain"
)

// Metadata check contributions.
const (
	ScoreDenylistName = 0.25
	ScoreMissingName  = 0.15
)

// nameDenylist holds substrings that flag a token name as suspicious.
var nameDenylist = []string{
	"test", "fake", "scam", "rug", "honeypot", "moon", "safe", "baby",
}

// checkMetadata tests each token's display name against the denylist and
// flags missing or placeholder names. Both sub-checks are independent.
func (e *Engine) checkMetadata(_ context.Context, event *domain.PoolEvent) domain.CheckResult {
	var result domain.CheckResult

	for _, token := range pairTokens(event) {
		name := strings.ToLower(token.Name)

		for _, word := range nameDenylist {
			if strings.Contains(name, word) {
				result.Score += ScoreDenylistName
				result.Reasons = append(result.Reasons,
					fmt.Sprintf("%s: suspicious name (contains %q)", label(token), word))
				break
			}
		}

		if token.Name == "" || token.Name == domain.UnknownTokenName {
			result.Score += ScoreMissingName
			result.Reasons = append(result.Reasons,
				fmt.Sprintf("%s: no proper metadata", label(token)))
		} else {
			result.Reasons = append(result.Reasons,
				fmt.Sprintf("%s: named token", label(token)))
		}
	}

	return result
}
