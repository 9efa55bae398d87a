// Package discovery contains the pool-creation matcher and the pool
// deduplication ledger.
package discovery

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"cardano-pool-sentinel/internal/chain"
	"cardano-pool-sentinel/internal/dex"
	"cardano-pool-sentinel/internal/domain"
	"cardano-pool-sentinel/internal/idhash"
)

// TokenResolver resolves an asset unit into TokenInfo. Resolution must
// not fail; lookup errors degrade to the fallback token.
type TokenResolver interface {
	Resolve(ctx context.Context, unit string, rawQuantity decimal.Decimal) domain.TokenInfo
}

// Matcher decides whether a transaction created a new pool for some
// exchange in the registry.
type Matcher struct {
	registry        dex.Registry
	resolver        TokenResolver
	minLiquidityADA float64
}

// NewMatcher creates a new Matcher.
func NewMatcher(registry dex.Registry, resolver TokenResolver, minLiquidityADA float64) *Matcher {
	return &Matcher{
		registry:        registry,
		resolver:        resolver,
		minLiquidityADA: minLiquidityADA,
	}
}

// Match inspects a transaction's outputs against the registry and
// extracts a normalized PoolEvent if the transaction created a pool.
// Exchanges are checked in registry order; the first with matching
// outputs wins. Returns nil if no exchange matched, liquidity is below
// the configured minimum, or fewer than two distinct tokens were found.
func (m *Matcher) Match(ctx context.Context, tx *chain.Transaction, outputs []chain.TxOutput) *domain.PoolEvent {
	for _, d := range m.registry {
		if event := m.matchDex(ctx, d, tx, outputs); event != nil {
			return event
		}
	}
	return nil
}

// matchDex checks one exchange's criteria against the outputs.
func (m *Matcher) matchDex(ctx context.Context, d dex.Descriptor, tx *chain.Transaction, outputs []chain.TxOutput) *domain.PoolEvent {
	var matched []chain.TxOutput
	for _, out := range outputs {
		if outputMatches(d, out.Address) {
			matched = append(matched, out)
		}
	}
	if len(matched) == 0 {
		return nil
	}

	// Accumulate base-currency liquidity across matched outputs and
	// collect the first two distinct non-native units in encounter
	// order. Further units are ignored.
	lovelace := decimal.Zero
	var unitA, unitB string
	qtyByUnit := make(map[string]decimal.Decimal)

	for _, out := range matched {
		for _, amt := range out.Amounts {
			qty, err := decimal.NewFromString(amt.Quantity)
			if err != nil {
				continue
			}

			if amt.Unit == domain.NativeUnit {
				lovelace = lovelace.Add(qty)
				continue
			}

			switch amt.Unit {
			case unitA, unitB:
				qtyByUnit[amt.Unit] = qtyByUnit[amt.Unit].Add(qty)
			default:
				if unitA == "" {
					unitA = amt.Unit
					qtyByUnit[amt.Unit] = qty
				} else if unitB == "" {
					unitB = amt.Unit
					qtyByUnit[amt.Unit] = qty
				}
			}
		}
	}

	liquidityADA, _ := lovelace.Div(decimal.NewFromInt(domain.LovelacePerADA)).Float64()
	if liquidityADA < m.minLiquidityADA {
		return nil
	}
	if unitA == "" || unitB == "" {
		return nil
	}

	tokenA := m.resolver.Resolve(ctx, unitA, qtyByUnit[unitA])
	tokenB := m.resolver.Resolve(ctx, unitB, qtyByUnit[unitB])

	return &domain.PoolEvent{
		PoolID:       idhash.ComputePoolID(d.Name, tokenA.PolicyID, tokenB.PolicyID),
		Dex:          d.Name,
		TxHash:       tx.Hash,
		BlockHeight:  tx.BlockHeight,
		TokenA:       tokenA,
		TokenB:       tokenB,
		LiquidityADA: liquidityADA,
		CreatedAt:    tx.BlockTime * 1000,
		PoolAddress:  matched[0].Address,
	}
}

// outputMatches reports whether an output address belongs to the
// exchange: exact pool address match, or any script-hash fingerprint
// contained in the address encoding.
func outputMatches(d dex.Descriptor, address string) bool {
	if address == d.PoolAddress {
		return true
	}
	for _, h := range d.ScriptHashes {
		if h != "" && strings.Contains(address, h) {
			return true
		}
	}
	return false
}
