// Package tokens resolves on-chain asset units into domain.TokenInfo.
package tokens

import (
	"context"
	"encoding/hex"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"cardano-pool-sentinel/internal/chain"
	"cardano-pool-sentinel/internal/domain"
)

// Resolver resolves asset units via the Chain Data Port, with a
// process-lifetime cache. Resolution never fails: any lookup error
// degrades to the domain.UnknownToken fallback.
type Resolver struct {
	client chain.Client
	logger *logrus.Logger

	mu    sync.RWMutex
	cache map[string]domain.TokenInfo // keyed by unit, without quantity
}

// NewResolver creates a new Resolver.
func NewResolver(client chain.Client, logger *logrus.Logger) *Resolver {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Resolver{
		client: client,
		logger: logger,
		cache:  make(map[string]domain.TokenInfo),
	}
}

// Resolve returns TokenInfo for a unit and the raw quantity observed in
// the pool outputs. The native unit resolves to the base-currency
// sentinel without a network call.
func (r *Resolver) Resolve(ctx context.Context, unit string, rawQuantity decimal.Decimal) domain.TokenInfo {
	if unit == domain.NativeUnit {
		return domain.NativeToken(rawQuantity)
	}

	r.mu.RLock()
	cached, ok := r.cache[unit]
	r.mu.RUnlock()
	if ok {
		cached.RawQuantity = rawQuantity
		return cached
	}

	info := r.lookup(ctx, unit)

	r.mu.Lock()
	r.cache[unit] = info
	r.mu.Unlock()

	info.RawQuantity = rawQuantity
	return info
}

// lookup fetches asset details, degrading to the fallback on any error.
func (r *Resolver) lookup(ctx context.Context, unit string) domain.TokenInfo {
	asset, err := r.client.Asset(ctx, unit)
	if err != nil {
		r.logger.WithFields(logrus.Fields{
			"unit":  unit,
			"error": err,
		}).Warn("Asset lookup failed, using fallback token info")
		return domain.UnknownToken(unit, decimal.Zero)
	}

	supply, err := decimal.NewFromString(asset.Quantity)
	if err != nil {
		supply = decimal.Zero
	}

	info := domain.TokenInfo{
		Name:            displayName(asset),
		PolicyID:        asset.PolicyID,
		AssetName:       asset.AssetName,
		Supply:          supply,
		MintOrBurnCount: asset.MintOrBurnCount,
	}
	if asset.Metadata != nil {
		info.Ticker = asset.Metadata.Ticker
		info.Decimals = asset.Metadata.Decimals
	}
	return info
}

// displayName picks the best available human-readable name.
func displayName(asset *chain.Asset) string {
	if asset.Metadata != nil && asset.Metadata.Name != "" {
		return asset.Metadata.Name
	}
	// Asset names are hex-encoded on the wire; decode when printable.
	if decoded, err := hex.DecodeString(asset.AssetName); err == nil && len(decoded) > 0 {
		printable := true
		for _, b := range decoded {
			if b < 0x20 || b > 0x7e {
				printable = false
				break
			}
		}
		if printable {
			return string(decoded)
		}
	}
	return ""
}
