package domain

import "github.com/shopspring/decimal"

// On-chain unit constants for the base currency.
const (
	// NativeUnit is the unit string the chain API uses for the base currency.
	NativeUnit = "lovelace"
	// LovelacePerADA converts the smallest on-chain denomination to ADA.
	LovelacePerADA = 1_000_000
	// PolicyIDLen is the hex length of a minting policy identifier.
	PolicyIDLen = 56
)

// UnknownTokenName is the placeholder name for tokens whose metadata
// lookup failed. The metadata risk check treats it as a missing name.
const UnknownTokenName = "Unknown Token"

// TokenInfo describes one asset held by a pool-creation output.
type TokenInfo struct {
	Name            string
	Ticker          string
	PolicyID        string
	AssetName       string // hex-encoded asset name suffix
	Decimals        int
	IsNative        bool
	Supply          decimal.Decimal // total supply in raw units
	MintOrBurnCount int
	RawQuantity     decimal.Decimal // raw amount in the matched outputs
}

// NativeToken returns the base-currency sentinel. It requires no network
// lookup and is exempt from all per-token risk checks.
func NativeToken(rawQuantity decimal.Decimal) TokenInfo {
	return TokenInfo{
		Name:        "Cardano",
		Ticker:      "ADA",
		Decimals:    6,
		IsNative:    true,
		RawQuantity: rawQuantity,
	}
}

// UnknownToken returns the lookup-failure fallback for an asset unit.
// The policy id is truncated from the raw unit and the risk-relevant
// fields are zeroed. It never fails, whatever the input looks like.
func UnknownToken(unit string, rawQuantity decimal.Decimal) TokenInfo {
	policyID := unit
	if len(policyID) > PolicyIDLen {
		policyID = policyID[:PolicyIDLen]
	}
	assetName := ""
	if len(unit) > PolicyIDLen {
		assetName = unit[PolicyIDLen:]
	}
	return TokenInfo{
		Name:        UnknownTokenName,
		PolicyID:    policyID,
		AssetName:   assetName,
		RawQuantity: rawQuantity,
	}
}

// Unit returns the concatenated on-chain asset identifier.
func (t TokenInfo) Unit() string {
	if t.IsNative {
		return NativeUnit
	}
	return t.PolicyID + t.AssetName
}
