package tokens

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"cardano-pool-sentinel/internal/chain"
	"cardano-pool-sentinel/internal/chain/stub"
	"cardano-pool-sentinel/internal/domain"
)

const testUnit = "f0ff48bbb7bbe9d59a40f1ce90e9e9d0ff5002ec48f232b49ca0fb9a" + "54455354"

func TestResolve_Native(t *testing.T) {
	r := NewResolver(stub.NewClient(), nil)

	info := r.Resolve(context.Background(), domain.NativeUnit, decimal.NewFromInt(5_000_000))

	if !info.IsNative {
		t.Error("Expected native sentinel")
	}
	if info.Ticker != "ADA" {
		t.Errorf("Expected ADA ticker, got %s", info.Ticker)
	}
	if !info.RawQuantity.Equal(decimal.NewFromInt(5_000_000)) {
		t.Errorf("Expected quantity preserved, got %s", info.RawQuantity)
	}
}

func TestResolve_WithMetadata(t *testing.T) {
	client := stub.NewClient()
	client.Assets[testUnit] = &chain.Asset{
		AssetID:         testUnit,
		PolicyID:        testUnit[:56],
		AssetName:       testUnit[56:],
		Quantity:        "1000000000",
		MintOrBurnCount: 1,
		Metadata:        &chain.AssetMetadata{Name: "Test Coin", Ticker: "TST", Decimals: 6},
	}

	r := NewResolver(client, nil)
	info := r.Resolve(context.Background(), testUnit, decimal.NewFromInt(42))

	if info.Name != "Test Coin" {
		t.Errorf("Expected metadata name, got %q", info.Name)
	}
	if info.Ticker != "TST" || info.Decimals != 6 {
		t.Errorf("Expected metadata ticker/decimals, got %s/%d", info.Ticker, info.Decimals)
	}
	if info.PolicyID != testUnit[:56] {
		t.Errorf("Unexpected policy id %s", info.PolicyID)
	}
	if !info.Supply.Equal(decimal.NewFromInt(1000000000)) {
		t.Errorf("Unexpected supply %s", info.Supply)
	}
}

func TestResolve_LookupFailureFallsBack(t *testing.T) {
	client := stub.NewClient()
	client.ErrAsset = errors.New("provider down")

	r := NewResolver(client, nil)
	info := r.Resolve(context.Background(), testUnit, decimal.NewFromInt(7))

	if info.Name != domain.UnknownTokenName {
		t.Errorf("Expected fallback name, got %q", info.Name)
	}
	if info.PolicyID != testUnit[:56] {
		t.Errorf("Expected truncated policy id, got %s", info.PolicyID)
	}
	if info.MintOrBurnCount != 0 || !info.Supply.IsZero() {
		t.Error("Fallback must zero risk-relevant fields")
	}
	if !info.RawQuantity.Equal(decimal.NewFromInt(7)) {
		t.Errorf("Expected quantity preserved, got %s", info.RawQuantity)
	}
}

func TestResolve_DecodesHexAssetName(t *testing.T) {
	client := stub.NewClient()
	client.Assets[testUnit] = &chain.Asset{
		AssetID:   testUnit,
		PolicyID:  testUnit[:56],
		AssetName: testUnit[56:], // hex for "TEST"
		Quantity:  "1",
	}

	r := NewResolver(client, nil)
	info := r.Resolve(context.Background(), testUnit, decimal.Zero)

	if !strings.EqualFold(info.Name, "TEST") {
		t.Errorf("Expected decoded asset name TEST, got %q", info.Name)
	}
}

func TestResolve_Cached(t *testing.T) {
	client := stub.NewClient()
	client.Assets[testUnit] = &chain.Asset{
		AssetID:  testUnit,
		PolicyID: testUnit[:56],
		Quantity: "10",
		Metadata: &chain.AssetMetadata{Name: "Once"},
	}

	r := NewResolver(client, nil)
	first := r.Resolve(context.Background(), testUnit, decimal.NewFromInt(1))

	// Remove the asset; the cache should still serve it.
	delete(client.Assets, testUnit)
	second := r.Resolve(context.Background(), testUnit, decimal.NewFromInt(2))

	if second.Name != first.Name {
		t.Errorf("Expected cached name %q, got %q", first.Name, second.Name)
	}
	if !second.RawQuantity.Equal(decimal.NewFromInt(2)) {
		t.Error("Quantity must reflect the current call, not the cached one")
	}
}
