package risk

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"cardano-pool-sentinel/internal/chain"
	"cardano-pool-sentinel/internal/chain/stub"
	"cardano-pool-sentinel/internal/domain"
)

var (
	policyA = strings.Repeat("1", 56)
	policyB = strings.Repeat("2", 56)
)

// makeToken builds a non-native token for scoring tests.
func makeToken(policyID, name string, quantity int64) domain.TokenInfo {
	return domain.TokenInfo{
		Name:        name,
		PolicyID:    policyID,
		RawQuantity: decimal.NewFromInt(quantity),
	}
}

// seedToken registers timelock policy and an old first mint for a token.
func seedToken(client *stub.Client, token domain.TokenInfo, mintHeight int64) {
	client.Scripts[token.PolicyID] = &chain.PolicyScript{Type: chain.ScriptTypeTimelock}
	mintTx := "mint-" + token.PolicyID[:8]
	client.MintHistory[token.Unit()] = []chain.MintEvent{{TxHash: mintTx, Action: "minted"}}
	client.Transactions[mintTx] = &chain.Transaction{Hash: mintTx, BlockHeight: mintHeight}
}

func TestAssess_CleanPool(t *testing.T) {
	// Liquidity 15000, ratio 2, clean names, timelock policies, first
	// mint 500 blocks before the pool: no risk at all.
	client := stub.NewClient()
	tokenA := makeToken(policyA, "Alpha Coin", 1000)
	tokenB := makeToken(policyB, "Beta Coin", 2000)
	seedToken(client, tokenA, 500)
	seedToken(client, tokenB, 500)

	event := &domain.PoolEvent{
		PoolID:       "pool-clean",
		Dex:          "Minswap",
		BlockHeight:  1000,
		TokenA:       tokenA,
		TokenB:       tokenB,
		LiquidityADA: 15000,
	}

	engine := NewEngine(client, nil)
	a := engine.Assess(context.Background(), event)

	if a.Score != 0 {
		t.Errorf("Expected zero risk, got %f: %v", a.Score, a.Reasons)
	}
	if a.Recommendation == domain.ErrorAnalysisFailed {
		t.Error("Clean assessment must not fail")
	}
	if len(a.Checks) != 4 {
		t.Errorf("Expected 4 check results, got %d", len(a.Checks))
	}
}

func TestAssess_ScamPool(t *testing.T) {
	// Liquidity 500, ratio 2,000,000, denylisted name, minted 3 blocks
	// before the pool: 0.3 + 0.4 + 0.25 + 0.3 = 1.25 minimum.
	client := stub.NewClient()
	token := makeToken(policyB, "MoonBabySafe", 2_000_000_000)
	seedToken(client, token, 997)

	event := &domain.PoolEvent{
		PoolID:       "pool-scam",
		Dex:          "Minswap",
		BlockHeight:  1000,
		TokenA:       domain.NativeToken(decimal.NewFromInt(1000)),
		TokenB:       token,
		LiquidityADA: 500,
	}

	engine := NewEngine(client, nil)
	a := engine.Assess(context.Background(), event)

	if a.Score < 1.25 {
		t.Errorf("Expected score >= 1.25, got %f: %v", a.Score, a.Reasons)
	}
	for name, want := range map[string]float64{
		CheckLiquidity: ScoreLowLiquidity + ScoreExtremeRatio,
		CheckMinting:   ScoreRecentMint,
		CheckMetadata:  ScoreDenylistName,
	} {
		if got := a.Checks[name].Score; math.Abs(got-want) > 1e-9 {
			t.Errorf("Check %s: expected %f, got %f", name, want, got)
		}
	}
}

func TestAssess_NativeTokenExempt(t *testing.T) {
	// The native slot never contributes to checks 1, 3 and 4.
	client := stub.NewClient()
	token := makeToken(policyB, "Beta Coin", 100)
	seedToken(client, token, 0)

	event := &domain.PoolEvent{
		PoolID:       "pool-native",
		Dex:          "Minswap",
		BlockHeight:  1000,
		TokenA:       domain.NativeToken(decimal.NewFromInt(200)),
		TokenB:       token,
		LiquidityADA: 15000,
	}

	engine := NewEngine(client, nil)
	a := engine.Assess(context.Background(), event)

	for _, name := range []string{CheckPolicy, CheckMinting, CheckMetadata} {
		for _, reason := range a.Checks[name].Reasons {
			if strings.Contains(reason, "ADA") || strings.Contains(reason, "Cardano") {
				t.Errorf("Check %s mentions the native token: %q", name, reason)
			}
		}
	}
	// Only the single non-native token produces per-token reasons.
	if n := len(a.Checks[CheckMetadata].Reasons); n != 1 {
		t.Errorf("Expected 1 metadata reason, got %d: %v", n, a.Checks[CheckMetadata].Reasons)
	}
}

func TestAssess_ScoreMonotonicity(t *testing.T) {
	// Adding one more risk-triggering condition never decreases the
	// aggregate score.
	client := stub.NewClient()
	tokenA := makeToken(policyA, "Alpha Coin", 1000)
	tokenB := makeToken(policyB, "Beta Coin", 2000)
	seedToken(client, tokenA, 500)
	seedToken(client, tokenB, 500)

	base := &domain.PoolEvent{
		PoolID:       "pool-mono",
		Dex:          "Minswap",
		BlockHeight:  1000,
		TokenA:       tokenA,
		TokenB:       tokenB,
		LiquidityADA: 15000,
	}

	engine := NewEngine(client, nil)
	baseScore := engine.Assess(context.Background(), base).Score

	worse := *base
	worse.TokenB.MintOrBurnCount = MintActivityLimit + 1
	worseScore := engine.Assess(context.Background(), &worse).Score

	if worseScore < baseScore {
		t.Errorf("Score decreased after adding a risk condition: %f -> %f", baseScore, worseScore)
	}
	if math.Abs(worseScore-baseScore-ScoreHighMintActivity) > 1e-9 {
		t.Errorf("Expected exactly +%f, got delta %f", ScoreHighMintActivity, worseScore-baseScore)
	}
}

func TestAssess_UnknownTokenFallback(t *testing.T) {
	// A token whose lookup failed upstream still scores: the missing
	// metadata penalty applies and policy/minting absorb their lookup
	// failures rather than failing the whole assessment.
	client := stub.NewClient()
	client.ErrScript = errors.New("provider down")
	client.ErrMintHistory = errors.New("provider down")

	unknown := domain.UnknownToken(policyB+"4142", decimal.NewFromInt(10))
	tokenA := makeToken(policyA, "Alpha Coin", 1000)
	client.Scripts[policyA] = &chain.PolicyScript{Type: chain.ScriptTypeTimelock}

	event := &domain.PoolEvent{
		PoolID:       "pool-unknown",
		Dex:          "Minswap",
		BlockHeight:  1000,
		TokenA:       tokenA,
		TokenB:       unknown,
		LiquidityADA: 15000,
	}

	engine := NewEngine(client, nil)
	a := engine.Assess(context.Background(), event)

	if a.Recommendation == domain.ErrorAnalysisFailed {
		t.Fatal("Absorbed lookup failures must not fail the assessment")
	}
	if got := a.Checks[CheckMetadata].Score; got < ScoreMissingName {
		t.Errorf("Expected missing-metadata penalty, got %f", got)
	}
	if !a.Checks[CheckMinting].Unverified {
		t.Error("Minting check should be flagged unverified")
	}
	found := false
	for _, reason := range a.Reasons {
		if strings.Contains(reason, "could not verify") {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("Expected a could-not-verify reason, got %v", a.Reasons)
	}
}

// panickyClient triggers the engine's invariant-violation path.
type panickyClient struct {
	*stub.Client
}

func (panickyClient) AssetMintHistory(context.Context, string) ([]chain.MintEvent, error) {
	panic("corrupted mint index")
}

func TestAssess_PanicYieldsAnalysisFailed(t *testing.T) {
	client := panickyClient{stub.NewClient()}
	tokenA := makeToken(policyA, "Alpha Coin", 1000)
	tokenB := makeToken(policyB, "Beta Coin", 2000)
	client.Scripts[policyA] = &chain.PolicyScript{Type: chain.ScriptTypeTimelock}
	client.Scripts[policyB] = &chain.PolicyScript{Type: chain.ScriptTypeTimelock}

	event := &domain.PoolEvent{
		PoolID:       "pool-panic",
		Dex:          "Minswap",
		BlockHeight:  1000,
		TokenA:       tokenA,
		TokenB:       tokenB,
		LiquidityADA: 500,
	}

	engine := NewEngine(client, nil)
	a := engine.Assess(context.Background(), event)

	if a.Recommendation != domain.ErrorAnalysisFailed {
		t.Errorf("Expected ERROR_ANALYSIS_FAILED, got %q", a.Recommendation)
	}
	// Checks that ran before the panic keep their contributions.
	if a.Checks[CheckLiquidity].Score != ScoreLowLiquidity {
		t.Errorf("Expected partial liquidity score preserved, got %f", a.Checks[CheckLiquidity].Score)
	}
}
