package domain

// PoolEvent is the unit of work for risk scoring: a newly created DEX
// liquidity pool extracted from a single transaction.
type PoolEvent struct {
	PoolID       string  // deterministic identity, see internal/idhash
	Dex          string  // exchange name from the registry
	TxHash       string  // source transaction hash
	BlockHeight  int64   // block the transaction landed in
	TokenA       TokenInfo
	TokenB       TokenInfo
	LiquidityADA float64 // base-currency liquidity across matched outputs
	CreatedAt    int64   // Unix timestamp in milliseconds
	PoolAddress  string  // settlement address of the matched output
}
