// Package chain provides read access to the blockchain data provider.
// The pipeline consumes the Client interface; concrete implementations
// are the REST HTTPClient here and the scriptable stub in chain/stub.
package chain

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the provider has no record for the
// requested entity (missing asset, unknown script hash, and so on).
var ErrNotFound = errors.New("chain: not found")

// NetworkStatus reports provider health and network identification.
type NetworkStatus struct {
	Network      string  // "mainnet", "preprod", ...
	SyncProgress float64 // 0..1
}

// Block is a chain block header.
type Block struct {
	Height int64
	Hash   string
	Time   int64 // Unix timestamp in seconds
}

// Transaction is the subset of transaction data the pipeline needs.
type Transaction struct {
	Hash        string
	BlockHeight int64
	BlockTime   int64 // Unix timestamp in seconds
}

// TxAmount is one value entry of a transaction output. Quantity is the
// raw on-chain amount as a decimal string; asset quantities routinely
// exceed int64.
type TxAmount struct {
	Unit     string `json:"unit"`
	Quantity string `json:"quantity"`
}

// TxOutput is one output of a transaction.
type TxOutput struct {
	Address string     `json:"address"`
	Amounts []TxAmount `json:"amount"`
}

// AssetMetadata is optional off-chain registry metadata for an asset.
type AssetMetadata struct {
	Name     string `json:"name"`
	Ticker   string `json:"ticker"`
	Decimals int    `json:"decimals"`
}

// Asset describes a native asset.
type Asset struct {
	AssetID         string         `json:"asset"`
	PolicyID        string         `json:"policy_id"`
	AssetName       string         `json:"asset_name"`
	Quantity        string         `json:"quantity"`
	MintOrBurnCount int            `json:"mint_or_burn_count"`
	Metadata        *AssetMetadata `json:"metadata"`
}

// Policy script types.
const (
	ScriptTypeTimelock = "timelock"
	ScriptTypePlutus   = "plutus"
)

// PolicyScript is the on-chain script governing an asset's minting.
type PolicyScript struct {
	ScriptHash string `json:"script_hash"`
	Type       string `json:"type"`
}

// MintEvent is one mint or burn of an asset.
type MintEvent struct {
	TxHash string `json:"tx_hash"`
	Action string `json:"action"` // "minted" | "burned"
}

// Client is the Chain Data Port consumed by the scanning pipeline.
// All calls are blocking and honor context cancellation.
type Client interface {
	// NetworkStatus returns provider health and network identification.
	NetworkStatus(ctx context.Context) (*NetworkStatus, error)

	// LatestBlock returns the current chain tip.
	LatestBlock(ctx context.Context) (*Block, error)

	// BlockTransactions returns the hashes of all transactions in the
	// block at the given height.
	BlockTransactions(ctx context.Context, height int64) ([]string, error)

	// Transaction returns transaction-level data for a hash.
	Transaction(ctx context.Context, hash string) (*Transaction, error)

	// TransactionOutputs returns the outputs of a transaction.
	TransactionOutputs(ctx context.Context, hash string) ([]TxOutput, error)

	// Asset returns asset details for a unit (policy id + asset name).
	Asset(ctx context.Context, assetID string) (*Asset, error)

	// PolicyScript returns the minting policy script for a policy id.
	PolicyScript(ctx context.Context, policyID string) (*PolicyScript, error)

	// AssetMintHistory returns mint/burn events for an asset, ordered
	// earliest-first.
	AssetMintHistory(ctx context.Context, assetID string) ([]MintEvent, error)
}
