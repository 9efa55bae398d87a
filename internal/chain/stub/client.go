// Package stub provides a scriptable in-memory chain.Client for tests
// and dry runs.
package stub

import (
	"context"
	"sync"

	"cardano-pool-sentinel/internal/chain"
)

// Client implements chain.Client backed by in-memory maps. Zero values
// behave like an empty chain; lookups miss with chain.ErrNotFound.
// Err* fields, when set, are returned by the corresponding call to
// exercise failure paths.
type Client struct {
	mu sync.Mutex

	Tip          *chain.Block
	BlockTxs     map[int64][]string
	Transactions map[string]*chain.Transaction
	Outputs      map[string][]chain.TxOutput
	Assets       map[string]*chain.Asset
	Scripts      map[string]*chain.PolicyScript
	MintHistory  map[string][]chain.MintEvent

	ErrLatestBlock  error
	ErrBlockTxs     error
	ErrOutputs      error
	ErrAsset        error
	ErrScript       error
	ErrMintHistory  error
	LatestBlockCall int // number of LatestBlock invocations
}

// NewClient creates an empty stub client.
func NewClient() *Client {
	return &Client{
		BlockTxs:     make(map[int64][]string),
		Transactions: make(map[string]*chain.Transaction),
		Outputs:      make(map[string][]chain.TxOutput),
		Assets:       make(map[string]*chain.Asset),
		Scripts:      make(map[string]*chain.PolicyScript),
		MintHistory:  make(map[string][]chain.MintEvent),
	}
}

// Compile-time interface check.
var _ chain.Client = (*Client)(nil)

// NetworkStatus reports a healthy synced stub network.
func (c *Client) NetworkStatus(_ context.Context) (*chain.NetworkStatus, error) {
	return &chain.NetworkStatus{Network: "stub", SyncProgress: 1.0}, nil
}

// LatestBlock returns the configured tip.
func (c *Client) LatestBlock(_ context.Context) (*chain.Block, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.LatestBlockCall++
	if c.ErrLatestBlock != nil {
		return nil, c.ErrLatestBlock
	}
	if c.Tip == nil {
		return nil, chain.ErrNotFound
	}
	tip := *c.Tip
	return &tip, nil
}

// BlockTransactions returns the configured tx hashes for a height.
func (c *Client) BlockTransactions(_ context.Context, height int64) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ErrBlockTxs != nil {
		return nil, c.ErrBlockTxs
	}
	return c.BlockTxs[height], nil
}

// Transaction returns the configured transaction.
func (c *Client) Transaction(_ context.Context, hash string) (*chain.Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, ok := c.Transactions[hash]
	if !ok {
		return nil, chain.ErrNotFound
	}
	return tx, nil
}

// TransactionOutputs returns the configured outputs.
func (c *Client) TransactionOutputs(_ context.Context, hash string) ([]chain.TxOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ErrOutputs != nil {
		return nil, c.ErrOutputs
	}
	outs, ok := c.Outputs[hash]
	if !ok {
		return nil, chain.ErrNotFound
	}
	return outs, nil
}

// Asset returns the configured asset.
func (c *Client) Asset(_ context.Context, assetID string) (*chain.Asset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ErrAsset != nil {
		return nil, c.ErrAsset
	}
	asset, ok := c.Assets[assetID]
	if !ok {
		return nil, chain.ErrNotFound
	}
	return asset, nil
}

// PolicyScript returns the configured policy script.
func (c *Client) PolicyScript(_ context.Context, policyID string) (*chain.PolicyScript, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ErrScript != nil {
		return nil, c.ErrScript
	}
	script, ok := c.Scripts[policyID]
	if !ok {
		return nil, chain.ErrNotFound
	}
	return script, nil
}

// AssetMintHistory returns the configured mint events.
func (c *Client) AssetMintHistory(_ context.Context, assetID string) ([]chain.MintEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ErrMintHistory != nil {
		return nil, c.ErrMintHistory
	}
	events, ok := c.MintHistory[assetID]
	if !ok {
		return nil, chain.ErrNotFound
	}
	return events, nil
}

// SetTip sets the chain tip.
func (c *Client) SetTip(height int64, timeSec int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Tip = &chain.Block{Height: height, Hash: "stub-block", Time: timeSec}
}

// AddBlockTx registers a transaction in a block, with its outputs.
func (c *Client) AddBlockTx(height int64, hash string, outputs []chain.TxOutput) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.BlockTxs[height] = append(c.BlockTxs[height], hash)
	c.Transactions[hash] = &chain.Transaction{Hash: hash, BlockHeight: height}
	c.Outputs[hash] = outputs
}
