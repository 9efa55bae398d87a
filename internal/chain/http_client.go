package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// Default configuration values.
const (
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRetries  = 3
	DefaultRetryDelay  = 1 * time.Second
	DefaultMaxDelay    = 10 * time.Second
	DefaultBackoffMult = 2.0
	DefaultRateLimit   = 10 // requests per second
)

// HTTPClient implements Client against a Blockfrost-style REST API.
type HTTPClient struct {
	baseURL     string
	projectKey  string
	client      *http.Client
	limiter     *rate.Limiter
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
}

// ClientOption configures HTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *HTTPClient) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.retryDelay = d
	}
}

// WithRateLimit sets the client-side request budget in requests/second.
// Hosted chain APIs enforce one; staying under it avoids burning retries
// on 429 responses.
func WithRateLimit(rps float64) ClientOption {
	return func(c *HTTPClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), int(rps))
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.client = client
	}
}

// NewHTTPClient creates a new chain REST client.
func NewHTTPClient(baseURL, projectKey string, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		baseURL:     baseURL,
		projectKey:  projectKey,
		client:      &http.Client{Timeout: DefaultTimeout},
		limiter:     rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxDelay:    DefaultMaxDelay,
		backoffMult: DefaultBackoffMult,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile-time interface check.
var _ Client = (*HTTPClient)(nil)

// get performs a GET with rate limiting, retries and exponential backoff,
// decoding the JSON response into result. 404 maps to ErrNotFound and is
// not retried; RPC-side 4xx errors other than 429 are not retried either.
func (c *HTTPClient) get(ctx context.Context, path string, result interface{}) error {
	endpoint := c.baseURL + path

	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			// Exponential backoff
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		if c.projectKey != "" {
			req.Header.Set("project_id", c.projectKey)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return ErrNotFound
		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = fmt.Errorf("rate limited (429)")
			continue
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			return fmt.Errorf("request rejected (%d): %s", resp.StatusCode, string(body))
		case resp.StatusCode != http.StatusOK:
			lastErr = fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
			continue
		}

		if result != nil {
			if err := json.Unmarshal(body, result); err != nil {
				return fmt.Errorf("unmarshal response: %w", err)
			}
		}

		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// NetworkStatus returns provider health and network identification.
func (c *HTTPClient) NetworkStatus(ctx context.Context) (*NetworkStatus, error) {
	var raw struct {
		IsHealthy bool `json:"is_healthy"`
	}
	if err := c.get(ctx, "/health", &raw); err != nil {
		return nil, err
	}

	status := &NetworkStatus{Network: "mainnet"}
	if raw.IsHealthy {
		status.SyncProgress = 1.0
	}
	return status, nil
}

// LatestBlock returns the current chain tip.
func (c *HTTPClient) LatestBlock(ctx context.Context) (*Block, error) {
	var raw struct {
		Height int64  `json:"height"`
		Hash   string `json:"hash"`
		Time   int64  `json:"time"`
	}
	if err := c.get(ctx, "/blocks/latest", &raw); err != nil {
		return nil, err
	}
	return &Block{Height: raw.Height, Hash: raw.Hash, Time: raw.Time}, nil
}

// BlockTransactions returns the hashes of transactions in a block.
func (c *HTTPClient) BlockTransactions(ctx context.Context, height int64) ([]string, error) {
	var hashes []string
	path := fmt.Sprintf("/blocks/%d/txs", height)
	if err := c.get(ctx, path, &hashes); err != nil {
		return nil, err
	}
	return hashes, nil
}

// Transaction returns transaction-level data for a hash.
func (c *HTTPClient) Transaction(ctx context.Context, hash string) (*Transaction, error) {
	var raw struct {
		Hash        string `json:"hash"`
		BlockHeight int64  `json:"block_height"`
		BlockTime   int64  `json:"block_time"`
	}
	if err := c.get(ctx, "/txs/"+url.PathEscape(hash), &raw); err != nil {
		return nil, err
	}
	return &Transaction{Hash: raw.Hash, BlockHeight: raw.BlockHeight, BlockTime: raw.BlockTime}, nil
}

// TransactionOutputs returns the outputs of a transaction.
func (c *HTTPClient) TransactionOutputs(ctx context.Context, hash string) ([]TxOutput, error) {
	var raw struct {
		Outputs []TxOutput `json:"outputs"`
	}
	if err := c.get(ctx, "/txs/"+url.PathEscape(hash)+"/utxos", &raw); err != nil {
		return nil, err
	}
	return raw.Outputs, nil
}

// Asset returns asset details for a unit.
func (c *HTTPClient) Asset(ctx context.Context, assetID string) (*Asset, error) {
	var asset Asset
	if err := c.get(ctx, "/assets/"+url.PathEscape(assetID), &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

// PolicyScript returns the minting policy script for a policy id.
func (c *HTTPClient) PolicyScript(ctx context.Context, policyID string) (*PolicyScript, error) {
	var raw struct {
		ScriptHash string `json:"script_hash"`
		Type       string `json:"type"`
	}
	if err := c.get(ctx, "/scripts/"+url.PathEscape(policyID), &raw); err != nil {
		return nil, err
	}

	script := &PolicyScript{ScriptHash: raw.ScriptHash, Type: raw.Type}
	// Providers report plutus scripts with versioned type strings.
	if len(raw.Type) >= len(ScriptTypePlutus) && raw.Type[:len(ScriptTypePlutus)] == ScriptTypePlutus {
		script.Type = ScriptTypePlutus
	}
	return script, nil
}

// AssetMintHistory returns mint/burn events for an asset, earliest-first.
func (c *HTTPClient) AssetMintHistory(ctx context.Context, assetID string) ([]MintEvent, error) {
	var events []MintEvent
	path := "/assets/" + url.PathEscape(assetID) + "/history?order=asc"
	if err := c.get(ctx, path, &events); err != nil {
		return nil, err
	}
	return events, nil
}
