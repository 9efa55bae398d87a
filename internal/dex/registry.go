// Package dex holds the static table of known exchanges. Pure data:
// matching logic lives in internal/discovery.
package dex

// Descriptor describes one known exchange.
type Descriptor struct {
	Name         string
	PoolAddress  string   // canonical pool/factory address
	ScriptHashes []string // script-hash fingerprints matched as address substrings
	Fee          float64  // protocol fee as a fraction
}

// Registry is an ordered list of exchanges. Iteration order is part of
// the contract: when a transaction could match more than one exchange,
// the first descriptor wins.
type Registry []Descriptor

// Known mainnet exchange fingerprints.
const (
	minswapScriptHash    = "e1317b152faac13426e6a83e06ff88a4d62cce3c1634ab0a5ec13309"
	sundaeswapScriptHash = "4020e7fc2de75a0729c3cc3af715b34d98381e0cdbcfa99c950bc3ac"
	wingridersScriptHash = "e6c90a5923713af5786963dee0fdffd830ca7e0c86a041d9e5833e91"
	muesliswapScriptHash = "7045237d1eb0199a84dffbe2b35fb7b9d66de5ff17c7f49571e80f90"
)

// Default returns the built-in registry of known mainnet exchanges.
// Order is deliberate and pinned by tests.
func Default() Registry {
	return Registry{
		{
			Name:         "Minswap",
			PoolAddress:  "addr1z8snz7c4974vzdpxu65ruphl3zjdvtxw8strf2c2tmqnxz2j2c79gy9l76sdg0xwhd7r0c0kna0tycz4y5s6mlenh8pq0xmsha",
			ScriptHashes: []string{minswapScriptHash},
			Fee:          0.003,
		},
		{
			Name:         "SundaeSwap",
			PoolAddress:  "addr1w9qzpelu9hn45pefc0xr4ac4kdxeswq7pndul2vuj59u8tqaxdznu",
			ScriptHashes: []string{sundaeswapScriptHash},
			Fee:          0.003,
		},
		{
			Name:         "WingRiders",
			PoolAddress:  "addr1wxr2a8htmzuhj39y2gq7ftkpxv98y2g67tg8zezthgq4jkg0a4ul4",
			ScriptHashes: []string{wingridersScriptHash},
			Fee:          0.0035,
		},
		{
			Name:         "MuesliSwap",
			PoolAddress:  "addr1z9cy2gmar6cpn8yymll93lnd7lw96f27kn2p3eq5d4qjr88wfvvu29pfgmhtyqtjgwvxfwtjyeaztaqm9dg48jpxcgxqz3vkxt",
			ScriptHashes: []string{muesliswapScriptHash},
			Fee:          0.003,
		},
	}
}

// ByName returns the descriptor with the given name, if present.
func (r Registry) ByName(name string) (Descriptor, bool) {
	for _, d := range r {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}
