package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/mr-tron/base58"
)

// ComputePoolID computes a deterministic pool identity using SHA256.
// The token policy pair is canonicalized (lexicographic order) before
// hashing, so the identity does not depend on which slot each token was
// assigned during output scanning.
// Formula: SHA256(dex|min(policyA,policyB)|max(policyA,policyB))
// Returns hex-encoded hash (64 characters).
func ComputePoolID(dex, policyA, policyB string) string {
	lo, hi := policyA, policyB
	if lo > hi {
		lo, hi = hi, lo
	}

	data := fmt.Sprintf("%s|%s|%s", dex, lo, hi)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// ShortCode returns a compact base58 code for a pool id, used in logs and
// reports. Derived from the first 8 bytes of the hex identity; falls back
// to a prefix of the raw id if it does not decode as hex.
func ShortCode(poolID string) string {
	raw, err := hex.DecodeString(poolID)
	if err != nil || len(raw) < 8 {
		if len(poolID) > 12 {
			return poolID[:12]
		}
		return poolID
	}
	return base58.Encode(raw[:8])
}
