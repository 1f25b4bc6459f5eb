// Package fingerprint derives deterministic product identities from URLs.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded sha256 of the URL's UTF-8 bytes.
//
// The URL is hashed exactly as supplied: no normalization of trailing
// slashes, query-parameter order, or tracking parameters is performed, so
// two different strings addressing the same resource get different ids.
// Identity tracks the literal string a user registered.
func Sum(url string) string {
	h := sha256.Sum256([]byte(url))
	return hex.EncodeToString(h[:])
}
