package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashClientKey returns a stable, non-reversible identifier for a client address.
func HashClientKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
