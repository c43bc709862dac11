package helper

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash8 gives a short stable fingerprint of a secret, safe to log in
// place of the raw session token.
func Hash8(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}
