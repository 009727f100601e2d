package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashID maps a stable external identity string (an email) to the opaque
// internal user id. Deterministic and one-way: the same email always maps
// to the same id across restarts, and the email cannot be recovered from
// the id alone.
func HashID(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
