package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// RandomString returns a URL-safe random string with the given number
// of bytes of entropy. Used for OAuth state and PKCE verifiers.
func RandomString(bytes int) string {
	b := make([]byte, bytes)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
