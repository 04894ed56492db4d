package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/rand"  // secure random number generation
	"encoding/hex" // hex encoding of the random bytes
)

// tokenBytes is the entropy of every issued access and refresh token.
// 32 bytes -> 64 hex chars.
const tokenBytes = 32

// NewOpaqueToken returns a random token suitable for use as a bearer or
// refresh token. The value carries no structure; it only has meaning as a
// key into the token store.
func NewOpaqueToken() (string, error) {
	return randomHex(tokenBytes)
}

// randomHex returns a hex‑encoded string generated from n bytes of
// cryptographically secure random data. If the random number generator
// fails, an error is returned.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
