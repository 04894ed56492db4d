package utils

import (
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// IsBcryptHash reports whether s looks like a bcrypt hash rather than a
// plaintext password.
func IsBcryptHash(s string) bool {
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}

// DigestSecret returns the SHA-256 digest of a client secret. Client secrets
// are high-entropy, so a fast digest compared in constant time is enough.
func DigestSecret(secret string) [32]byte {
	return sha256.Sum256([]byte(secret))
}

// SecretMatches compares a presented secret against a stored digest in
// constant time.
func SecretMatches(digest [32]byte, presented string) bool {
	got := DigestSecret(presented)
	return subtle.ConstantTimeCompare(digest[:], got[:]) == 1
}
