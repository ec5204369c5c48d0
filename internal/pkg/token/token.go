// Package token issues the single-use random tokens used for email
// verification and password reset. Only the sha256 digest of a token is
// persisted; the raw value travels once, in the email link.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// New returns a 40-character random token.
func New() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Hash returns the hex sha256 digest stored in place of the raw token.
func Hash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
