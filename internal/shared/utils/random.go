package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateTokenValue returns a cryptographically random lowercase hex string
// of 2*n characters, used as the opaque access-token value.
func GenerateTokenValue(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
