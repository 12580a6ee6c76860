// Package utils provides small helpers shared across gfnprobe components.
package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateID creates a 12-character hex identifier, used for coordinator
// session ids. Format: "a1b2c3d4e5f6".
func GenerateID() (string, error) {
	bytes := make([]byte, 6)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
