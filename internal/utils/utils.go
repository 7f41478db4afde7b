package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateUniqueID creates a secure random hex string of length*2 characters.
func GenerateUniqueID(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
