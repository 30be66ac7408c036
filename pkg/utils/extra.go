package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateRandomToken returns length hex characters of randomness, or "" if
// the system source fails.
func GenerateRandomToken(length int) string {
	bytes := make([]byte, (length+1)/2)
	if _, err := rand.Read(bytes); err != nil {
		return ""
	}
	return hex.EncodeToString(bytes)[:length]
}
