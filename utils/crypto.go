package utils

import (
	"crypto/rand"
	"math/big"
)

// GenerateOrderReference builds the human-facing order code, e.g. "LH-3F8K2Q1D".
func GenerateOrderReference() string {
	return "LH-" + GenerateRandomString(8)
}

func GenerateRandomString(length int) string {
	const charset = "0123456789ABCDEFGHJKMNPQRSTUVWXYZ"
	result := make([]byte, length)
	for i := range result {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		result[i] = charset[n.Int64()]
	}
	return string(result)
}
