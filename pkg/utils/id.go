package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenShortID generates a random hex string of n bytes (2n characters)
// to be used as a shareable room identifier.
func GenShortID(n int) string {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		return ""
	}
	return hex.EncodeToString(b)
}
