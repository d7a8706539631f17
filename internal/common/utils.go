package common

import (
	"crypto/rand"
	"encoding/hex"
)

// MakeRandHexString returns size random bytes encoded as hex, so the
// result is 2*size characters long.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateRandByteArray returns n bytes from crypto/rand. It panics if the
// system random source fails, which leaves nothing sensible to fall back to.
func GenerateRandByteArray(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// WipeByteArray zeroes b in place. Passwords read from the terminal are
// wiped with it once they have been handed to the identity client.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
