package auth

import (
	"crypto/rand"
	"math/big"
)

// TokenLength is the size of confirmation and password-reset codes.
const TokenLength = 6

// GenerateToken returns a random 6-digit code for account confirmation or
// password reset. It is pure and does not check for collisions; callers
// overwrite the user's single token slot, and lookups are combined with
// existence checks at the call site.
func GenerateToken() string {
	digits := make([]byte, TokenLength)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken
			panic(err)
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits)
}
