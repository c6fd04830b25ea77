package roomcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Alphabet is the set of characters room codes are drawn from
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the fixed room code length
const Length = 6

// Generate returns a random 6-character room code with each character drawn
// uniformly from Alphabet. Uniqueness against the room store is the caller's
// responsibility.
func Generate() (string, error) {
	max := big.NewInt(int64(len(Alphabet)))
	buf := make([]byte, Length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate room code: %w", err)
		}
		buf[i] = Alphabet[n.Int64()]
	}
	return string(buf), nil
}

// Valid reports whether code has the expected length and character set
func Valid(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
