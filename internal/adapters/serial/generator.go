// Package serial provides the default faux serial generator.
package serial

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const alphanum = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomGenerator draws alphanumeric suffixes from crypto/rand, so
// independent checkouts of the same vault are unlikely to collide.
type RandomGenerator struct{}

// NewRandomGenerator creates the default generator.
func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

// Generate returns a random alphanumeric string of the given length.
// Lengths below 4 give too few combinations and are rejected.
func (g *RandomGenerator) Generate(length int) (string, error) {
	if length < 4 {
		return "", fmt.Errorf("faux serial length must be >= 4, got %d", length)
	}
	out := make([]byte, length)
	max := big.NewInt(int64(len(alphanum)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("reading randomness: %w", err)
		}
		out[i] = alphanum[n.Int64()]
	}
	return string(out), nil
}
