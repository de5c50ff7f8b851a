// Package datagen produces randomized test payloads for the benchmark
// harness. Plaintext payloads come from a seeded pseudo-random source so
// runs are reproducible; key material (seeds, salts, RNA sequences) is
// drawn from crypto/rand instead.
package datagen

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	mrand "math/rand"
)

// Charsets used by the harness and the algorithm bindings.
const (
	Alphanumeric = "abcdefghijklmnopqrstuvwxyz" +
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
		"0123456789"
	Digits   = "0123456789"
	RNABases = "ACGU"
)

// ErrEmptyCharset is returned when a positive length is requested from
// an empty charset.
var ErrEmptyCharset = errors.New("empty charset")

// Generator produces random strings. The pseudo-random source is seeded
// once at construction; secure draws bypass it and use crypto/rand.
type Generator struct {
	rng *mrand.Rand
}

// NewGenerator creates a Generator whose insecure source is seeded with
// the given seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng: mrand.New(mrand.NewSource(seed)),
	}
}

// Generate returns a string of exactly length symbols, each drawn
// independently and uniformly from charset. When secure is true the
// symbols come from crypto/rand; callers must set it for anything used
// as key material. A zero length yields an empty string.
func (g *Generator) Generate(length int, charset string, secure bool) (string, error) {
	if length == 0 {
		return "", nil
	}

	if len(charset) == 0 {
		return "", fmt.Errorf("generate %d symbols: %w", length, ErrEmptyCharset)
	}

	buf := make([]byte, length)

	if secure {
		maxIdx := big.NewInt(int64(len(charset)))
		for i := range buf {
			n, err := rand.Int(rand.Reader, maxIdx)
			if err != nil {
				return "", fmt.Errorf("draw secure symbol: %w", err)
			}

			buf[i] = charset[n.Int64()]
		}

		return string(buf), nil
	}

	for i := range buf {
		buf[i] = charset[g.rng.Intn(len(charset))]
	}

	return string(buf), nil
}
