// Package keygen produces the short opaque identifiers used for product
// ids and object keys.
package keygen

import (
	"crypto/rand"
	"fmt"
	"math/bits"
)

// DefaultAlphabet is the character set identifiers are drawn from. It is
// case-insensitive-safe: digits plus a handful of lowercase letters.
const DefaultAlphabet = "1234567890abdef"

// DefaultSize is the identifier length. Ten characters over a 15-symbol
// alphabet gives roughly 10^11 possible ids, enough that collisions are
// negligible at catalog scale.
const DefaultSize = 10

// Generator defines the interface for identifier generation strategies
type Generator interface {
	// NewID returns a fresh identifier
	NewID() string

	// NewKey returns a fresh identifier with the given prefix
	NewKey(prefix string) string
}

// RandomGenerator draws each character independently from the system
// CSPRNG. It holds no state, so concurrent calls from isolated request
// handlers need no coordination.
type RandomGenerator struct {
	alphabet string
	size     int
}

// New creates a generator with the default alphabet and size
func New() *RandomGenerator {
	g, err := NewWithAlphabet(DefaultAlphabet, DefaultSize)
	if err != nil {
		panic(err)
	}
	return g
}

// NewWithAlphabet creates a generator over a custom alphabet
func NewWithAlphabet(alphabet string, size int) (*RandomGenerator, error) {
	if len(alphabet) < 2 || len(alphabet) > 255 {
		return nil, fmt.Errorf("alphabet must contain 2 to 255 characters, got %d", len(alphabet))
	}
	if size < 1 {
		return nil, fmt.Errorf("size must be positive, got %d", size)
	}
	return &RandomGenerator{alphabet: alphabet, size: size}, nil
}

// NewID returns a fresh identifier. Random bytes are masked down to the
// smallest power of two covering the alphabet and rejection-sampled, so
// every character is drawn uniformly.
func (g *RandomGenerator) NewID() string {
	mask := byte(1<<bits.Len(uint(len(g.alphabet)-1)) - 1)

	id := make([]byte, 0, g.size)
	buf := make([]byte, g.size*2)
	for {
		if _, err := rand.Read(buf); err != nil {
			// crypto/rand is documented to never fail on supported
			// platforms; treat failure like uuid.New does.
			panic(fmt.Sprintf("keygen: crypto/rand unavailable: %v", err))
		}
		for _, b := range buf {
			idx := int(b & mask)
			if idx >= len(g.alphabet) {
				continue
			}
			id = append(id, g.alphabet[idx])
			if len(id) == g.size {
				return string(id)
			}
		}
	}
}

// NewKey returns a fresh identifier with the given prefix
func (g *RandomGenerator) NewKey(prefix string) string {
	return prefix + g.NewID()
}
