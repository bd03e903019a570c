package booking

import (
	crand "crypto/rand"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// ReferenceAlphabet omits characters that are easy to misread (O/0, I/1).
const ReferenceAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	DefaultReferencePrefix = "ATL-"
	DefaultReferenceLength = 6
)

// RandSource yields uniformly distributed integers in [0, n).
// *rand.Rand from math/rand/v2 satisfies it.
type RandSource interface {
	IntN(n int) int
}

// NewRandomSource returns a ChaCha8 source seeded from crypto/rand.
func NewRandomSource() *rand.Rand {
	var seed [32]byte
	_, _ = crand.Read(seed[:])
	return rand.New(rand.NewChaCha8(seed))
}

// NewSeededSource returns a deterministic source for tests and replays.
func NewSeededSource(seed1, seed2 uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed1, seed2))
}

// ReferenceGenerator produces booking reference codes such as "ATL-7KQ2MX".
type ReferenceGenerator struct {
	prefix string
	length int

	mu  sync.Mutex
	src RandSource
}

// NewReferenceGenerator creates a generator. A nil src uses NewRandomSource;
// a non-positive length uses DefaultReferenceLength.
func NewReferenceGenerator(prefix string, length int, src RandSource) *ReferenceGenerator {
	if length <= 0 {
		length = DefaultReferenceLength
	}
	if src == nil {
		src = NewRandomSource()
	}
	return &ReferenceGenerator{prefix: prefix, length: length, src: src}
}

// Prefix returns the configured prefix.
func (g *ReferenceGenerator) Prefix() string { return g.prefix }

// Length returns the number of random characters after the prefix.
func (g *ReferenceGenerator) Length() int { return g.length }

// Generate returns a new reference code.
func (g *ReferenceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var b strings.Builder
	b.Grow(len(g.prefix) + g.length)
	b.WriteString(g.prefix)
	for i := 0; i < g.length; i++ {
		b.WriteByte(ReferenceAlphabet[g.src.IntN(len(ReferenceAlphabet))])
	}
	return b.String()
}

// ReferencePattern matches codes produced by a generator with the same prefix and length.
func ReferencePattern(prefix string, length int) *regexp.Regexp {
	return regexp.MustCompile("^" + regexp.QuoteMeta(prefix) + "[" + ReferenceAlphabet + "]{" + strconv.Itoa(length) + "}$")
}
