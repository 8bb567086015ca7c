// Package randtext produces deterministic pseudo-random inputs for the
// benchmark harness and tests. A fixed seed always yields the same sequence.
package randtext

import "math/rand"

// Alphabet is the character set accepted by the standard admission profile.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789 -_"

// Taint holds characters outside every builtin allow-list profile.
const Taint = "!@#"

// Generator yields reproducible strings from a seeded source. Not safe for
// concurrent use; give each goroutine its own instance.
type Generator struct {
	rng *rand.Rand
}

// New creates a Generator seeded with seed.
func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Allowed returns a random string of n characters drawn from Alphabet.
func (g *Generator) Allowed(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = Alphabet[g.rng.Intn(len(Alphabet))]
	}
	return string(b)
}

// Tainted returns a random allow-listed string of n characters with Taint
// appended, guaranteeing at least one disallowed character.
func (g *Generator) Tainted(n int) string {
	return g.Allowed(n) + Taint
}

// Intn draws a uniform int in [0, n) from the generator's source.
func (g *Generator) Intn(n int) int {
	return g.rng.Intn(n)
}

// Float64 draws a uniform float in [0, 1) from the generator's source.
func (g *Generator) Float64() float64 {
	return g.rng.Float64()
}
