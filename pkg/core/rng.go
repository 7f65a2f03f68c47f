package core

import "math/rand/v2"

// RNG wraps math/rand/v2 with the draws agent-based models use. Two RNGs
// built from the same seed produce the same sequence.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic PCG-backed RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0xcafef00dd15ea5e5))}
}

// Bernoulli returns true with probability p. p outside [0, 1] saturates.
func (r *RNG) Bernoulli(p float64) bool {
	switch {
	case p <= 0:
		return false
	case p >= 1:
		return true
	}
	return r.r.Float64() < p
}

// Normal draws from a normal distribution with the given mean and standard
// deviation.
func (r *RNG) Normal(mean, sd float64) float64 {
	return mean + sd*r.r.NormFloat64()
}

// IntN returns a uniform int in [0, n). It returns 0 when n <= 0.
func (r *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return r.r.IntN(n)
}

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }
