package snake

import "math/rand/v2"

// Source supplies the randomness used for food placement.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	// IntN returns a value in [0, n). It is only called with n > 0.
	IntN(n int) int
}

// NewSource returns a seeded PCG source. Equal seeds give equal games.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
