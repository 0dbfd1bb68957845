package engine

import "math/rand"

// RNG is the single source of randomness for a GameState. All draws funnel
// through here in a fixed per-tick order (spec.md §9 "single seeded PRNG")
// so that two runs given the same seed and action stream produce byte-
// identical snapshots (invariant I7). It is a field on GameState, never a
// package-level singleton.
type RNG struct {
	src *rand.Rand
}

func NewRNG(seed int64) *RNG {
	return &RNG{src: rand.New(rand.NewSource(seed))}
}

// Intn returns a pseudo-random int in [0,n). Panics if n <= 0, matching
// math/rand's own contract.
func (r *RNG) Intn(n int) int {
	return r.src.Intn(n)
}

// Float64 returns a pseudo-random float64 in [0.0,1.0).
func (r *RNG) Float64() float64 {
	return r.src.Float64()
}

// Between returns a pseudo-random int in [min,max], inclusive.
func (r *RNG) Between(min, max int) int {
	if max <= min {
		return min
	}
	return min + r.src.Intn(max-min+1)
}
