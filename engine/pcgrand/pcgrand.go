// Package pcgrand sources reproducible per-cell randomness for a
// parallel decision phase. Each draw is keyed by (seed, step, x, y) so
// that the outcome of a step does not depend on how the grid was tiled
// across workers or the order in which cells were visited.
package pcgrand

import "math/rand/v2"

// splitmix64 scrambles the four key components into a single uint64,
// giving each (seed, step, x, y) tuple an effectively independent PCG
// stream without the cost of a cryptographic hash.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// Source returns a PRNG seeded deterministically from (seed, step, x, y).
// Two calls with identical arguments always produce identical draws,
// regardless of which goroutine or machine makes the call.
func Source(seed uint64, step, x, y int) *rand.Rand {
	h1 := splitmix64(seed)
	h2 := splitmix64(uint64(step))
	h1 = splitmix64(h1 ^ h2)
	h2 = splitmix64(uint64(uint32(x))<<32 | uint64(uint32(y)))
	pcg := rand.NewPCG(h1, h2)
	return rand.New(pcg)
}

// Float64 draws a single uniform value in [0,1) for (seed, step, x, y).
func Float64(seed uint64, step, x, y int) float64 {
	return Source(seed, step, x, y).Float64()
}
