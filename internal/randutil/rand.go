// Package randutil builds reproducible random sources for shuffling.
package randutil

import (
	rand "math/rand/v2"

	"github.com/coder/quartz"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// Both PCG state words are derived from the one seed, so a table replays
// identically for the same seed.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewFromClock seeds from the clock's current time. A zero seed from a
// config means "use the clock".
func NewFromClock(clock quartz.Clock) *rand.Rand {
	return New(clock.Now().UnixNano())
}

// Seed resolves a configured seed, falling back to the clock when zero.
func Seed(seed int64, clock quartz.Clock) int64 {
	if seed != 0 {
		return seed
	}
	return clock.Now().UnixNano()
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
