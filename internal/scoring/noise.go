package scoring

import (
	"math/rand/v2"
	"sync"
)

// Noise supplies the random jitter added to every scored delta.
type Noise interface {
	// Between returns an integer in [lo, hi].
	Between(lo, hi int) int
}

// RandNoise draws from a seeded PCG source. It is safe for concurrent use.
type RandNoise struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandNoise returns a noise source seeded with seed.
func NewRandNoise(seed uint64) *RandNoise {
	return &RandNoise{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (n *RandNoise) Between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return lo + n.rng.IntN(hi-lo+1)
}

// NoNoise always returns the value in [lo, hi] closest to zero.
type NoNoise struct{}

func (NoNoise) Between(lo, hi int) int {
	return max(lo, min(hi, 0))
}

// FixedNoise returns the same offset for every stat, clipped to the range.
type FixedNoise int

func (f FixedNoise) Between(lo, hi int) int {
	return max(lo, min(hi, int(f)))
}
