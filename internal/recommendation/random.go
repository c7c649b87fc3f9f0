// internal/recommendation/random.go
package recommendation

import "math/rand/v2"

// RandFactory builds the random source used for one request.
type RandFactory func() *rand.Rand

// DefaultRandFactory seeds every request independently.
func DefaultRandFactory() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// SeededRandFactory returns a factory whose generators all start from seed,
// so selections are reproducible.
func SeededRandFactory(seed uint64) RandFactory {
	return func() *rand.Rand {
		return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

const (
	minTypingDelaySeconds  = 0.5
	typingDelaySpanSeconds = 1.0
)

// typingDelay is uniform in [0.5, 1.5) seconds.
func typingDelay(rng *rand.Rand) float64 {
	return minTypingDelaySeconds + rng.Float64()*typingDelaySpanSeconds
}
