package util

import "math/rand"

func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	src := rand.NewSource(seed)
	return rand.New(src)
}

// Derive mixes a stream index into seed (splitmix64 finaliser) so independent
// streams of one run never replay the sequence of a neighbouring seed.
func Derive(seed, stream int64) int64 {
	z := uint64(seed) + uint64(stream+1)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z ^= z >> 31
	return int64(z &^ (1 << 63))
}

// Stream returns a generator for one named stream of seed.
func Stream(seed, stream int64) *rand.Rand {
	return New(Derive(seed, stream))
}
