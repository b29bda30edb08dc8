package rng

import (
	"crypto/rand"
)

// cryptoEntropy implements Entropy using crypto/rand.
type cryptoEntropy struct{}

// NewCryptoEntropy returns an Entropy provider backed by crypto/rand,
// suitable when no external ambient entropy feed is wired in.
func NewCryptoEntropy() Entropy {
	return cryptoEntropy{}
}

// Sample returns 32 bytes from crypto/rand.
//
// Panics with "rng: crypto/rand failure: <err>" if the system source fails.
func (cryptoEntropy) Sample() [32]byte {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("rng: crypto/rand failure: " + err.Error())
	}
	return b
}

// FixedEntropy is an Entropy provider that cycles through a fixed sequence
// of samples. Used by tests and the simulator to pin the entropy stream.
type FixedEntropy struct {
	samples [][32]byte
	pos     int
}

// NewFixedEntropy returns a FixedEntropy cycling over the given samples.
//
// Precondition: at least one sample must be provided.
func NewFixedEntropy(samples ...[32]byte) *FixedEntropy {
	if len(samples) == 0 {
		panic("rng: NewFixedEntropy called with no samples")
	}
	return &FixedEntropy{samples: samples}
}

// Sample returns the next sample in the cycle.
func (f *FixedEntropy) Sample() [32]byte {
	s := f.samples[f.pos%len(f.samples)]
	f.pos++
	return s
}
