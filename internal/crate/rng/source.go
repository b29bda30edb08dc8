// Package rng provides the randomness abstraction for the Lootcrate
// allocation engine.
//
// The production source mixes ambient entropy, caller identity, and an
// evolving internal seed through Keccak-256. The sequence it produces is a
// deterministic function of (entropy stream, caller, initial seed): fixing
// all three reproduces it exactly, which makes it testable — and makes it
// predictable to any caller who can observe or influence the entropy input.
// It offers no cryptographic unpredictability guarantee; the only mitigation
// is an administrative seed override (see Seed).
package rng

import (
	"math/big"
)

// Source produces the next pseudorandom draw value for the engine.
//
// Implementations need not be safe for concurrent use; the allocation
// engine serializes all access.
type Source interface {
	// Next returns a pseudorandom integer in [0, 2^256), advancing any
	// internal state.
	Next(caller string) *big.Int

	// Seed replaces the internal seed state. Sources without seed state
	// treat this as a no-op.
	Seed(v *big.Int)
}

// Entropy supplies the ambient entropy value mixed into each draw, the
// analog of "most recent block hash": an external input the source does not
// generate itself.
type Entropy interface {
	// Sample returns the current ambient entropy value.
	Sample() [32]byte
}
