package rng

import (
	"math/big"

	"golang.org/x/crypto/sha3"
)

// ChainSource is the production Source: each draw is
// Keccak256(entropy ‖ caller ‖ seed), and the draw value becomes the next
// seed.
//
// Invariant: the seed is always defined; a nil initial seed means zero.
type ChainSource struct {
	entropy Entropy
	seed    [32]byte
}

// NewChainSource returns a ChainSource mixing values from the given entropy
// provider, starting from the given seed.
//
// Precondition: entropy must be non-nil; seed may be nil (zero seed).
func NewChainSource(entropy Entropy, seed *big.Int) *ChainSource {
	if entropy == nil {
		panic("rng: NewChainSource called with nil entropy")
	}
	s := &ChainSource{entropy: entropy}
	s.Seed(seed)
	return s
}

// Next mixes (entropy, caller, seed) through Keccak-256, stores the digest
// as the new seed, and returns it as an integer in [0, 2^256).
//
// Postcondition: Two sources with the same entropy stream, caller sequence,
// and initial seed return identical value sequences.
func (s *ChainSource) Next(caller string) *big.Int {
	sample := s.entropy.Sample()

	h := sha3.NewLegacyKeccak256()
	h.Write(sample[:])
	h.Write([]byte(caller))
	h.Write(s.seed[:])

	digest := h.Sum(nil)
	copy(s.seed[:], digest)
	return new(big.Int).SetBytes(digest)
}

// Seed replaces the internal seed with the low 256 bits of v.
//
// Precondition: v may be nil, which resets the seed to zero.
func (s *ChainSource) Seed(v *big.Int) {
	s.seed = [32]byte{}
	if v == nil {
		return
	}
	b := v.Bytes()
	if len(b) > len(s.seed) {
		b = b[len(b)-len(s.seed):]
	}
	copy(s.seed[len(s.seed)-len(b):], b)
}
