package rng

import "math/big"

// SequenceSource is a Source that replays a scripted sequence of values,
// cycling when exhausted. Used by tests to force specific class draws and
// inventory scan positions.
type SequenceSource struct {
	values []*big.Int
	pos    int
}

// NewSequenceSource returns a SequenceSource cycling over the given values.
//
// Precondition: at least one value must be provided.
func NewSequenceSource(values ...int64) *SequenceSource {
	if len(values) == 0 {
		panic("rng: NewSequenceSource called with no values")
	}
	s := &SequenceSource{values: make([]*big.Int, len(values))}
	for i, v := range values {
		s.values[i] = big.NewInt(v)
	}
	return s
}

// Next returns a copy of the next scripted value, ignoring the caller.
func (s *SequenceSource) Next(string) *big.Int {
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return new(big.Int).Set(v)
}

// Seed rewinds the sequence to its start so a replay matches the original
// run.
func (s *SequenceSource) Seed(*big.Int) {
	s.pos = 0
}

// Calls returns how many values have been drawn since creation or the last
// Seed.
func (s *SequenceSource) Calls() int {
	return s.pos
}
