// Package odds holds the per-tier rarity probability tables and the class
// draw algorithm used when a crate unit is opened.
package odds

import (
	"math/big"

	"github.com/cory-johannsen/lootcrate/internal/crate"
)

// Scale is the basis-point denominator: a table whose weights sum to Scale
// covers the full probability mass.
const Scale = 10000

// Table is a fixed-length weight table over rarity classes, in basis points,
// indexed by crate.Class (Common first, Legendary last).
type Table [crate.ClassCount]int

// Sum returns the total weight of the table.
func (t Table) Sum() int {
	total := 0
	for _, w := range t {
		total += w
	}
	return total
}

// Registry stores one Table per crate tier.
//
// Tables are replaced wholesale and never validated here: a table whose
// weights do not sum to Scale degrades at draw time toward ClassCommon
// rather than being rejected. Load-time validation is the content loader's
// concern. Not safe for concurrent use; the allocation engine serializes
// access.
type Registry struct {
	tables [crate.TierCount]Table
}

// NewRegistry returns a Registry with all tables zeroed, which makes every
// draw resolve to ClassCommon until an administrator installs real tables.
func NewRegistry() *Registry {
	return &Registry{}
}

// Set replaces the table for the given tier unconditionally.
//
// Precondition: tier must be valid.
func (r *Registry) Set(tier crate.Tier, t Table) {
	r.tables[tier] = t
}

// Get returns the current table for the given tier by value.
//
// Precondition: tier must be valid.
func (r *Registry) Get(tier crate.Tier) Table {
	return r.tables[tier]
}

// Draw selects a rarity class from t for the raw random value v.
//
// The algorithm is a reverse cascading subtraction: reduce v modulo Scale,
// then check classes rarest-first (index 3 down to 1); the first class whose
// weight exceeds the remaining value wins, otherwise its weight is
// subtracted and the next rarer-to-common class is checked. ClassCommon is
// the unchecked residual outcome, absorbing both the remaining legitimate
// mass and any shortfall of an under-sum table.
//
// Precondition: v must be non-negative.
// Postcondition: The returned class is valid; a zero table always yields
// ClassCommon.
func Draw(t Table, v *big.Int) crate.Class {
	rem := int(new(big.Int).Mod(v, big.NewInt(Scale)).Int64())
	for idx := crate.ClassCount - 1; idx >= 1; idx-- {
		if rem < t[idx] {
			return crate.Class(idx)
		}
		rem -= t[idx]
	}
	return crate.ClassCommon
}
