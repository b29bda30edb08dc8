// Package crate defines the base domain types for the Lootcrate allocation
// engine: rarity classes, crate tiers, and item identifiers.
package crate

import (
	"fmt"
	"strconv"
)

// Class is a reward rarity grade drawn for each unit of an opened crate.
//
// Classes are stored rarest-last (Common first) but checked rarest-first
// during selection. Identity is the index 0..3.
type Class int

// The four fixed rarity classes, in storage order.
const (
	ClassCommon Class = iota
	ClassRare
	ClassEpic
	ClassLegendary
)

// ClassCount is the number of rarity classes. Probability tables and
// inventory registries are sized by it.
const ClassCount = 4

var classNames = [ClassCount]string{"common", "rare", "epic", "legendary"}

// Valid reports whether c is one of the four defined classes.
func (c Class) Valid() bool {
	return c >= 0 && c < ClassCount
}

// String returns the lowercase class name, or "class(<n>)" for out-of-range
// values.
func (c Class) String() string {
	if !c.Valid() {
		return fmt.Sprintf("class(%d)", int(c))
	}
	return classNames[c]
}

// ParseClass returns the Class for the given lowercase name.
//
// Postcondition: Returns a valid Class or a non-nil error naming the input.
func ParseClass(name string) (Class, error) {
	for i, n := range classNames {
		if n == name {
			return Class(i), nil
		}
	}
	return 0, fmt.Errorf("crate: unknown rarity class %q", name)
}

// Tier is an openable crate grade. Each tier owns exactly one probability
// table. Identity is the index 0..2.
type Tier int

// The three fixed crate tiers.
const (
	TierStandard Tier = iota
	TierPremium
	TierDeluxe
)

// TierCount is the number of crate tiers.
const TierCount = 3

var tierNames = [TierCount]string{"standard", "premium", "deluxe"}

var tierDisplayNames = [TierCount]string{
	"Standard Crate",
	"Premium Crate",
	"Deluxe Crate",
}

var tierSymbols = [TierCount]string{"CRATE-S", "CRATE-P", "CRATE-D"}

// Valid reports whether t is one of the three defined tiers.
func (t Tier) Valid() bool {
	return t >= 0 && t < TierCount
}

// String returns the lowercase tier name, or "tier(<n>)" for out-of-range
// values.
func (t Tier) String() string {
	if !t.Valid() {
		return fmt.Sprintf("tier(%d)", int(t))
	}
	return tierNames[t]
}

// ParseTier returns the Tier for the given lowercase name.
//
// Postcondition: Returns a valid Tier or a non-nil error naming the input.
func ParseTier(name string) (Tier, error) {
	for i, n := range tierNames {
		if n == name {
			return Tier(i), nil
		}
	}
	return 0, fmt.Errorf("crate: unknown tier %q", name)
}

// Name returns the fixed human-readable display name for the tier.
//
// Precondition: t must be valid.
func (t Tier) Name() string {
	if !t.Valid() {
		panic("crate: Tier.Name called on invalid tier " + strconv.Itoa(int(t)))
	}
	return tierDisplayNames[t]
}

// Symbol returns the fixed ticker-style symbol for the tier.
//
// Precondition: t must be valid.
func (t Tier) Symbol() string {
	if !t.Valid() {
		panic("crate: Tier.Symbol called on invalid tier " + strconv.Itoa(int(t)))
	}
	return tierSymbols[t]
}

// Locator returns the tier's descriptive locator string: the fixed base
// concatenated with the tier's decimal index.
//
// Postcondition: Locator(base) == base + strconv.Itoa(int(t)).
func (t Tier) Locator(base string) string {
	return base + strconv.Itoa(int(t))
}

// ItemID identifies a single item kind on the ledger.
type ItemID uint64

// String returns the decimal representation of the item id.
func (id ItemID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}
