// Package stock holds the per-class inventory registry (curated item lists)
// and the generation template registry used when a class has no curated
// stock.
package stock

import (
	"github.com/cory-johannsen/lootcrate/internal/crate"
)

// entry is the inventory state for one rarity class.
type entry struct {
	items   []crate.ItemID
	curated bool
}

// Registry stores, per rarity class, an ordered list of existing item
// identifiers and a curated flag. A curated class allocates exclusively from
// its list; an uncurated class falls back to template generation.
//
// Not safe for concurrent use; the allocation engine serializes access.
type Registry struct {
	entries [crate.ClassCount]entry
}

// NewRegistry returns a Registry with every class uncurated and empty.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends id to the class's item list and marks the class curated.
//
// Precondition: class must be valid.
// Postcondition: Curated(class) is true; Items(class) ends with id. A
// previously uncurated class becomes curated with a single-element list.
func (r *Registry) Add(class crate.Class, id crate.ItemID) {
	e := &r.entries[class]
	e.items = append(e.items, id)
	e.curated = true
}

// Replace swaps the class's item list wholesale and marks the class
// curated.
//
// An empty ids slice still marks the class curated. A curated class with an
// empty list hard-fails at allocation time instead of silently falling back
// to generation; callers who want fallback must use Reset.
//
// Precondition: class must be valid.
func (r *Registry) Replace(class crate.Class, ids []crate.ItemID) {
	e := &r.entries[class]
	e.items = append([]crate.ItemID(nil), ids...)
	e.curated = true
}

// Reset clears the class's item list and curated flag, returning it to
// generation fallback.
//
// Precondition: class must be valid.
// Postcondition: Curated(class) is false and Items(class) is empty.
func (r *Registry) Reset(class crate.Class) {
	r.entries[class] = entry{}
}

// Curated reports whether the class allocates from its finite item list.
func (r *Registry) Curated(class crate.Class) bool {
	return r.entries[class].curated
}

// Items returns a copy of the class's item list in insertion order.
func (r *Registry) Items(class crate.Class) []crate.ItemID {
	return append([]crate.ItemID(nil), r.entries[class].items...)
}

// Count returns the number of items listed for the class.
func (r *Registry) Count(class crate.Class) int {
	return len(r.entries[class].items)
}
