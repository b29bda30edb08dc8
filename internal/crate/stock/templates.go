package stock

import (
	"fmt"

	"github.com/cory-johannsen/lootcrate/internal/crate"
)

// TemplateRegistry stores, per rarity class, the generation templates
// consumed by the ledger's mint operation when an uncurated class is
// allocated. Each template is keyed by the item identifier it mints.
//
// Not safe for concurrent use; the allocation engine serializes access.
type TemplateRegistry struct {
	byClass [crate.ClassCount][]crate.ItemID
	data    map[crate.ItemID][]byte
	class   map[crate.ItemID]crate.Class
}

// NewTemplateRegistry returns an empty TemplateRegistry.
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		data:  make(map[crate.ItemID][]byte),
		class: make(map[crate.ItemID]crate.Class),
	}
}

// Register associates the template payload with id under the given class.
//
// Precondition: class must be valid.
// Postcondition: IDs(class) ends with id; returns an error if id is already
// registered under any class.
func (t *TemplateRegistry) Register(class crate.Class, id crate.ItemID, payload []byte) error {
	if existing, ok := t.class[id]; ok {
		return fmt.Errorf("stock: TemplateRegistry.Register: item %s already registered under class %s", id, existing)
	}
	t.byClass[class] = append(t.byClass[class], id)
	t.data[id] = append([]byte(nil), payload...)
	t.class[id] = class
	return nil
}

// IDs returns the item identifiers registered under the class, in
// registration order. The returned slice must not be mutated.
func (t *TemplateRegistry) IDs(class crate.Class) []crate.ItemID {
	return t.byClass[class]
}

// Template returns the payload registered for id and whether it exists.
func (t *TemplateRegistry) Template(id crate.ItemID) ([]byte, bool) {
	p, ok := t.data[id]
	return p, ok
}
