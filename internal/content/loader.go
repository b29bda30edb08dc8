// Package content loads crate content files: probability tables, curated
// stock lists, and generation templates.
//
// Validation is strict here even though the engine's table registry is
// permissive: a malformed table degrades silently at draw time, so the
// content file is the last place it can be rejected loudly.
package content

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/lootcrate/internal/crate"
	"github.com/cory-johannsen/lootcrate/internal/crate/engine"
	"github.com/cory-johannsen/lootcrate/internal/crate/odds"
)

// yamlFile is the top-level YAML structure of a content file.
type yamlFile struct {
	Crates yamlContent `yaml:"crates"`
}

// yamlContent is the YAML representation of crate content.
type yamlContent struct {
	Tables    map[string][]int          `yaml:"tables"`
	Stock     map[string][]uint64       `yaml:"stock"`
	Templates map[string][]yamlTemplate `yaml:"templates"`
}

// yamlTemplate is the YAML representation of one generation template.
type yamlTemplate struct {
	ID   uint64 `yaml:"id"`
	Data string `yaml:"data"`
}

// Template is one parsed generation template.
type Template struct {
	ID   crate.ItemID
	Data []byte
}

// Content is a parsed and validated crate content file.
type Content struct {
	Tables    map[crate.Tier]odds.Table
	Stock     map[crate.Class][]crate.ItemID
	Templates map[crate.Class][]Template
}

// Load reads and validates the content file at path.
//
// Postcondition: Every table in the result has exactly ClassCount weights
// summing to odds.Scale, non-increasing by rarity; every class and tier
// name resolved; every template id is unique across classes.
func Load(path string) (Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Content{}, fmt.Errorf("reading content file: %w", err)
	}

	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Content{}, fmt.Errorf("parsing content file %s: %w", path, err)
	}

	c := Content{
		Tables:    make(map[crate.Tier]odds.Table),
		Stock:     make(map[crate.Class][]crate.ItemID),
		Templates: make(map[crate.Class][]Template),
	}

	for name, weights := range f.Crates.Tables {
		tier, err := crate.ParseTier(name)
		if err != nil {
			return Content{}, fmt.Errorf("content tables: %w", err)
		}
		table, err := parseTable(name, weights)
		if err != nil {
			return Content{}, err
		}
		c.Tables[tier] = table
	}

	for name, ids := range f.Crates.Stock {
		class, err := crate.ParseClass(name)
		if err != nil {
			return Content{}, fmt.Errorf("content stock: %w", err)
		}
		items := make([]crate.ItemID, len(ids))
		for i, id := range ids {
			items[i] = crate.ItemID(id)
		}
		c.Stock[class] = items
	}

	seen := make(map[crate.ItemID]string)
	for name, entries := range f.Crates.Templates {
		class, err := crate.ParseClass(name)
		if err != nil {
			return Content{}, fmt.Errorf("content templates: %w", err)
		}
		for _, e := range entries {
			id := crate.ItemID(e.ID)
			if prev, dup := seen[id]; dup {
				return Content{}, fmt.Errorf("content templates: item %s defined under both %q and %q", id, prev, name)
			}
			seen[id] = name
			c.Templates[class] = append(c.Templates[class], Template{ID: id, Data: []byte(e.Data)})
		}
	}

	return c, nil
}

func parseTable(tier string, weights []int) (odds.Table, error) {
	var table odds.Table
	if len(weights) != crate.ClassCount {
		return table, fmt.Errorf("content tables: tier %q must have %d weights, got %d", tier, crate.ClassCount, len(weights))
	}
	sum := 0
	for i, w := range weights {
		if w < 0 {
			return table, fmt.Errorf("content tables: tier %q weight[%d] must be >= 0, got %d", tier, i, w)
		}
		if i > 0 && w > weights[i-1] {
			return table, fmt.Errorf("content tables: tier %q weights must be non-increasing by rarity, got %v", tier, weights)
		}
		table[i] = w
		sum += w
	}
	if sum != odds.Scale {
		return table, fmt.Errorf("content tables: tier %q weights must sum to %d, got %d", tier, odds.Scale, sum)
	}
	return table, nil
}

// Install pushes the content into an engine through its administrative
// surface, as caller.
//
// Precondition: caller must be authorized on the engine's gate.
// Postcondition: Tables, stock, and templates are installed; installation
// order is deterministic (tiers then classes, ascending).
func (c Content) Install(eng *engine.Engine, caller string) error {
	for _, tier := range sortedTiers(c.Tables) {
		if err := eng.SetTable(caller, tier, c.Tables[tier]); err != nil {
			return fmt.Errorf("installing table for tier %s: %w", tier, err)
		}
	}
	for _, class := range sortedClasses(c.Stock) {
		if err := eng.ReplaceItems(caller, class, c.Stock[class]); err != nil {
			return fmt.Errorf("installing stock for class %s: %w", class, err)
		}
	}
	for _, class := range sortedTemplateClasses(c.Templates) {
		for _, tmpl := range c.Templates[class] {
			if err := eng.RegisterTemplate(caller, class, tmpl.ID, tmpl.Data); err != nil {
				return fmt.Errorf("installing template %s for class %s: %w", tmpl.ID, class, err)
			}
		}
	}
	return nil
}

func sortedTiers(m map[crate.Tier]odds.Table) []crate.Tier {
	out := make([]crate.Tier, 0, len(m))
	for t := range m {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedClasses(m map[crate.Class][]crate.ItemID) []crate.Class {
	out := make([]crate.Class, 0, len(m))
	for c := range m {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedTemplateClasses(m map[crate.Class][]Template) []crate.Class {
	out := make([]crate.Class, 0, len(m))
	for c := range m {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
