package elemental

import (
	"sort"

	"elementals/internal/core"
)

// Variant describes a kind of elemental: its defaults and a factory for a fresh
// ability set. Descriptors are read-only once registered.
type Variant struct {
	Name      string
	Title     string
	Color     core.Color
	Abilities func() []*Ability
}

// Spawn constructs a new entity of this variant at pos.
func (v Variant) Spawn(pos core.Coordinate) Entity {
	var abilities []*Ability
	if v.Abilities != nil {
		abilities = v.Abilities()
	}
	return NewElemental(v.Name, v.Title, v.Color, pos, abilities)
}

var variants = map[string]Variant{}

// Register adds a variant under its name, replacing any earlier registration.
func Register(v Variant) {
	if v.Name == "" {
		return
	}
	variants[v.Name] = v
}

// Lookup returns the variant registered under name.
func Lookup(name string) (Variant, bool) {
	v, ok := variants[name]
	return v, ok
}

// Variants lists the registered variants sorted by name.
func Variants() []Variant {
	out := make([]Variant, 0, len(variants))
	for _, v := range variants {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
