package elemental

import "elementals/internal/core"

// Built-in variant names.
const (
	NameElement = "element"
	NameEmber   = "ember"
	NameStone   = "stone"
	NameTide    = "tide"
	NameSpark   = "spark"
	NameMoss    = "moss"
)

// Always resets its countdown.
func Always() Action { return func() bool { return true } }

// Never resets; the ability latches once due.
func Never() Action { return func() bool { return false } }

// Alternate declines every other firing, so the ability spends one extra tick
// due between cycles.
func Alternate() Action {
	skip := false
	return func() bool {
		skip = !skip
		return !skip
	}
}

// Charges resets n times and then latches.
func Charges(n int) Action {
	return func() bool {
		if n <= 0 {
			return false
		}
		n--
		return true
	}
}

func init() {
	Register(Variant{
		Name:  NameElement,
		Title: "Element",
		Color: core.Black,
	})
	Register(Variant{
		Name:  NameEmber,
		Title: "Ember",
		Color: core.HSV(18, 90, 100),
		Abilities: func() []*Ability {
			return []*Ability{NewAbility("flicker", 2, Always())}
		},
	})
	Register(Variant{
		Name:  NameStone,
		Title: "Stone",
		Color: core.HSV(30, 12, 55),
		Abilities: func() []*Ability {
			return []*Ability{NewAbility("settle", 6, Never())}
		},
	})
	Register(Variant{
		Name:  NameTide,
		Title: "Tide",
		Color: core.HSV(205, 80, 90),
		Abilities: func() []*Ability {
			return []*Ability{NewAbility("ebb", 3, Alternate())}
		},
	})
	Register(Variant{
		Name:  NameSpark,
		Title: "Spark",
		Color: core.HSV(55, 100, 100),
		Abilities: func() []*Ability {
			return []*Ability{NewAbility("burst", 4, Charges(3))}
		},
	})
	Register(Variant{
		Name:  NameMoss,
		Title: "Moss",
		Color: core.HSV(110, 70, 60),
		Abilities: func() []*Ability {
			return []*Ability{
				NewAbility("grow", 5, Charges(2)),
				NewAbility("spore", 9, Never()),
			}
		},
	})
}
