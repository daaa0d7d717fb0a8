package elemental

import "elementals/internal/core"

// Entity is a grid occupant. Every entity is addressed by a fixed position and
// only ever mutates its own abilities.
type Entity interface {
	Variant() string
	Title() string
	Color() core.Color
	Position() core.Coordinate
	Abilities() []*Ability
	Advance() (bool, error)
}

// Elemental is the Entity implementation shared by every variant.
type Elemental struct {
	variant   string
	title     string
	color     core.Color
	position  core.Coordinate
	abilities []*Ability
}

// NewElemental assembles an entity. The abilities slice is owned by the entity
// from here on.
func NewElemental(variant, title string, color core.Color, pos core.Coordinate, abilities []*Ability) *Elemental {
	return &Elemental{variant: variant, title: title, color: color, position: pos, abilities: abilities}
}

func (e *Elemental) Variant() string           { return e.variant }
func (e *Elemental) Title() string             { return e.title }
func (e *Elemental) Color() core.Color         { return e.color }
func (e *Elemental) Position() core.Coordinate { return e.position }
func (e *Elemental) Abilities() []*Ability     { return e.abilities }

// Advance steps every ability in order and reports whether any of them
// changed. It stops at the first ability found in an invalid state.
func (e *Elemental) Advance() (bool, error) {
	moved := false
	for _, a := range e.abilities {
		changed, ok := a.advance()
		if !ok {
			return moved, &InvalidAbilityStateError{
				Ability:   a.title,
				Progress:  a.progress,
				Countdown: a.countdown,
				Entity:    e.title,
				Position:  e.position,
			}
		}
		if changed {
			moved = true
		}
	}
	return moved, nil
}

// Readiness is the mean progress/countdown ratio over all abilities, in [0, 1].
// Entities without abilities report zero.
func Readiness(e Entity) float32 {
	abilities := e.Abilities()
	if len(abilities) == 0 {
		return 0
	}
	var sum float32
	for _, a := range abilities {
		if a.countdown == 0 {
			sum++
			continue
		}
		r := float32(a.progress) / float32(a.countdown)
		if r > 1 {
			r = 1
		}
		sum += r
	}
	return sum / float32(len(abilities))
}
