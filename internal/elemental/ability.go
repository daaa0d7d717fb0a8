package elemental

import (
	"errors"
	"fmt"

	"elementals/internal/core"
)

// ErrInvalidAbilityState is matched by every InvalidAbilityStateError.
var ErrInvalidAbilityState = errors.New("invalid ability state")

// InvalidAbilityStateError reports an ability whose progress overran its
// countdown. It always indicates a programming error.
type InvalidAbilityStateError struct {
	Ability   string
	Progress  int
	Countdown int
	Entity    string
	Position  core.Coordinate
}

func (e *InvalidAbilityStateError) Error() string {
	return fmt.Sprintf("invalid progress value %d (countdown %d) at ability %q, at element %q, in position %s",
		e.Progress, e.Countdown, e.Ability, e.Entity, e.Position)
}

// Is lets errors.Is match ErrInvalidAbilityState.
func (e *InvalidAbilityStateError) Is(target error) bool { return target == ErrInvalidAbilityState }

// Action runs when an ability comes due. Returning true restarts the
// countdown; returning false leaves the ability due, and the action is called
// again on the next tick.
type Action func() bool

// Ability is a named action that fires once its progress reaches countdown.
type Ability struct {
	title     string
	action    Action
	countdown int
	progress  int
}

// NewAbility returns an ability with zero progress.
func NewAbility(title string, countdown int, action Action) *Ability {
	if countdown < 0 {
		countdown = 0
	}
	return &Ability{title: title, action: action, countdown: countdown}
}

// Title names the ability.
func (a *Ability) Title() string { return a.title }

// Countdown is the number of ticks between firings.
func (a *Ability) Countdown() int { return a.countdown }

// Progress is the number of ticks counted since the last reset.
func (a *Ability) Progress() int { return a.progress }

// SetProgress overwrites the counter. Values above the countdown make the next
// advance fail.
func (a *Ability) SetProgress(progress int) { a.progress = progress }

// Due reports whether the next advance will call the action.
func (a *Ability) Due() bool { return a.progress == a.countdown }

// advance performs one tick of the countdown state machine. ok is false when
// progress has overrun the countdown; nothing is changed in that case.
func (a *Ability) advance() (changed, ok bool) {
	switch {
	case a.progress > a.countdown:
		return false, false
	case a.progress == a.countdown:
		if a.action != nil && a.action() {
			a.progress = 0
			return true, true
		}
		return false, true
	default:
		a.progress++
		return true, true
	}
}
