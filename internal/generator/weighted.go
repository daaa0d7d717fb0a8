// Package generator draws new elementals from a weighted case table.
package generator

import (
	"errors"
	"math"

	"elementals/internal/core"
	"elementals/internal/elemental"
)

// ErrEmptyGeneratorTable is returned when no case carries any weight.
var ErrEmptyGeneratorTable = errors.New("can't select random element: case table is empty or has zero total weight")

// Source supplies uniform values in [0, 1). *core.RNG satisfies it.
type Source interface {
	Float64() float64
}

// Case pairs a variant with its selection weight.
type Case struct {
	Variant elemental.Variant
	Weight  float64
}

// Weighted picks variants with probability proportional to their weight. The
// case table keeps insertion order, which decides the interval layout.
type Weighted struct {
	cases []Case
	src   Source
}

// New returns an empty generator drawing from src.
func New(src Source) *Weighted {
	return &Weighted{src: src}
}

// SetCase inserts the variant or updates its weight. It reports whether the
// variant was already present. Negative and non-finite weights are stored as
// zero.
func (w *Weighted) SetCase(v elemental.Variant, weight float64) bool {
	if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		weight = 0
	}
	for i := range w.cases {
		if w.cases[i].Variant.Name == v.Name {
			w.cases[i].Variant = v
			w.cases[i].Weight = weight
			return true
		}
	}
	w.cases = append(w.cases, Case{Variant: v, Weight: weight})
	return false
}

// RemoveCase drops the named variant and reports whether it was present.
func (w *Weighted) RemoveCase(name string) bool {
	for i := range w.cases {
		if w.cases[i].Variant.Name == name {
			w.cases = append(w.cases[:i], w.cases[i+1:]...)
			return true
		}
	}
	return false
}

// Weight returns the weight stored for the named variant.
func (w *Weighted) Weight(name string) (float64, bool) {
	for _, c := range w.cases {
		if c.Variant.Name == name {
			return c.Weight, true
		}
	}
	return 0, false
}

// Cases returns a copy of the case table in order.
func (w *Weighted) Cases() []Case {
	return append([]Case(nil), w.cases...)
}

// Total is the sum of all weights.
func (w *Weighted) Total() float64 {
	var sum float64
	for _, c := range w.cases {
		sum += c.Weight
	}
	return sum
}

// Generate draws a variant and spawns it at pos.
func (w *Weighted) Generate(pos core.Coordinate) (elemental.Entity, error) {
	v, err := w.pick()
	if err != nil {
		return nil, err
	}
	return v.Spawn(pos), nil
}

func (w *Weighted) pick() (elemental.Variant, error) {
	total := w.Total()
	if total <= 0 {
		return elemental.Variant{}, ErrEmptyGeneratorTable
	}
	r := w.src.Float64() * total
	start := 0.0
	last := -1
	for i, c := range w.cases {
		if c.Weight <= 0 {
			continue
		}
		end := start + c.Weight
		if start <= r && r < end {
			return c.Variant, nil
		}
		start = end
		last = i
	}
	// Rounding can leave r just past the accumulated end.
	return w.cases[last].Variant, nil
}
