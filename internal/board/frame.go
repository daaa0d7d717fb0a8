package board

import (
	"github.com/google/uuid"

	"elementals/internal/core"
	"elementals/internal/elemental"
)

// Occupancy is the number of cells held by one variant.
type Occupancy struct {
	Variant string
	Title   string
	Color   core.Color
	Count   int
}

// Frame is what a render sink receives: a row-major copy of the grid plus the
// per-variant counts.
type Frame struct {
	Tick    uint64
	Epoch   uuid.UUID
	Size    core.Coordinate
	Cells   []elemental.Entity
	Counts  []Occupancy
	Moved   bool
	Running bool
}

// At returns the entity at pos, or nil when pos is outside the frame.
func (f Frame) At(pos core.Coordinate) elemental.Entity {
	if pos.X < 0 || pos.X >= f.Size.X || pos.Y < 0 || pos.Y >= f.Size.Y {
		return nil
	}
	idx := pos.Y*f.Size.X + pos.X
	if idx >= len(f.Cells) {
		return nil
	}
	return f.Cells[idx]
}

// CountOccupancy tallies cells per variant, ordered by first appearance.
func CountOccupancy(cells []elemental.Entity) []Occupancy {
	var out []Occupancy
	index := map[string]int{}
	for _, e := range cells {
		if e == nil {
			continue
		}
		i, ok := index[e.Variant()]
		if !ok {
			i = len(out)
			index[e.Variant()] = i
			out = append(out, Occupancy{Variant: e.Variant(), Title: e.Title(), Color: e.Color()})
		}
		out[i].Count++
	}
	return out
}
