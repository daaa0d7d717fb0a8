package core

import "fmt"

// Coordinate addresses a single cell on a board. It is a plain value and is
// compared with ==.
type Coordinate struct {
	X int
	Y int
}

// XY is shorthand for Coordinate{X: x, Y: y}.
func XY(x, y int) Coordinate { return Coordinate{X: x, Y: y} }

// String renders the coordinate as "(x, y)".
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// Span orders two corners into a half-open rectangle [min, max). Either
// corner may be passed first.
func Span(from, to Coordinate) (Coordinate, Coordinate) {
	lo := Coordinate{X: min(from.X, to.X), Y: min(from.Y, to.Y)}
	hi := Coordinate{X: max(from.X, to.X), Y: max(from.Y, to.Y)}
	return lo, hi
}
