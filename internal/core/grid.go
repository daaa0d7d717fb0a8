package core

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is matched by every OutOfBoundsError.
var ErrOutOfBounds = errors.New("position out of bounds")

// OutOfBoundsError reports an access outside of a grid.
type OutOfBoundsError struct {
	Pos  Coordinate
	Size Coordinate
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("position %s is out of grid edges %dx%d", e.Pos, e.Size.X, e.Size.Y)
}

// Is lets errors.Is match ErrOutOfBounds.
func (e *OutOfBoundsError) Is(target error) bool { return target == ErrOutOfBounds }

// Grid stores a fixed 2D grid of values in row-major order.
type Grid[T any] struct {
	size Coordinate
	data []T
}

// NewGrid allocates a grid of the given size and fills every cell with
// initial(pos). A nil initial leaves cells at their zero value.
func NewGrid[T any](size Coordinate, initial func(Coordinate) T) *Grid[T] {
	if size.X <= 0 {
		size.X = 1
	}
	if size.Y <= 0 {
		size.Y = 1
	}
	g := &Grid[T]{size: size, data: make([]T, size.X*size.Y)}
	if initial != nil {
		for y := 0; y < size.Y; y++ {
			for x := 0; x < size.X; x++ {
				g.data[g.Index(x, y)] = initial(XY(x, y))
			}
		}
	}
	return g
}

// Size returns the grid dimensions (X is the width, Y the height).
func (g *Grid[T]) Size() Coordinate { return g.size }

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid[T]) Index(x, y int) int { return y*g.size.X + x }

// Has reports whether pos lies inside the grid.
func (g *Grid[T]) Has(pos Coordinate) bool {
	return 0 <= pos.X && pos.X < g.size.X && 0 <= pos.Y && pos.Y < g.size.Y
}

// Get returns the value stored at pos.
func (g *Grid[T]) Get(pos Coordinate) (T, error) {
	if !g.Has(pos) {
		var zero T
		return zero, &OutOfBoundsError{Pos: pos, Size: g.size}
	}
	return g.data[g.Index(pos.X, pos.Y)], nil
}

// Set replaces the value stored at pos.
func (g *Grid[T]) Set(pos Coordinate, value T) error {
	if !g.Has(pos) {
		return &OutOfBoundsError{Pos: pos, Size: g.size}
	}
	g.data[g.Index(pos.X, pos.Y)] = value
	return nil
}

// Walk visits every cell row-major (y outer, x inner) and stops at the first
// error returned by fn.
func (g *Grid[T]) Walk(fn func(pos Coordinate, value T) error) error {
	for y := 0; y < g.size.Y; y++ {
		for x := 0; x < g.size.X; x++ {
			if err := fn(XY(x, y), g.data[g.Index(x, y)]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Snapshot copies the cells into a new row-major slice.
func (g *Grid[T]) Snapshot() []T {
	return append([]T(nil), g.data...)
}
