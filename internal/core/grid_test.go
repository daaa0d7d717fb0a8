package core

import (
	"errors"
	"slices"
	"testing"
)

func TestGridHasMatchesBounds(t *testing.T) {
	g := NewGrid[int](XY(3, 2), nil)
	for y := -2; y <= 3; y++ {
		for x := -2; x <= 4; x++ {
			want := 0 <= x && x < 3 && 0 <= y && y < 2
			if got := g.Has(XY(x, y)); got != want {
				t.Fatalf("Has(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestGridOutOfBounds(t *testing.T) {
	g := NewGrid(XY(2, 2), func(pos Coordinate) int { return pos.X + 10*pos.Y })
	for _, pos := range []Coordinate{XY(-1, 0), XY(0, -1), XY(2, 0), XY(0, 2), XY(5, 5)} {
		if _, err := g.Get(pos); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("Get(%s) error = %v, want ErrOutOfBounds", pos, err)
		}
		if err := g.Set(pos, 1); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("Set(%s) error = %v, want ErrOutOfBounds", pos, err)
		}
	}

	var oob *OutOfBoundsError
	_, err := g.Get(XY(7, 1))
	if !errors.As(err, &oob) || oob.Pos != XY(7, 1) || oob.Size != XY(2, 2) {
		t.Fatalf("expected OutOfBoundsError carrying position and size, got %v", err)
	}
}

func TestGridInitialAndSet(t *testing.T) {
	g := NewGrid(XY(3, 2), func(pos Coordinate) int { return pos.X + 10*pos.Y })
	if got := g.Snapshot(); !slices.Equal(got, []int{0, 1, 2, 10, 11, 12}) {
		t.Fatalf("unexpected initial cells %v", got)
	}

	if err := g.Set(XY(1, 1), 99); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, err := g.Get(XY(1, 1))
	if err != nil || v != 99 {
		t.Fatalf("Get after Set = %d, %v", v, err)
	}
	if g.Size() != XY(3, 2) {
		t.Fatalf("Set must not resize, size %s", g.Size())
	}
}

func TestGridWalkRowMajor(t *testing.T) {
	g := NewGrid[int](XY(2, 3), nil)
	var visited []Coordinate
	_ = g.Walk(func(pos Coordinate, _ int) error {
		visited = append(visited, pos)
		return nil
	})
	want := []Coordinate{XY(0, 0), XY(1, 0), XY(0, 1), XY(1, 1), XY(0, 2), XY(1, 2)}
	if !slices.Equal(visited, want) {
		t.Fatalf("walk order %v, want %v", visited, want)
	}

	stop := errors.New("stop")
	count := 0
	err := g.Walk(func(Coordinate, int) error {
		count++
		if count == 2 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) || count != 2 {
		t.Fatalf("walk should stop at first error, err=%v count=%d", err, count)
	}
}

func TestGridClampsSize(t *testing.T) {
	g := NewGrid[byte](XY(0, -3), nil)
	if g.Size() != XY(1, 1) {
		t.Fatalf("expected clamped size 1x1, got %s", g.Size())
	}
}

func TestSpanNormalizesCorners(t *testing.T) {
	lo, hi := Span(XY(5, 1), XY(2, 4))
	if lo != XY(2, 1) || hi != XY(5, 4) {
		t.Fatalf("Span = %s..%s", lo, hi)
	}
	if XY(3, 4).String() != "(3, 4)" {
		t.Fatalf("unexpected String %q", XY(3, 4).String())
	}
}
