// Package board runs the elemental grid: ticks, stall detection and
// repopulation.
package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"elementals/internal/core"
	"elementals/internal/elemental"
)

// ErrMissingRenderTarget is returned by New when no render sink is supplied.
var ErrMissingRenderTarget = errors.New("can't reach the render target")

// Generator produces a fresh entity for a position.
type Generator interface {
	Generate(pos core.Coordinate) (elemental.Entity, error)
}

// RenderSink receives a frame after every tick and every fill. Frames are
// snapshots; sinks must treat them as read-only.
type RenderSink interface {
	RenderFrame(Frame)
}

// validator is implemented by sinks that can report a typed nil or otherwise
// unusable receiver.
type validator interface {
	Valid() bool
}

// StallDecider is asked, synchronously, whether a stalled board should be
// repopulated.
type StallDecider interface {
	ConfirmRepopulate() bool
}

// DeciderFunc adapts a function to StallDecider.
type DeciderFunc func() bool

// ConfirmRepopulate calls f.
func (f DeciderFunc) ConfirmRepopulate() bool { return f() }

var (
	// AlwaysRefill repopulates every stalled board.
	AlwaysRefill = DeciderFunc(func() bool { return true })
	// NeverRefill leaves stalled boards stalled.
	NeverRefill = DeciderFunc(func() bool { return false })
)

// Options configure a Board.
type Options struct {
	Size   core.Coordinate
	TPS    int
	Logger *slog.Logger
}

// Board owns the grid of entities and drives it one tick at a time.
//
// Tick, Fill, FillAll and Repopulate must only be called from the goroutine
// that drives the scheduler; there is exactly one caller of tick logic at any
// time. Running, SetRunning, Start, Stop and Rate are safe from any goroutine.
type Board struct {
	grid    *core.Grid[elemental.Entity]
	gen     Generator
	sched   *core.Scheduler
	sink    RenderSink
	decider StallDecider
	logger  *slog.Logger

	ticks  uint64
	stalls int
	epoch  uuid.UUID
	moved  bool
	counts []Occupancy
}

// New builds a board, fills every cell from gen and renders the first frame.
// The board starts paused. A nil decider behaves like NeverRefill. Sinks that
// implement Valid() bool and report false are treated as missing.
func New(opts Options, gen Generator, sink RenderSink, decider StallDecider) (*Board, error) {
	if sink == nil {
		return nil, ErrMissingRenderTarget
	}
	if v, ok := sink.(validator); ok && !v.Valid() {
		return nil, ErrMissingRenderTarget
	}
	if gen == nil {
		return nil, errors.New("board requires a generator")
	}
	if decider == nil {
		decider = NeverRefill
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	b := &Board{
		grid:    core.NewGrid[elemental.Entity](opts.Size, nil),
		gen:     gen,
		sink:    sink,
		decider: decider,
		logger:  logger,
	}
	b.sched = core.NewScheduler(opts.TPS, b.Tick)
	size := b.grid.Size()
	b.logger.Info("board created", "width", size.X, "height", size.Y, "tps", b.sched.TPS())
	if err := b.FillAll(); err != nil {
		return nil, fmt.Errorf("initial fill: %w", err)
	}
	return b, nil
}

// Size returns the grid dimensions.
func (b *Board) Size() core.Coordinate { return b.grid.Size() }

// At returns the entity at pos.
func (b *Board) At(pos core.Coordinate) (elemental.Entity, error) { return b.grid.Get(pos) }

// Scheduler exposes the tick scheduler driving this board.
func (b *Board) Scheduler() *core.Scheduler { return b.sched }

// Running reports whether scheduled firings tick the board.
func (b *Board) Running() bool { return b.sched.Running() }

// SetRunning records a run or pause request; it applies from the next firing.
func (b *Board) SetRunning(v bool) { b.sched.SetRunning(v) }

// Start resumes ticking on the next firing.
func (b *Board) Start() { b.sched.Start() }

// Stop pauses ticking from the next firing on.
func (b *Board) Stop() { b.sched.Stop() }

// Rate is the most recently measured firing frequency.
func (b *Board) Rate() float64 { return b.sched.Rate() }

// Ticks counts completed ticks.
func (b *Board) Ticks() uint64 { return b.ticks }

// Stalls counts ticks that ended with no change anywhere.
func (b *Board) Stalls() int { return b.stalls }

// Epoch identifies the current population; it changes on every full fill.
func (b *Board) Epoch() uuid.UUID { return b.epoch }

// Moved reports whether the last tick changed any entity.
func (b *Board) Moved() bool { return b.moved }

// Run drives the board from a ticker until ctx ends or a tick fails.
func (b *Board) Run(ctx context.Context) error { return b.sched.Run(ctx) }

// Advance drives the board from a frame-paced host loop.
func (b *Board) Advance(now time.Time) (bool, error) { return b.sched.Advance(now) }

// Tick advances every entity once, row-major. When nothing changed the board
// stops and asks the stall decider whether to repopulate. An error aborts the
// tick; entities advanced before the failure keep their new state.
func (b *Board) Tick() error {
	moved := false
	err := b.grid.Walk(func(_ core.Coordinate, e elemental.Entity) error {
		changed, err := e.Advance()
		if changed {
			moved = true
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("tick %d: %w", b.ticks+1, err)
	}
	b.ticks++
	b.moved = moved
	if !moved {
		b.sched.Stop()
		b.stalls++
	}
	b.render()
	if moved {
		return nil
	}
	return b.stall()
}

func (b *Board) stall() error {
	b.logger.Info("elementals have no more moves", "tick", b.ticks, "epoch", b.epoch, "stalls", b.stalls)
	if !b.decider.ConfirmRepopulate() {
		b.logger.Info("repopulation declined", "epoch", b.epoch)
		return nil
	}
	return b.Repopulate()
}

// Repopulate refills the whole grid and resumes ticking.
func (b *Board) Repopulate() error {
	if err := b.FillAll(); err != nil {
		return err
	}
	b.sched.Start()
	return nil
}

// FillAll replaces every entity and starts a new epoch.
func (b *Board) FillAll() error {
	b.epoch = uuid.New()
	if err := b.Fill(core.XY(0, 0), b.grid.Size()); err != nil {
		return err
	}
	b.logger.Info("board populated", "epoch", b.epoch, "tick", b.ticks)
	return nil
}

// Fill replaces the entities in the half-open rectangle spanned by the two
// corners, in either order, then renders a frame.
func (b *Board) Fill(from, to core.Coordinate) error {
	lo, hi := core.Span(from, to)
	for y := lo.Y; y < hi.Y; y++ {
		for x := lo.X; x < hi.X; x++ {
			pos := core.XY(x, y)
			e, err := b.gen.Generate(pos)
			if err != nil {
				return fmt.Errorf("fill %s: %w", pos, err)
			}
			if err := b.grid.Set(pos, e); err != nil {
				return err
			}
		}
	}
	b.logger.Debug("region filled", "from", lo, "to", hi)
	b.render()
	return nil
}

// EntitiesOfVariant returns the entities of the named variant found at the
// given positions. Positions outside the grid are ignored.
func (b *Board) EntitiesOfVariant(positions []core.Coordinate, variant string) []elemental.Entity {
	var out []elemental.Entity
	for _, pos := range positions {
		e, err := b.grid.Get(pos)
		if err != nil || e == nil {
			continue
		}
		if e.Variant() == variant {
			out = append(out, e)
		}
	}
	return out
}

// Counts returns the occupancy computed for the last rendered frame.
func (b *Board) Counts() []Occupancy {
	return append([]Occupancy(nil), b.counts...)
}

// Readiness reports, row-major, how close each cell is to its next firing.
func (b *Board) Readiness() []float32 {
	out := make([]float32, 0, b.grid.Size().X*b.grid.Size().Y)
	_ = b.grid.Walk(func(_ core.Coordinate, e elemental.Entity) error {
		if e == nil {
			out = append(out, 0)
			return nil
		}
		out = append(out, elemental.Readiness(e))
		return nil
	})
	return out
}

func (b *Board) render() {
	cells := b.grid.Snapshot()
	b.counts = CountOccupancy(cells)
	b.sink.RenderFrame(Frame{
		Tick:    b.ticks,
		Epoch:   b.epoch,
		Size:    b.grid.Size(),
		Cells:   cells,
		Counts:  append([]Occupancy(nil), b.counts...),
		Moved:   b.moved,
		Running: b.sched.Running(),
	})
}
