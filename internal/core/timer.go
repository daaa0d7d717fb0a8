package core

import (
	"context"
	"math"
	"sync/atomic"
	"time"
)

// DefaultTPS is the tick rate used when a non-positive rate is requested.
const DefaultTPS = 60

// Scheduler fires a tick callback at a steady ticks-per-second rate and
// measures the rate it actually achieves.
//
// Firings never overlap: whichever driver is used (Run, Fire or Advance) must
// be called from a single goroutine, and that goroutine is the only one that
// runs the callback. Running/SetRunning and Rate may be used from any
// goroutine.
type Scheduler struct {
	tick func() error

	step    atomic.Int64
	running atomic.Bool
	rate    atomic.Uint64

	accumulator time.Duration
	lastFrame   time.Time
	lastFire    time.Time
}

// NewScheduler constructs a stopped Scheduler targeting the given TPS.
func NewScheduler(tps int, tick func() error) *Scheduler {
	s := &Scheduler{tick: tick}
	s.SetTPS(tps)
	s.accumulator = s.Interval()
	return s
}

// SetTPS changes the target tick rate. It is safe to call from the main loop.
func (s *Scheduler) SetTPS(tps int) {
	if tps <= 0 {
		tps = DefaultTPS
	}
	s.step.Store(int64(time.Second / time.Duration(tps)))
}

// TPS returns the target tick rate.
func (s *Scheduler) TPS() int {
	step := s.Interval()
	if step <= 0 {
		return DefaultTPS
	}
	return int(math.Round(float64(time.Second) / float64(step)))
}

// Interval is the target time between firings.
func (s *Scheduler) Interval() time.Duration { return time.Duration(s.step.Load()) }

// Start lets subsequent firings run the tick callback.
func (s *Scheduler) Start() { s.running.Store(true) }

// Stop makes subsequent firings measurement-only. A tick already in progress
// is not interrupted.
func (s *Scheduler) Stop() { s.running.Store(false) }

// Running reports whether firings currently run the tick callback.
func (s *Scheduler) Running() bool { return s.running.Load() }

// SetRunning is Start or Stop depending on v.
func (s *Scheduler) SetRunning(v bool) { s.running.Store(v) }

// Rate returns the most recently achieved frequency in firings per second, or
// zero before the second firing.
func (s *Scheduler) Rate() float64 { return math.Float64frombits(s.rate.Load()) }

// Fire performs one firing at time now: it always updates the measured rate
// and, while running, invokes the tick callback.
func (s *Scheduler) Fire(now time.Time) error {
	if !s.lastFire.IsZero() {
		if elapsed := now.Sub(s.lastFire); elapsed > 0 {
			s.rate.Store(math.Float64bits(float64(time.Second) / float64(elapsed)))
		}
	}
	s.lastFire = now
	if !s.running.Load() || s.tick == nil {
		return nil
	}
	return s.tick()
}

// Advance is the driver for hosts that call in once per frame. Time is
// accumulated between calls and a firing happens once a full interval has
// built up. It reports whether a firing took place.
func (s *Scheduler) Advance(now time.Time) (bool, error) {
	if s.lastFrame.IsZero() {
		s.lastFrame = now
	}
	delta := now.Sub(s.lastFrame)
	s.lastFrame = now
	s.accumulator += delta
	step := s.Interval()
	if s.accumulator < step {
		return false, nil
	}
	s.accumulator -= step
	// Drop backlog rather than bursting after a long pause.
	if s.accumulator >= step {
		s.accumulator = 0
	}
	return true, s.Fire(now)
}

// Run fires on a time.Ticker until ctx is cancelled or a tick fails. Changes
// made with SetTPS are picked up on the next firing.
func (s *Scheduler) Run(ctx context.Context) error {
	interval := s.Interval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if err := s.Fire(now); err != nil {
				return err
			}
			if next := s.Interval(); next != interval {
				interval = next
				ticker.Reset(interval)
			}
		}
	}
}
