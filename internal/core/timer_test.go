package core

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

func TestSchedulerMeasuresRateWhileStopped(t *testing.T) {
	ticks := 0
	s := NewScheduler(60, func() error { ticks++; return nil })

	base := time.Unix(100, 0)
	if err := s.Fire(base); err != nil {
		t.Fatal(err)
	}
	if s.Rate() != 0 {
		t.Fatalf("rate before second firing = %f", s.Rate())
	}
	if err := s.Fire(base.Add(20 * time.Millisecond)); err != nil {
		t.Fatal(err)
	}
	if math.Abs(s.Rate()-50) > 1e-9 {
		t.Fatalf("expected 50 firings/s, got %f", s.Rate())
	}
	if ticks != 0 {
		t.Fatalf("stopped scheduler must not tick, got %d", ticks)
	}
	if s.TPS() != 60 {
		t.Fatalf("target rate changed to %d", s.TPS())
	}
}

func TestSchedulerStartStop(t *testing.T) {
	ticks := 0
	s := NewScheduler(10, func() error { ticks++; return nil })
	now := time.Unix(0, 0)

	s.Start()
	for i := 0; i < 3; i++ {
		now = now.Add(100 * time.Millisecond)
		_ = s.Fire(now)
	}
	s.Stop()
	_ = s.Fire(now.Add(100 * time.Millisecond))
	s.SetRunning(true)
	_ = s.Fire(now.Add(200 * time.Millisecond))

	if ticks != 4 {
		t.Fatalf("expected 4 ticks, got %d", ticks)
	}
	if !s.Running() {
		t.Fatal("SetRunning(true) should leave the scheduler running")
	}
}

func TestSchedulerPropagatesTickError(t *testing.T) {
	boom := errors.New("boom")
	s := NewScheduler(30, func() error { return boom })
	s.Start()
	if err := s.Fire(time.Unix(1, 0)); !errors.Is(err, boom) {
		t.Fatalf("expected tick error, got %v", err)
	}
}

func TestSchedulerAdvanceAccumulates(t *testing.T) {
	ticks := 0
	s := NewScheduler(10, func() error { ticks++; return nil })
	s.Start()

	now := time.Unix(0, 0)
	if fired, _ := s.Advance(now); !fired {
		t.Fatal("first Advance should fire immediately")
	}
	for i := 0; i < 4; i++ {
		now = now.Add(20 * time.Millisecond)
		if fired, _ := s.Advance(now); fired {
			t.Fatalf("fired after only %d ms", (i+1)*20)
		}
	}
	now = now.Add(10 * time.Millisecond)
	if fired, _ := s.Advance(now); fired {
		t.Fatal("fired before a full interval")
	}
	now = now.Add(10 * time.Millisecond)
	if fired, _ := s.Advance(now); !fired {
		t.Fatal("expected a firing after a full interval")
	}
	if ticks != 2 {
		t.Fatalf("expected 2 ticks, got %d", ticks)
	}
}

func TestSchedulerAdvanceDropsBacklog(t *testing.T) {
	ticks := 0
	s := NewScheduler(10, func() error { ticks++; return nil })
	s.Start()

	now := time.Unix(0, 0)
	if fired, _ := s.Advance(now); !fired {
		t.Fatal("first Advance should fire immediately")
	}
	now = now.Add(time.Second)
	if fired, _ := s.Advance(now); !fired {
		t.Fatal("expected a firing after a long pause")
	}
	now = now.Add(time.Millisecond)
	if fired, _ := s.Advance(now); fired {
		t.Fatal("backlog from the pause fired again on the next frame")
	}
	if ticks != 2 {
		t.Fatalf("expected 2 ticks, got %d", ticks)
	}
}

func TestSchedulerSetTPS(t *testing.T) {
	s := NewScheduler(0, nil)
	if s.TPS() != DefaultTPS {
		t.Fatalf("non-positive rate should fall back to %d, got %d", DefaultTPS, s.TPS())
	}
	s.SetTPS(25)
	if s.Interval() != 40*time.Millisecond || s.TPS() != 25 {
		t.Fatalf("unexpected interval %v / tps %d", s.Interval(), s.TPS())
	}
}

func TestSchedulerRunStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	s := NewScheduler(1000, func() error {
		calls++
		if calls == 3 {
			return boom
		}
		return nil
	})
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Run(ctx); !errors.Is(err, boom) {
		t.Fatalf("Run returned %v, want tick error", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 ticks before failure, got %d", calls)
	}
}

func TestSchedulerRunReturnsOnCancel(t *testing.T) {
	s := NewScheduler(1000, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Run(ctx); err != nil {
		t.Fatalf("cancelled Run returned %v", err)
	}
}
