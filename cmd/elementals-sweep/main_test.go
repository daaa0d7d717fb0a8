package main

import (
	"slices"
	"testing"
	"time"

	"elementals/internal/config"
	"elementals/internal/elemental"
)

func TestRunScenarioStopsAtStall(t *testing.T) {
	cfg := config.Default()
	cfg.Width, cfg.Height = 4, 4
	cfg.Cases = []config.Case{{Variant: elemental.NameStone, Weight: 1}}

	res := runScenario(cfg, 7, 1000)
	if res.err != nil {
		t.Fatalf("runScenario: %v", res.err)
	}
	if !res.stalled {
		t.Fatalf("expected stone to stall")
	}
	if res.ticks == 0 || res.ticks >= 1000 {
		t.Fatalf("unexpected tick count %d", res.ticks)
	}
	if len(res.counts) != 1 || res.counts[0].Count != 16 {
		t.Fatalf("unexpected counts %+v", res.counts)
	}
}

func TestRunScenarioHonoursCap(t *testing.T) {
	cfg := config.Default()
	cfg.Width, cfg.Height = 3, 3
	cfg.Cases = []config.Case{{Variant: elemental.NameEmber, Weight: 1}}

	res := runScenario(cfg, 1, 25)
	if res.err != nil {
		t.Fatalf("runScenario: %v", res.err)
	}
	if res.stalled || res.ticks != 25 {
		t.Fatalf("expected 25 ticks without a stall, got %d stalled=%t", res.ticks, res.stalled)
	}
}

func TestSummarize(t *testing.T) {
	s := summarize([]scenarioResult{
		{ticks: 10, stalled: true},
		{ticks: 30},
		{ticks: 20, stalled: true},
	})
	if s.min != 10 || s.max != 30 || s.total != 60 || s.mean != 20 || s.stalled != 2 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestSweepWithoutWorkersStillRuns(t *testing.T) {
	cfg := config.Default()
	cfg.Width, cfg.Height = 2, 2
	cfg.Seed = 10
	cfg.Cases = []config.Case{{Variant: elemental.NameStone, Weight: 1}}

	done := make(chan []scenarioResult, 1)
	go func() { done <- sweep(cfg, 3, 100, 0) }()
	select {
	case results := <-done:
		seeds := make([]int64, 0, len(results))
		for _, res := range results {
			seeds = append(seeds, res.seed)
		}
		slices.Sort(seeds)
		if !slices.Equal(seeds, []int64{10, 11, 12}) {
			t.Fatalf("unexpected seeds %v", seeds)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("sweep with zero workers never finished")
	}
}
