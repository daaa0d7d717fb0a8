package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"elementals/internal/board"
	"elementals/internal/config"
	"elementals/internal/core"
	"elementals/internal/render"
)

type scenarioResult struct {
	seed    int64
	ticks   uint64
	stalled bool
	counts  []board.Occupancy
	err     error
}

func main() {
	runs := flag.Int("runs", 64, "number of seeds to simulate")
	maxTicks := flag.Int("max-ticks", 10000, "ticks to simulate before giving up on a stall")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	cfg, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	fmt.Printf("Sweeping %d seeds from %d on a %dx%d board (%d workers, cap %s ticks)\n",
		*runs, cfg.Seed, cfg.Width, cfg.Height, max(*workers, 1), humanize.Comma(int64(*maxTicks)))

	start := time.Now()
	var all []scenarioResult
	failed := 0
	for _, res := range sweep(cfg, *runs, *maxTicks, *workers) {
		if res.err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "seed %d: %v\n", res.seed, res.err)
			continue
		}
		all = append(all, res)
	}
	elapsed := time.Since(start)

	sort.Slice(all, func(i, j int) bool {
		if all[i].ticks != all[j].ticks {
			return all[i].ticks > all[j].ticks
		}
		return all[i].seed < all[j].seed
	})

	s := summarize(all)
	fmt.Printf("\n%d runs in %s: %d stalled, %d hit the cap, %d failed\n",
		len(all), elapsed.Round(time.Millisecond), s.stalled, len(all)-s.stalled, failed)
	if len(all) == 0 {
		return
	}
	fmt.Printf("ticks to stall: min %s  mean %s  max %s  total %s\n",
		humanize.Comma(int64(s.min)), humanize.FormatFloat("#,###.##", s.mean), humanize.Comma(int64(s.max)), humanize.Comma(int64(s.total)))

	fmt.Printf("\nLongest-lived boards:\n")
	for i := 0; i < len(all) && i < 5; i++ {
		res := all[i]
		fmt.Printf("%2d) seed=%d ticks=%s stalled=%t %s\n", i+1, res.seed, humanize.Comma(int64(res.ticks)), res.stalled, formatCounts(res.counts))
	}
}

// sweep runs seeds cfg.Seed .. cfg.Seed+runs-1 on a pool of workers and
// returns the results in completion order. At least one worker is used.
func sweep(cfg config.Config, runs, maxTicks, workers int) []scenarioResult {
	workers = max(workers, 1)
	jobs := make(chan int64)
	results := make(chan scenarioResult)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seed := range jobs {
				results <- runScenario(cfg, seed, maxTicks)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for i := 0; i < runs; i++ {
			jobs <- cfg.Seed + int64(i)
		}
		close(jobs)
	}()

	var all []scenarioResult
	for res := range results {
		all = append(all, res)
	}
	return all
}

// runScenario fills a board from seed and ticks it until it stalls or
// maxTicks is reached.
func runScenario(cfg config.Config, seed int64, maxTicks int) scenarioResult {
	res := scenarioResult{seed: seed}
	gen, err := cfg.Generator(core.NewRNG(seed))
	if err != nil {
		res.err = err
		return res
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	frames := render.NewFrameBuffer(cfg.Size())
	b, err := board.New(board.Options{Size: cfg.Size(), TPS: cfg.TPS, Logger: logger}, gen, frames, board.NeverRefill)
	if err != nil {
		res.err = err
		return res
	}
	b.Start()
	for i := 0; i < maxTicks && b.Running(); i++ {
		if err := b.Tick(); err != nil {
			res.err = err
			return res
		}
	}
	res.ticks = b.Ticks()
	res.stalled = b.Stalls() > 0
	res.counts = frames.Counts()
	return res
}

type summary struct {
	min, max, total uint64
	mean            float64
	stalled         int
}

func summarize(all []scenarioResult) summary {
	var s summary
	for i, res := range all {
		if i == 0 || res.ticks < s.min {
			s.min = res.ticks
		}
		if res.ticks > s.max {
			s.max = res.ticks
		}
		s.total += res.ticks
		if res.stalled {
			s.stalled++
		}
	}
	if len(all) > 0 {
		s.mean = float64(s.total) / float64(len(all))
	}
	return s
}

func formatCounts(counts []board.Occupancy) string {
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s=%s", c.Variant, humanize.Comma(int64(c.Count))))
	}
	return strings.Join(parts, " ")
}
