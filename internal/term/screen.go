// Package term runs a board in a terminal through tcell.
package term

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"elementals/internal/board"
	"elementals/internal/core"
	"elementals/internal/ui"
)

const (
	cellRune    = '█'
	cellColumns = 2
	sidebarGap  = 2
	tpsStep     = 5

	stallPrompt = "Elementals have no more moves. Reload the board? [y/n]"
)

var (
	textStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	dimStyle    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	promptStyle = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
)

// Screen draws frames into a tcell screen and doubles as the board's stall
// decider. Every method must be called from the goroutine driving the board.
type Screen struct {
	screen tcell.Screen
	events <-chan tcell.Event

	frame    board.Frame
	hasFrame bool
	running  bool
	rate     float64
	tps      int
	prompt   string
}

// New wraps an initialised screen and starts forwarding its events.
func New(s tcell.Screen) *Screen {
	events := make(chan tcell.Event, 64)
	go func() {
		defer close(events)
		for {
			ev := s.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()
	return newScreen(s, events)
}

func newScreen(s tcell.Screen, events <-chan tcell.Event) *Screen {
	return &Screen{screen: s, events: events, tps: core.DefaultTPS}
}

// Valid reports whether s is backed by a screen.
func (s *Screen) Valid() bool { return s != nil && s.screen != nil }

// RenderFrame stores f and redraws the screen.
func (s *Screen) RenderFrame(f board.Frame) {
	s.frame = f
	s.hasFrame = true
	s.running = f.Running
	s.draw()
}

// ConfirmRepopulate shows a y/n prompt and blocks until it is answered.
// Escape, or the screen shutting down, counts as no.
func (s *Screen) ConfirmRepopulate() bool {
	s.prompt = stallPrompt
	s.draw()
	defer func() {
		s.prompt = ""
		s.draw()
	}()
	for ev := range s.events {
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape {
				return false
			}
			if ev.Key() != tcell.KeyRune {
				continue
			}
			switch ev.Rune() {
			case 'y', 'Y':
				return true
			case 'n', 'N':
				return false
			}
		case *tcell.EventResize:
			s.screen.Sync()
			s.draw()
		}
	}
	return false
}

// Run fires the board's scheduler from a ticker and handles keys until ctx
// ends, the user quits or a tick fails.
func (s *Screen) Run(ctx context.Context, b *board.Board) error {
	sched := b.Scheduler()
	interval := sched.Interval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-s.events:
			if !ok {
				return nil
			}
			quit, err := s.handle(ev, b)
			if err != nil || quit {
				return err
			}
		case now := <-ticker.C:
			s.tps = sched.TPS()
			s.rate = sched.Rate()
			running := b.Running()
			if err := sched.Fire(now); err != nil {
				return err
			}
			s.running = b.Running()
			if !running {
				// Paused boards render nothing; keep the stats current.
				s.draw()
			}
		}
		if next := sched.Interval(); next != interval {
			interval = next
			ticker.Reset(interval)
		}
	}
}

func (s *Screen) handle(ev tcell.Event, b *board.Board) (quit bool, err error) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		s.screen.Sync()
		s.draw()
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true, nil
		case tcell.KeyRune:
		default:
			return false, nil
		}
		switch ev.Rune() {
		case 'q':
			return true, nil
		case ' ':
			b.SetRunning(!b.Running())
		case 'n':
			if !b.Running() {
				err = b.Tick()
			}
		case 'r':
			err = b.Repopulate()
		case '+', '=':
			b.SetIntParameter("tps", b.Scheduler().TPS()+tpsStep)
		case '-':
			b.SetIntParameter("tps", b.Scheduler().TPS()-tpsStep)
		}
		s.tps = b.Scheduler().TPS()
		s.running = b.Running()
		s.draw()
	}
	return false, err
}

func (s *Screen) draw() {
	s.screen.Clear()
	if s.hasFrame {
		s.drawCells()
		s.drawSidebar()
	}
	if s.prompt != "" {
		_, h := s.screen.Size()
		s.drawText(0, h-1, promptStyle, s.prompt)
	}
	s.screen.Show()
}

func (s *Screen) drawCells() {
	f := s.frame
	for y := 0; y < f.Size.Y; y++ {
		for x := 0; x < f.Size.X; x++ {
			col := core.Black
			if e := f.At(core.XY(x, y)); e != nil {
				col = e.Color()
			}
			style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(col.R), int32(col.G), int32(col.B)))
			for dx := 0; dx < cellColumns; dx++ {
				s.screen.SetContent(x*cellColumns+dx, y, cellRune, nil, style)
			}
		}
	}
}

func (s *Screen) drawSidebar() {
	f := s.frame
	x := f.Size.X*cellColumns + sidebarGap
	status := ui.Status(s.running, f.Moved, f.Tick)
	lines := []struct {
		style tcell.Style
		text  string
	}{
		{textStyle, "Elementals"},
		{dimStyle, fmt.Sprintf("epoch %.8s", f.Epoch.String())},
		{textStyle, fmt.Sprintf("tick  %d", f.Tick)},
		{textStyle, fmt.Sprintf("rate  %.0f / %d", s.rate, s.tps)},
		{textStyle, status},
		{textStyle, ""},
	}
	y := 0
	for _, l := range lines {
		s.drawText(x, y, l.style, l.text)
		y++
	}
	for _, occ := range f.Counts {
		swatch := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(occ.Color.R), int32(occ.Color.G), int32(occ.Color.B)))
		s.screen.SetContent(x, y, cellRune, nil, swatch)
		s.drawText(x+2, y, textStyle, fmt.Sprintf("%-8s %d", occ.Title, occ.Count))
		y++
	}
	y++
	s.drawText(x, y, dimStyle, "space run/pause  n step  r refill")
	s.drawText(x, y+1, dimStyle, "+/- rate  q quit")
}

func (s *Screen) drawText(x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
