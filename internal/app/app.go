//go:build ebiten

// Package app hosts a board inside an ebiten window.
package app

import (
	"time"

	"elementals/internal/board"
	"elementals/internal/core"
	"elementals/internal/render"
	"elementals/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// HUDWidth is the width of the panel drawn to the right of the board.
const HUDWidth = 260

var readinessTint = core.White

// Game adapts a board to the ebiten.Game interface. The board is only ever
// touched from Update, which ebiten calls on a single goroutine.
type Game struct {
	board   *board.Board
	frames  *render.FrameBuffer
	painter *render.GridPainter
	hud     *ui.HUD

	scale     int
	readiness bool
}

// New constructs a Game for a board that renders into frames.
func New(b *board.Board, frames *render.FrameBuffer, scale int) *Game {
	if scale <= 0 {
		scale = 1
	}
	return &Game{
		board:   b,
		frames:  frames,
		painter: render.NewGridPainter(b.Size()),
		hud:     ui.NewHUD(b, HUDWidth),
		scale:   scale,
	}
}

// Update handles keys, advances the board and refreshes the HUD.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.board.SetRunning(!g.board.Running())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) && !g.board.Running() {
		if err := g.board.Tick(); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.board.Repopulate(); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.Key1) {
		g.readiness = !g.readiness
	}

	if _, err := g.board.Advance(time.Now()); err != nil {
		return err
	}
	g.hud.Update(g.boardWidth())
	return nil
}

// Draw renders the latest frame, the optional readiness overlay and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.frames, g.scale)
	if g.readiness {
		g.painter.BlitMask(screen, g.board.Readiness(), readinessTint, g.scale)
	}
	g.hud.Draw(screen, g.boardWidth(), g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.boardWidth() + HUDWidth, g.board.Size().Y * g.scale
}

func (g *Game) boardWidth() int { return g.board.Size().X * g.scale }
