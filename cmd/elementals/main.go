//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"

	"elementals/internal/app"
	"elementals/internal/board"
	"elementals/internal/config"
	"elementals/internal/core"
	"elementals/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(2)
	}

	gen, err := cfg.Generator(core.NewRNG(cfg.Seed))
	if err != nil {
		logger.Error("build generator", "err", err)
		os.Exit(2)
	}
	frames := render.NewFrameBuffer(cfg.Size())
	// The window cannot block on a prompt; "ask" leaves the board stalled
	// until R is pressed.
	b, err := board.New(board.Options{Size: cfg.Size(), TPS: cfg.TPS, Logger: logger}, gen, frames, cfg.Decider(nil))
	if err != nil {
		logger.Error("create board", "err", err)
		os.Exit(1)
	}
	b.Start()

	game := app.New(b, frames, cfg.Scale)
	ebiten.SetWindowTitle("Elementals")
	// Update must run at least as often as the fastest selectable tick rate.
	ebiten.SetTPS(board.MaxTPS)
	ebiten.SetWindowSize(cfg.Width*cfg.Scale+app.HUDWidth, cfg.Height*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("game loop", "err", err)
		os.Exit(1)
	}
}
