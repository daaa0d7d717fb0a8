package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/gdamore/tcell/v2"

	"elementals/internal/board"
	"elementals/internal/config"
	"elementals/internal/core"
	"elementals/internal/term"
)

func main() {
	fs := flag.NewFlagSet("elementals-tui", flag.ExitOnError)
	logPath := fs.String("log", filepath.Join(os.TempDir(), "elementals-tui.log"), "file receiving log output")
	cfg, err := config.Parse(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}
	if err := run(cfg, *logPath); err != nil {
		fmt.Fprintf(os.Stderr, "elementals-tui: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logPath string) error {
	// The terminal is taken over by tcell, so logs go to a file.
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, nil))

	gen, err := cfg.Generator(core.NewRNG(cfg.Seed))
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	scr := term.New(screen)
	b, err := board.New(board.Options{Size: cfg.Size(), TPS: cfg.TPS, Logger: logger}, gen, scr, cfg.Decider(scr))
	if err != nil {
		return err
	}
	b.Start()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return scr.Run(ctx, b)
}
