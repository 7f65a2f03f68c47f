//go:build ebiten

package main

import (
	"errors"
	"log"
	"log/slog"
	"os"

	"mad-abm/internal/app"
	"mad-abm/internal/config"
	_ "mad-abm/internal/sims/sir"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg, err := config.Parse("abm", os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	clock := app.NewClock()
	session, err := app.NewSession(cfg, logger, clock)
	if err != nil {
		log.Fatalf("starting session: %v", err)
	}
	game := app.New(session, clock)

	ebiten.SetWindowTitle(cfg.Window.Title + " - " + session.Scenario().Sim().Name())
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)

	runErr := ebiten.RunGame(game)
	if err := session.Close(); err != nil {
		logger.Error("closing session", "err", err)
	}
	if runErr != nil && !errors.Is(runErr, ebiten.Termination) {
		log.Fatal(runErr)
	}
}
