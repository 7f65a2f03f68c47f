package main

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"mad-abm/internal/app"
	"mad-abm/internal/config"
	"mad-abm/internal/core"
	"mad-abm/internal/render"
)

// SnapshotFile receives the final landscape when an output directory is set.
const SnapshotFile = "landscape.png"

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.Parse("abm-run", args, stderr)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(stdout, nil))

	loop := core.NewEventLoop(64)
	session, err := app.NewSession(cfg, logger, core.NewTickerTask(loop))
	if err != nil {
		logger.Error("starting session", "err", err)
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if limit := cfg.Output.MaxSteps; limit > 0 {
		session.Scenario().OnStep(func(core.Sim) {
			if session.Scenario().Steps() >= limit {
				session.Scheduler().Stop()
				cancel()
			}
		})
	}

	logger.Info("starting headless run",
		"sim", cfg.Scenario.Sim,
		"seed", cfg.Scenario.Seed,
		"max_steps", cfg.Output.MaxSteps,
		"output", cfg.Output.Dir,
	)
	loop.Post(session.Scheduler().Start)
	runErr := loop.Run(ctx)
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}

	closeErr := session.Close()
	snapErr := writeSnapshot(cfg.Output.Dir, session.Scenario().Sim())
	if err := errors.Join(runErr, closeErr, snapErr); err != nil {
		logger.Error("run failed", "err", err)
		return err
	}
	logger.Info("run finished", "steps", session.Scenario().Steps())
	return nil
}

func writeSnapshot(dir string, sim core.Sim) error {
	if dir == "" {
		return nil
	}
	size := sim.Size()
	img := render.Landscape(sim.Cells(), size.W, size.H, render.HealthPalette)
	if img == nil {
		return fmt.Errorf("snapshot: %d cells do not fill %dx%d", len(sim.Cells()), size.W, size.H)
	}
	f, err := os.Create(filepath.Join(dir, SnapshotFile))
	if err != nil {
		return fmt.Errorf("creating %s: %w", SnapshotFile, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", SnapshotFile, err)
	}
	return f.Close()
}
