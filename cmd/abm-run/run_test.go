package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mad-abm/internal/app"
	"mad-abm/internal/telemetry"
)

func TestRunStopsAtMaxSteps(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var stdout bytes.Buffer
	args := []string{"-steps", "3", "-out", dir, "-set", "fps=100", "-set", "n_agents0=20"}
	if err := run(ctx, args, &stdout, io.Discard); err != nil {
		t.Fatalf("run: %v\n%s", err, stdout.String())
	}
	if ctx.Err() != nil {
		t.Fatal("run only returned on timeout")
	}

	data, err := os.ReadFile(filepath.Join(dir, telemetry.StepsFile))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("steps.csv has %d lines, want header and 3 rows:\n%s", len(lines), data)
	}
	for _, name := range []string{telemetry.SummaryFile, telemetry.ConfigFile, telemetry.ChartFile, SnapshotFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
	if !strings.Contains(stdout.String(), `"msg":"run finished"`) {
		t.Fatalf("no completion log:\n%s", stdout.String())
	}
}

func TestRunRejectsUnknownSim(t *testing.T) {
	err := run(context.Background(), []string{"-sim", "nope"}, io.Discard, io.Discard)
	if !errors.Is(err, app.ErrUnknownSim) {
		t.Fatalf("err = %v", err)
	}
}
