package telemetry

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mad-abm/internal/config"
	"mad-abm/internal/sims/sir"
)

func series() []sir.TimeStepResults {
	return []sir.TimeStepResults{
		{TimeStep: 0, N: 10, S: 10, I: 0, CI: 0},
		{TimeStep: 1, N: 10, S: 6, I: 4, CI: 2},
		{TimeStep: 2, N: 9, S: 7, I: 2, CI: 3},
		{TimeStep: 3, N: 9, S: 9, I: 0, CI: 1},
	}
}

func TestNilOutputManagerDiscards(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("om=%v err=%v", om, err)
	}
	if err := om.WriteStep(sir.TimeStepResults{}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatal(err)
	}
	if err := om.Finish(true); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}
	if om.Dir() != "" || om.Rows() != nil {
		t.Fatal("nil manager reported state")
	}
}

func TestWriteStepWritesHeaderOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range series() {
		if err := om.WriteStep(r); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, StepsFile))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5:\n%s", len(lines), data)
	}
	if lines[0] != "time_step,n,s,i,c_i" {
		t.Fatalf("header = %q", lines[0])
	}
	if lines[2] != "1,10,6,4,2" {
		t.Fatalf("row = %q", lines[2])
	}
	if strings.Count(string(data), "time_step") != 1 {
		t.Fatal("header repeated")
	}
}

func TestFinishWritesSummaryAndConfig(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()
	for _, r := range series() {
		if err := om.WriteStep(r); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatal(err)
	}
	if err := om.Finish(false); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{SummaryFile, ConfigFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, ChartFile)); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("chart written although disabled")
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(series())
	if s.Steps != 4 || s.PeakInfected != 4 || s.PeakStep != 1 || s.FinalN != 9 {
		t.Fatalf("summary = %+v", s)
	}
	if math.Abs(s.MeanInfected-1.5) > 1e-9 {
		t.Fatalf("mean = %v", s.MeanInfected)
	}
	// sample std of 0,4,2,0
	if want := math.Sqrt(11.0 / 3.0); math.Abs(s.StdInfected-want) > 1e-9 {
		t.Fatalf("std = %v, want %v", s.StdInfected, want)
	}
	if math.Abs(s.MeanCells-1.5) > 1e-9 {
		t.Fatalf("mean cells = %v", s.MeanCells)
	}
	if s.Extinct {
		t.Fatal("run with infected cells marked extinct")
	}
	if (Summarize(nil) != Summary{}) {
		t.Fatal("empty series gave a non-zero summary")
	}
	if one := Summarize(series()[:1]); one.StdInfected != 0 || !one.Extinct {
		t.Fatalf("single row summary = %+v", one)
	}
}

func TestWriteChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), ChartFile)
	if err := WriteChart(path, series()); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		t.Fatalf("chart missing: %v", err)
	}
	if err := WriteChart(path, nil); !errors.Is(err, ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}

func TestSeriesOf(t *testing.T) {
	s := SeriesOf(series())
	if s.Len() != 4 || s.Steps[3] != 3 || s.Infected[1] != 4 || s.Cells[2] != 3 {
		t.Fatalf("series = %+v", s)
	}
	if s.Max() != 10 {
		t.Fatalf("max = %v, want 10", s.Max())
	}
	if cols := s.Columns(); len(cols) != 3 || cols[1][1] != 4 {
		t.Fatalf("columns = %v", cols)
	}
	if empty := SeriesOf(nil); empty.Len() != 0 || empty.Max() != 0 {
		t.Fatalf("empty series = %+v", empty)
	}
}
