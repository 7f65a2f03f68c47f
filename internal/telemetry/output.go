// Package telemetry exports the time series of a run: a CSV row per step, the
// configuration used, a summary and a chart.
package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"mad-abm/internal/config"
	"mad-abm/internal/sims/sir"
)

// File names inside the output directory.
const (
	StepsFile   = "steps.csv"
	SummaryFile = "summary.csv"
	ConfigFile  = "config.yaml"
	ChartFile   = "series.png"
)

// OutputManager writes the experiment output. A nil *OutputManager is valid
// and discards everything.
type OutputManager struct {
	dir       string
	stepsFile *os.File

	headerWritten bool
	rows          []sir.TimeStepResults
}

// NewOutputManager creates dir and opens the step log. It returns nil when
// dir is empty.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, StepsFile))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", StepsFile, err)
	}
	return &OutputManager{dir: dir, stepsFile: f}, nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// WriteConfig saves the configuration the run used.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil || cfg == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, ConfigFile))
}

// WriteStep appends one row to the step log. The header is written once.
func (om *OutputManager) WriteStep(row sir.TimeStepResults) error {
	if om == nil {
		return nil
	}
	records := []sir.TimeStepResults{row}
	if !om.headerWritten {
		if err := gocsv.Marshal(records, om.stepsFile); err != nil {
			return fmt.Errorf("writing steps: %w", err)
		}
		om.headerWritten = true
	} else if err := gocsv.MarshalWithoutHeaders(records, om.stepsFile); err != nil {
		return fmt.Errorf("writing steps: %w", err)
	}
	om.rows = append(om.rows, row)
	return nil
}

// Rows returns every row written so far.
func (om *OutputManager) Rows() []sir.TimeStepResults {
	if om == nil {
		return nil
	}
	return om.rows
}

// Finish writes the summary and, when chart is set, the chart of the rows
// written so far.
func (om *OutputManager) Finish(chart bool) error {
	if om == nil || len(om.rows) == 0 {
		return nil
	}
	summary := Summarize(om.rows)
	f, err := os.Create(filepath.Join(om.dir, SummaryFile))
	if err != nil {
		return fmt.Errorf("creating %s: %w", SummaryFile, err)
	}
	werr := gocsv.Marshal([]Summary{summary}, f)
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("writing summary: %w", werr)
	}
	if cerr != nil {
		return fmt.Errorf("closing summary: %w", cerr)
	}
	if !chart {
		return nil
	}
	return WriteChart(filepath.Join(om.dir, ChartFile), om.rows)
}

// Close closes the step log.
func (om *OutputManager) Close() error {
	if om == nil || om.stepsFile == nil {
		return nil
	}
	err := om.stepsFile.Close()
	om.stepsFile = nil
	if err != nil && !errors.Is(err, os.ErrClosed) {
		return err
	}
	return nil
}
