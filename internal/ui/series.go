package ui

import (
	"image"
	"math"

	"mad-abm/internal/sims/sir"
	"mad-abm/internal/telemetry"
)

// SeriesWindow returns the newest rows that fit one per pixel column of a
// chart width pixels wide.
func SeriesWindow(rows []sir.TimeStepResults, width int) []sir.TimeStepResults {
	if width <= 0 {
		return nil
	}
	if len(rows) > width {
		return rows[len(rows)-width:]
	}
	return rows
}

// SeriesLines scales every count column of series into frame, oldest step at
// the left edge and zero on the bottom row. Lines come in the order of
// Series.Columns. An empty series or frame gives no lines.
func SeriesLines(series telemetry.Series, frame image.Rectangle) [][]image.Point {
	n := series.Len()
	if n == 0 || frame.Empty() {
		return nil
	}
	top := max(series.Max(), 1)
	w, h := float64(frame.Dx()-1), float64(frame.Dy()-1)
	x := func(k int) int {
		if n == 1 {
			return frame.Min.X
		}
		return frame.Min.X + int(math.Round(float64(k)*w/float64(n-1)))
	}
	y := func(v float64) int {
		return frame.Max.Y - 1 - int(math.Round(v/top*h))
	}

	cols := series.Columns()
	lines := make([][]image.Point, len(cols))
	for c, col := range cols {
		line := make([]image.Point, n)
		for k, v := range col {
			line[k] = image.Pt(x(k), y(v))
		}
		lines[c] = line
	}
	return lines
}
