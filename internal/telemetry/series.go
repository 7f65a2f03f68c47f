package telemetry

import (
	"gonum.org/v1/gonum/floats"

	"mad-abm/internal/sims/sir"
)

// Series holds the plotted columns of a results table, one value per step.
type Series struct {
	Steps       []float64
	Susceptible []float64
	Infected    []float64
	Cells       []float64
}

// SeriesOf splits rows into plot columns.
func SeriesOf(rows []sir.TimeStepResults) Series {
	s := Series{
		Steps:       make([]float64, len(rows)),
		Susceptible: make([]float64, len(rows)),
		Infected:    make([]float64, len(rows)),
		Cells:       make([]float64, len(rows)),
	}
	for k, r := range rows {
		s.Steps[k] = float64(r.TimeStep)
		s.Susceptible[k] = float64(r.S)
		s.Infected[k] = float64(r.I)
		s.Cells[k] = float64(r.CI)
	}
	return s
}

// Len returns the number of steps in the series.
func (s Series) Len() int { return len(s.Steps) }

// Columns returns the count columns in legend order.
func (s Series) Columns() [][]float64 {
	return [][]float64{s.Susceptible, s.Infected, s.Cells}
}

// Max returns the largest count in any column, or 0 for an empty series.
func (s Series) Max() float64 {
	if s.Len() == 0 {
		return 0
	}
	m := 0.0
	for _, col := range s.Columns() {
		m = max(m, floats.Max(col))
	}
	return m
}
