package telemetry

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"mad-abm/internal/sims/sir"
)

// Summary condenses a run into one row.
type Summary struct {
	Steps        int     `csv:"steps"`
	MeanInfected float64 `csv:"mean_infected"`
	StdInfected  float64 `csv:"std_infected"`
	PeakInfected int     `csv:"peak_infected"`
	PeakStep     int     `csv:"peak_step"`
	MeanCells    float64 `csv:"mean_infected_cells"`
	FinalN       int     `csv:"final_n"`
	Extinct      bool    `csv:"extinct"`
}

// Summarize computes statistics over rows. The zero Summary is returned for
// an empty series.
func Summarize(rows []sir.TimeStepResults) Summary {
	if len(rows) == 0 {
		return Summary{}
	}
	infected := make([]float64, len(rows))
	cells := make([]float64, len(rows))
	for i, r := range rows {
		infected[i] = float64(r.I)
		cells[i] = float64(r.CI)
	}
	s := Summary{Steps: len(rows)}
	s.MeanInfected, s.StdInfected = stat.MeanStdDev(infected, nil)
	if len(rows) == 1 {
		s.StdInfected = 0
	}
	peak := floats.MaxIdx(infected)
	s.PeakInfected = rows[peak].I
	s.PeakStep = rows[peak].TimeStep
	s.MeanCells = stat.Mean(cells, nil)
	last := rows[len(rows)-1]
	s.FinalN = last.N
	s.Extinct = last.I == 0 && last.CI == 0
	return s
}
