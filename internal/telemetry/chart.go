package telemetry

import (
	"errors"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"mad-abm/internal/sims/sir"
)

// ErrNoData is returned when there is nothing to chart.
var ErrNoData = errors.New("telemetry: no rows")

// WriteChart saves the susceptible, infected and infected-cell series of rows
// as an image. The format follows the file extension.
func WriteChart(path string, rows []sir.TimeStepResults) error {
	if len(rows) == 0 {
		return ErrNoData
	}
	series := SeriesOf(rows)
	x := series.Steps
	s, i, c := points(x, series.Susceptible), points(x, series.Infected), points(x, series.Cells)

	p := plot.New()
	p.Title.Text = "Agents and infected cells"
	p.X.Label.Text = "Time step"
	p.Y.Label.Text = "Count"
	if err := plotutil.AddLinePoints(p, "S", s, "I", i, "Cells I", c); err != nil {
		return fmt.Errorf("building chart: %w", err)
	}
	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("saving chart: %w", err)
	}
	return nil
}

func points(x, y []float64) plotter.XYs {
	xy := make(plotter.XYs, len(x))
	for k := range x {
		xy[k] = plotter.XY{X: x[k], Y: y[k]}
	}
	return xy
}
