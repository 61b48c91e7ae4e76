package sim

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/dynoptics/go-horizon/data"
)

// StateEstimatePlot plots the recorded plant trajectory of the named
// variable as a line and the estimator's values as scatter points.
// It returns error if either series is missing the variable.
func StateEstimatePlot(states, estimates *data.TimeSeriesData, name string) (*plot.Plot, error) {
	if states == nil || estimates == nil {
		return nil, fmt.Errorf("invalid data supplied")
	}

	stateVals, ok := states.Get(name)
	if !ok {
		return nil, fmt.Errorf("state data has no series for %q", name)
	}
	estimateVals, ok := estimates.Get(name)
	if !ok {
		return nil, fmt.Errorf("estimate data has no series for %q", name)
	}

	p := plot.New()

	p.Title.Text = name
	p.X.Label.Text = "Time"

	legend := plot.NewLegend()
	legend.Top = true
	p.Legend = legend

	stateLine, err := plotter.NewLine(makePoints(states.TimePoints(), stateVals))
	if err != nil {
		return nil, err
	}
	stateLine.Color = color.RGBA{B: 255, A: 255}

	p.Add(stateLine)
	p.Legend.Add("plant states", stateLine)

	estimateScatter, err := plotter.NewScatter(makePoints(estimates.TimePoints(), estimateVals))
	if err != nil {
		return nil, fmt.Errorf("failed to create scatter: %v", err)
	}
	estimateScatter.GlyphStyle.Color = color.RGBA{R: 255, A: 255}
	estimateScatter.Shape = draw.CircleGlyph{}
	estimateScatter.GlyphStyle.Radius = vg.Points(3)

	p.Add(estimateScatter)
	p.Legend.Add("estimates", estimateScatter)

	return p, nil
}

func makePoints(times, vals []float64) plotter.XYs {
	n := len(times)
	if len(vals) < n {
		n = len(vals)
	}
	pts := make(plotter.XYs, n)
	for i := 0; i < n; i++ {
		pts[i].X = times[i]
		pts[i].Y = vals[i]
	}

	return pts
}
