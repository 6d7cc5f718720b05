// Package diagnostics renders a solve's iteration history to a plot,
// built the way the teacher's IntegratorStability.go/OscillatorStability.go
// top-level programs build a gonum/plot figure from simulated series.
package diagnostics

import (
	"errors"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// History accumulates three values per outer iteration — the line-search
// step size accepted, the trajectory cost and the regularization ρ, each as
// passed to Record — across repeated backward_pass/rollout cycles. It is
// diagnostic-only; nothing in the solver reads it back.
type History struct {
	Alpha []float64
	Cost  []float64
	Rho   []float64
}

// Record appends one outer iteration's values.
func (h *History) Record(alpha, cost, rho float64) {
	h.Alpha = append(h.Alpha, alpha)
	h.Cost = append(h.Cost, cost)
	h.Rho = append(h.Rho, rho)
}

// SaveCostHistory renders the cost and step-size history to path (".eps"
// or ".png", dispatched on extension by plot.Save) at the given width and
// height (vg lengths, e.g. 4*vg.Inch), the same call shape as the teacher's steadyStateReconstruction_test.go.
func (h *History) SaveCostHistory(path string, width, height vg.Length) error {
	if len(h.Cost) == 0 {
		return errors.New("diagnostics: empty history")
	}

	p := plot.New()
	p.Title.Text = "iLQR convergence"
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "cost / step size"

	costPts := make(plotter.XYs, len(h.Cost))
	alphaPts := make(plotter.XYs, len(h.Alpha))
	for i := range h.Cost {
		costPts[i].X = float64(i)
		costPts[i].Y = h.Cost[i]
	}
	for i := range h.Alpha {
		alphaPts[i].X = float64(i)
		alphaPts[i].Y = h.Alpha[i]
	}

	if err := plotutil.AddLines(p, "cost", costPts, "alpha", alphaPts); err != nil {
		return fmt.Errorf("diagnostics: %w", err)
	}
	return p.Save(width, height, path)
}
