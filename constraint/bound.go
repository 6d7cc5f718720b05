package constraint

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// NewBound builds an inequality constraint on per-component state and
// control bounds. Infinite bounds are discarded at construction
// (spec.md §4.1); residual ordering is
// [x_max_finite, x_min_finite, u_max_finite, u_min_finite] (spec.md §8
// scenario 3), upper-bound residuals positive-signed, lower-bound
// residuals negative-signed.
func NewBound(xMax, xMin, uMax, uMin []float64, label string) *Constraint {
	c := &Constraint{kind: KindBound, sense: Inequality, label: label, Params: DefaultParams()}
	c.stateDim = len(xMax)
	c.controlDim = len(uMax)
	c.xMaxIdx, c.xMaxVal = finite(xMax)
	c.xMinIdx, c.xMinVal = finite(xMin)
	c.uMaxIdx, c.uMaxVal = finite(uMax)
	c.uMinIdx, c.uMinVal = finite(uMin)
	return c
}

func finite(bounds []float64) (idx []int, val []float64) {
	for i, b := range bounds {
		if !math.IsInf(b, 0) {
			idx = append(idx, i)
			val = append(val, b)
		}
	}
	return idx, val
}

// evaluateBound writes: x[i] - xMax[i] for each finite upper state bound,
// xMin[i] - x[i] for each finite lower state bound (so that c ≤ 0 encodes
// "within bounds"), then the analogous control residuals.
func (c *Constraint) evaluateBound(cOut *mat.VecDense, x, u mat.Vector) {
	row := 0
	for i, idx := range c.xMaxIdx {
		cOut.SetVec(row, x.AtVec(idx)-c.xMaxVal[i])
		row++
	}
	for i, idx := range c.xMinIdx {
		cOut.SetVec(row, c.xMinVal[i]-x.AtVec(idx))
		row++
	}
	for i, idx := range c.uMaxIdx {
		cOut.SetVec(row, u.AtVec(idx)-c.uMaxVal[i])
		row++
	}
	for i, idx := range c.uMinIdx {
		cOut.SetVec(row, c.uMinVal[i]-u.AtVec(idx))
		row++
	}
}

// jacobianBound fills Cx (p×n) and Cu (p×m) with the ±1 sign pattern of
// spec.md §8 scenario 3: '+' for upper bounds, '-' for lower bounds.
func (c *Constraint) jacobianBound(Cx, Cu *mat.Dense) {
	Cx.Zero()
	Cu.Zero()
	row := 0
	for _, idx := range c.xMaxIdx {
		Cx.Set(row, idx, 1)
		row++
	}
	for _, idx := range c.xMinIdx {
		Cx.Set(row, idx, -1)
		row++
	}
	for _, idx := range c.uMaxIdx {
		Cu.Set(row, idx, 1)
		row++
	}
	for _, idx := range c.uMinIdx {
		Cu.Set(row, idx, -1)
		row++
	}
}
