package dynamics

import "gonum.org/v1/gonum/mat"

// DoubleIntegrator is the canonical n=2, m=1 test model used throughout
// spec.md §8's end-to-end scenarios: xdot = [x2, u], i.e. A = [[0,1],[0,0]],
// B = [[0],[1]]. It is linear, so DiscreteJacobian's zero-order-hold
// exponential is exact.
type DoubleIntegrator struct {
	EuclideanDiff
}

func NewDoubleIntegrator() *DoubleIntegrator {
	return &DoubleIntegrator{}
}

func (DoubleIntegrator) StateDim() int   { return 2 }
func (DoubleIntegrator) ControlDim() int { return 1 }

func (DoubleIntegrator) Derivative(xdot *mat.VecDense, x, u mat.Vector, t float64) {
	if xdot.IsEmpty() {
		xdot.ReuseAsVec(2)
	}
	xdot.SetVec(0, x.AtVec(1))
	xdot.SetVec(1, u.AtVec(0))
}

func (DoubleIntegrator) ContinuousJacobian(Ac, Bc *mat.Dense, x, u mat.Vector, t float64) {
	Ac.Reset()
	Ac.ReuseAs(2, 2)
	Ac.Set(0, 1, 1)
	Bc.Reset()
	Bc.ReuseAs(2, 1)
	Bc.Set(1, 0, 1)
}
