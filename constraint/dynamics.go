package constraint

import "gonum.org/v1/gonum/mat"

// NewDynamics builds the coupled equality constraint
//
//	f(x_{k-1}, u_{k-1}, t_{k-1}, Δt) - x_k = 0
//
// defined only for k ≥ 2 (spec.md §4.1's indexing contract). ts holds the
// N knot times; stager reproduces the same discrete step the backward
// pass and rollout use, so that a direct solver built on this constraint
// agrees with the solver's own trajectory.
func NewDynamics(stager Stager, ts []float64, n, m int, label string) *Constraint {
	if len(ts) < 2 {
		panic("constraint: Dynamics requires at least 2 knot times")
	}
	return &Constraint{
		kind:     KindDynamics,
		sense:    Equality,
		label:    label,
		Params:   DefaultParams(),
		dynModel: stager,
		dynTs:    ts,
		dynN:     n,
		dynM:     m,
	}
}

// evaluateDynamics writes f(xPrev, uPrev, t_{k-1}, Δt_{k-1}) - xCur into
// cOut, for a coupled constraint defined at knot k (k ≥ 2, 1-based).
func (c *Constraint) evaluateDynamics(cOut *mat.VecDense, xPrev, uPrev, xCur mat.Vector, k int) {
	tPrev := c.dynTs[k-2]
	dt := c.dynTs[k-1] - c.dynTs[k-2]
	if cOut.IsEmpty() {
		cOut.ReuseAsVec(c.dynN)
	}
	c.dynModel.Step(cOut, xPrev, uPrev, tPrev, dt)
	cOut.SubVec(cOut, xCur)
}
