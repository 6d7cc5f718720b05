package cost

import "gonum.org/v1/gonum/mat"

// Quadratic is a time-invariant quadratic tracking cost:
//
//	stage_k(x, u)  = ½(x-xref)ᵀ Q (x-xref) + ½(u-uref)ᵀ R (u-uref)
//	terminal(x)    = ½(x-xref)ᵀ Qf (x-xref)
//
// the standard LQR-style cost used in spec.md §8's end-to-end scenarios.
// Q, R, Qf must be symmetric positive semi-definite; that is a
// precondition of the caller, not checked here (the oracle is trusted,
// per spec.md §6).
type Quadratic struct {
	Q, R, Qf   *mat.Dense
	XRef, URef *mat.VecDense

	// Scratch reused across every StageCost/StageDerivatives/TerminalCost
	// call instead of allocating dx, du and their Q/R products per knot
	// (spec.md §4.4's no-allocation invariant extends to the cost oracle,
	// which the backward pass and rollout call once per knot).
	dx, qdx *mat.VecDense
	du, rdu *mat.VecDense
}

// NewQuadratic builds a Quadratic cost tracking the origin unless XRef/URef
// are overridden after construction.
func NewQuadratic(Q, R, Qf *mat.Dense) *Quadratic {
	n, _ := Q.Dims()
	m, _ := R.Dims()
	return &Quadratic{
		Q: Q, R: R, Qf: Qf,
		XRef: mat.NewVecDense(n, nil),
		URef: mat.NewVecDense(m, nil),
		dx:   mat.NewVecDense(n, nil),
		qdx:  mat.NewVecDense(n, nil),
		du:   mat.NewVecDense(m, nil),
		rdu:  mat.NewVecDense(m, nil),
	}
}

func (c *Quadratic) StageCost(x, u mat.Vector, k int) float64 {
	c.dx.SubVec(x, c.XRef)
	c.du.SubVec(u, c.URef)
	c.qdx.MulVec(c.Q, c.dx)
	c.rdu.MulVec(c.R, c.du)
	return 0.5*mat.Dot(c.dx, c.qdx) + 0.5*mat.Dot(c.du, c.rdu)
}

func (c *Quadratic) TerminalCost(x mat.Vector) float64 {
	c.dx.SubVec(x, c.XRef)
	c.qdx.MulVec(c.Qf, c.dx)
	return 0.5 * mat.Dot(c.dx, c.qdx)
}

func (c *Quadratic) StageDerivatives(e *Expansion, x, u mat.Vector, k int) {
	e.Q.Copy(c.Q)
	e.R.Copy(c.R)
	e.H.Zero()

	c.dx.SubVec(x, c.XRef)
	c.du.SubVec(u, c.URef)

	e.Qv.MulVec(c.Q, c.dx)
	e.Rv.MulVec(c.R, c.du)
}

func (c *Quadratic) TerminalDerivatives(e *Expansion, x mat.Vector) {
	e.Q.Copy(c.Qf)
	e.R.Zero()
	e.H.Zero()
	e.Rv.Zero()

	c.dx.SubVec(x, c.XRef)
	e.Qv.MulVec(c.Qf, c.dx)
}
