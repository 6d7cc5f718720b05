// Package cost implements the Cost Oracle (spec.md §6): cost(x, u, k) and
// cost_derivatives(E, k, x, u) mutating a caller-owned quadratic expansion
// record, grounded on the Expansion record's shape in spec.md §3.
package cost

import "gonum.org/v1/gonum/mat"

// Expansion is the per-knot quadratic model E_k of spec.md §3: Q (n×n),
// R (m×m), H (n×m, may be zero), q (n), r (m). At the terminal knot only
// Q and q are meaningful.
type Expansion struct {
	Q  *mat.Dense
	R  *mat.Dense
	H  *mat.Dense
	Qv *mat.VecDense
	Rv *mat.VecDense
}

// NewExpansion allocates a zeroed expansion for state dimension n and
// control dimension m. Solver.State allocates one of these per knot at
// construction time and never again (§4.4 "no allocation inside the
// backward pass").
func NewExpansion(n, m int) *Expansion {
	return &Expansion{
		Q:  mat.NewDense(n, n, nil),
		R:  mat.NewDense(m, m, nil),
		H:  mat.NewDense(n, m, nil),
		Qv: mat.NewVecDense(n, nil),
		Rv: mat.NewVecDense(m, nil),
	}
}

func (e *Expansion) Reset() {
	e.Q.Zero()
	e.R.Zero()
	e.H.Zero()
	e.Qv.Zero()
	e.Rv.Zero()
}

// Cost is the oracle the backward pass and rollout both consume. k is the
// 1-based knot index, per spec.md §4.1's indexing contract.
type Cost interface {
	// StageCost evaluates the running cost at knot k < N.
	StageCost(x, u mat.Vector, k int) float64
	// TerminalCost evaluates the cost at the final knot N.
	TerminalCost(x mat.Vector) float64
	// StageDerivatives fills Q, R, H, q, r of e at a stage knot.
	StageDerivatives(e *Expansion, x, u mat.Vector, k int)
	// TerminalDerivatives fills Q, q of e at the terminal knot; R, H, r
	// are left zeroed, matching spec.md §3's "only Q and q are
	// meaningful" at k = N.
	TerminalDerivatives(e *Expansion, x mat.Vector)
}
