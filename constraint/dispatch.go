package constraint

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Evaluate writes the p = Length() scalar residuals for knot k (1-based)
// into cOut, dispatching on the constraint's Kind. X holds all N states,
// U all N-1 controls.
func (c *Constraint) Evaluate(cOut *mat.VecDense, X, U []mat.Vector, k int) {
	switch c.kind {
	case KindGoal:
		c.evaluateGoal(cOut, X[k-1])
	case KindDynamics:
		if k < 2 {
			panic("constraint: Dynamics is undefined for k < 2")
		}
		c.evaluateDynamics(cOut, X[k-2], U[k-2], X[k-1], k)
	case KindBound:
		var u mat.Vector
		if k-1 < len(U) {
			u = U[k-1]
		}
		c.evaluateBound(cOut, X[k-1], u)
	case KindNorm:
		var x, u mat.Vector
		if c.normOnCtrl {
			u = U[k-1]
		} else {
			x = X[k-1]
		}
		c.evaluateNorm(cOut, x, u)
	}
}

// Jacobian writes the stage Jacobian (Cx, Cu) at knot k for a Markovian
// constraint. It returns an UnsupportedJacobianError for coupled
// constraints (spec.md §4.1 "may signal unsupported"); callers must
// dispatch on CoupledExpansion() before relying on this succeeding.
func (c *Constraint) Jacobian(Cx, Cu *mat.Dense, X, U []mat.Vector, k int) error {
	switch c.kind {
	case KindGoal:
		_, stateN := Cx.Dims()
		c.jacobianGoal(Cx, stateN)
		return nil
	case KindBound:
		c.jacobianBound(Cx, Cu)
		return nil
	case KindNorm:
		var x, u mat.Vector
		if c.normOnCtrl {
			u = U[k-1]
		} else {
			x = X[k-1]
		}
		c.jacobianNorm(Cx, Cu, x, u)
		return nil
	case KindDynamics:
		return &UnsupportedJacobianError{Label: c.label}
	}
	return &UnsupportedJacobianError{Label: c.label}
}

// JacobianCopy scatters this constraint's Jacobian at knot k into the
// caller's global dense matrix D, at the row indices cRows and the column
// indices xCols/uCols (one global column per local state/control
// component), for consumption by a direct solver (spec.md §4.1). For a
// coupled (Dynamics) constraint, xCols/uCols are the previous knot's
// columns and only ∂c/∂x_{k-1}, ∂c/∂u_{k-1} are scattered; the -I block
// with respect to x_k is not written.
func (c *Constraint) JacobianCopy(D *mat.Dense, X, U []mat.Vector, k int, cRows, xCols, uCols []int) {
	if c.scratchCx == nil {
		panic("constraint: JacobianCopy called before InitJacobian")
	}
	switch c.kind {
	case KindDynamics:
		c.jacobianCopyDynamics(D, X, U, k, cRows, xCols, uCols)
		return
	default:
		if err := c.Jacobian(c.scratchCx, c.scratchCu, X, U, k); err != nil {
			panic(err)
		}
	}
	p := c.Length()
	for r := 0; r < p; r++ {
		for ci, col := range xCols {
			D.Set(cRows[r], col, c.scratchCx.At(r, ci))
		}
		for ci, col := range uCols {
			D.Set(cRows[r], col, c.scratchCu.At(r, ci))
		}
	}
}

// jacobianCopyDynamics scatters ∂f/∂x_{k-1}, ∂f/∂u_{k-1} (from the model
// oracle's discrete_jacobian, spec.md §4.2's A_k, B_k) against the
// previous knot's columns. It writes nothing for the current knot's state
// columns, and nothing at all when the model is not a JacobianStager.
func (c *Constraint) jacobianCopyDynamics(D *mat.Dense, X, U []mat.Vector, k int, cRows, xColsPrev, uColsPrev []int) {
	if jm, ok := c.dynModel.(JacobianStager); ok {
		A := c.scratchCx
		B := c.scratchCu
		tPrev := c.dynTs[k-2]
		dt := c.dynTs[k-1] - c.dynTs[k-2]
		jm.StepJacobian(A, B, X[k-2], U[k-2], tPrev, dt)
		for r := 0; r < c.dynN; r++ {
			for ci, col := range xColsPrev {
				D.Set(cRows[r], col, A.At(r, ci))
			}
			for ci, col := range uColsPrev {
				D.Set(cRows[r], col, B.At(r, ci))
			}
		}
	}
}

// MaxViolationInfo returns the worst-violating component of an already
// evaluated residual vector c and a human-readable label for it, per
// spec.md §4.1.
func (c *Constraint) MaxViolationInfo(res mat.Vector, k int) (float64, string) {
	worst := 0.0
	worstIdx := 0
	for i := 0; i < res.Len(); i++ {
		v := res.AtVec(i)
		if c.sense == Inequality {
			v = max(v, 0) // inequality residuals are only "violating" when positive
		} else if v < 0 {
			v = -v
		}
		if v > worst {
			worst = v
			worstIdx = i
		}
	}
	return worst, fmt.Sprintf("%s[k=%d,i=%d]", c.label, k, worstIdx)
}
