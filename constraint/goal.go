package constraint

import "gonum.org/v1/gonum/mat"

// NewGoal builds an equality constraint pinning the terminal state
// components at inds (1-based, per spec.md's public 1-based indexing
// contract) to target. Its Jacobian is the fixed selection matrix
// const_jac = true (spec.md §8 scenario 2).
func NewGoal(inds []int, target []float64, label string) *Constraint {
	if len(inds) != len(target) {
		panic("constraint: Goal inds and target must have the same length")
	}
	return &Constraint{
		kind:       KindGoal,
		sense:      Equality,
		label:      label,
		Params:     DefaultParams(),
		goalInds:   append([]int(nil), inds...),
		goalTarget: append([]float64(nil), target...),
	}
}

// evaluateGoal writes cOut[i] = x[goalInds[i]] - target[i]. Only defined
// at the terminal knot k = N; callers are responsible for only invoking
// it there.
func (c *Constraint) evaluateGoal(cOut *mat.VecDense, x mat.Vector) {
	for i, idx := range c.goalInds {
		cOut.SetVec(i, x.AtVec(idx-1)-c.goalTarget[i])
	}
}

func (c *Constraint) jacobianGoal(Cx *mat.Dense, n int) {
	Cx.Zero()
	for i, idx := range c.goalInds {
		Cx.Set(i, idx-1, 1)
	}
}
