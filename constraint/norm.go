package constraint

import "gonum.org/v1/gonum/mat"

// NewNorm builds an equality constraint Σ_{i∈inds} v_i² - nMax = 0 where v
// is x_k (onControl=false) or u_k (onControl=true), per spec.md §8
// scenario 4.
func NewNorm(inds []int, nMax float64, onControl bool, label string) *Constraint {
	return &Constraint{
		kind:       KindNorm,
		sense:      Equality,
		label:      label,
		Params:     DefaultParams(),
		normInds:   append([]int(nil), inds...),
		normNMax:   nMax,
		normOnCtrl: onControl,
	}
}

func (c *Constraint) evaluateNorm(cOut *mat.VecDense, x, u mat.Vector) {
	v := x
	if c.normOnCtrl {
		v = u
	}
	sum := 0.0
	for _, idx := range c.normInds {
		a := v.AtVec(idx - 1)
		sum += a * a
	}
	cOut.SetVec(0, sum-c.normNMax)
}

// jacobianNorm fills ∂c/∂v_i = 2*v_i for i ∈ inds, zero elsewhere, into
// whichever of Cx/Cu the constraint is defined over.
func (c *Constraint) jacobianNorm(Cx, Cu *mat.Dense, x, u mat.Vector) {
	Cx.Zero()
	Cu.Zero()
	J, v := Cx, x
	if c.normOnCtrl {
		J, v = Cu, u
	}
	for _, idx := range c.normInds {
		J.Set(0, idx-1, 2*v.AtVec(idx-1))
	}
}
