package dynamics

import "gonum.org/v1/gonum/mat"

// ModelStager adapts a Model plus an Integrator choice into the
// constraint package's Stager/JacobianStager interfaces, so a Dynamics
// constraint can reproduce exactly the discrete step and its Jacobian
// that the rest of the solver uses.
type ModelStager struct {
	Model Model
	Ir    Integrator

	jac *JacobianScratch
}

func NewModelStager(m Model, ir Integrator) ModelStager {
	return ModelStager{Model: m, Ir: ir, jac: NewJacobianScratch(m.StateDim(), m.ControlDim())}
}

func (s ModelStager) Step(xOut *mat.VecDense, x, u mat.Vector, t, dt float64) {
	DiscreteDynamics(xOut, s.Ir, s.Model, x, u, t, dt)
}

func (s ModelStager) StepJacobian(A, B *mat.Dense, x, u mat.Vector, t, dt float64) {
	DiscreteJacobian(A, B, s.Ir, s.Model, x, u, t, dt, s.jac)
}
