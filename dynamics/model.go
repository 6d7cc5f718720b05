// Package dynamics provides the Model Oracle consumed by the solver:
// discrete_dynamics, discrete_jacobian and state_diff, built the way the
// teacher's ssm package built a continuous-time state-space model plus a
// zero-order-hold discretization (ssm.LinearStateSpaceModel,
// computeStateTransistion). Stage integration is delegated to the
// teacher's ode.RungeKutta, generalized off ssm.LinearStateSpaceModel and
// onto the Model interface below.
package dynamics

import (
	"github.com/hammal/ilqr/ode"
	"gonum.org/v1/gonum/mat"
)

// Integrator is the explicit-scheme tag passed opaquely through the
// backward pass and rollout, per spec.md §6.
type Integrator int

const (
	// RK4 integrates the continuous dynamics with classical 4th-order
	// Runge-Kutta.
	RK4 Integrator = iota
	// Euler uses a single explicit Euler step.
	Euler
)

// Model is the oracle a solver.State is built around. Implementations own
// their own dimensions and provide both the continuous-time vector field
// (for state propagation) and its Jacobian (for discrete linearization).
type Model interface {
	StateDim() int
	ControlDim() int

	// Derivative writes xdot = f(x, u, t) into xdot.
	Derivative(xdot *mat.VecDense, x, u mat.Vector, t float64)

	// ContinuousJacobian writes Ac = ∂f/∂x, Bc = ∂f/∂u evaluated at (x, u, t).
	ContinuousJacobian(Ac, Bc *mat.Dense, x, u mat.Vector, t float64)

	// StateDiff writes the generalized difference xNew ⊖ xOld into delta.
	// Euclidean models embed EuclideanDiff to get plain subtraction.
	StateDiff(delta *mat.VecDense, xNew, xOld mat.Vector)
}

// EuclideanDiff implements Model.StateDiff as ordinary vector subtraction,
// the default for states that live in ℝⁿ rather than on a manifold.
type EuclideanDiff struct{}

func (EuclideanDiff) StateDiff(delta *mat.VecDense, xNew, xOld mat.Vector) {
	delta.SubVec(xNew, xOld)
}

// rk4Stepper and eulerStepper are shared across every DiscreteDynamics call:
// a RungeKutta's Butcher tableau is fixed data independent of the model
// being integrated, and its per-vector scratch is sized lazily on first use
// and reused after that (spec.md §4.4 "no allocation inside the backward
// pass, forward rollout"), so rebuilding one per knot per rollout step
// would defeat that invariant for no benefit.
var (
	rk4Stepper   = ode.NewRK4()
	eulerStepper = ode.NewEulerMethod()
)

// DiscreteDynamics integrates the model forward by dt starting at (x, t)
// under control u, held constant over the step, writing the result into
// xOut. This is the core's discrete_dynamics oracle call.
func DiscreteDynamics(xOut *mat.VecDense, ir Integrator, m Model, x, u mat.Vector, t, dt float64) {
	sys := modelSystem{m: m, u: u}
	stepper(ir).Step(xOut, t, t+dt, x, sys)
}

func stepper(ir Integrator) *ode.RungeKutta {
	switch ir {
	case Euler:
		return eulerStepper
	default:
		return rk4Stepper
	}
}

// modelSystem adapts a Model held at a fixed control u into the
// ode.DifferentiableSystem a RungeKutta stepper consumes.
type modelSystem struct {
	m Model
	u mat.Vector
}

func (s modelSystem) Derivative(out *mat.VecDense, t float64, state mat.Vector) {
	s.m.Derivative(out, state, s.u, t)
}

// JacobianScratch holds the buffers DiscreteJacobian needs to linearize and
// exponentiate the augmented block matrix. A solver.State owns exactly one,
// sized once at construction, the same pre-owned-scratch idiom as its
// other per-knot buffers, so that repeated backward-pass calls across every
// knot never allocate (spec.md §4.4).
type JacobianScratch struct {
	Ac, Bc, aug *mat.Dense
}

// NewJacobianScratch allocates the scratch for a model with state dimension
// n and control dimension m.
func NewJacobianScratch(n, m int) *JacobianScratch {
	return &JacobianScratch{
		Ac:  mat.NewDense(n, n, nil),
		Bc:  mat.NewDense(n, m, nil),
		aug: mat.NewDense(n+m, n+m, nil),
	}
}

// DiscreteJacobian writes A = ∂(discrete step)/∂x, B = ∂(discrete
// step)/∂u. It linearizes the continuous dynamics at (x, u, t) and
// exponentiates the augmented block matrix [[Ac, Bc], [0, 0]] * dt, the
// same zero-order-hold trick the teacher used in
// ssm.computeStateTransistion / LinearStateSpaceModel.ImpulseResponse.
// For a genuinely linear model this is exact; for a nonlinear model it is
// the standard first-order discretization used by iLQR's Jacobian oracle.
// scratch must have been built by NewJacobianScratch against this model's
// dimensions.
func DiscreteJacobian(A, B *mat.Dense, ir Integrator, m Model, x, u mat.Vector, t, dt float64, scratch *JacobianScratch) {
	n, c := m.StateDim(), m.ControlDim()
	m.ContinuousJacobian(scratch.Ac, scratch.Bc, x, u, t)

	scratch.aug.Zero()
	scratch.aug.Slice(0, n, 0, n).(*mat.Dense).Copy(scratch.Ac)
	scratch.aug.Slice(0, n, n, n+c).(*mat.Dense).Copy(scratch.Bc)
	scratch.aug.Scale(dt, scratch.aug)
	scratch.aug.Exp(scratch.aug)

	A.Copy(scratch.aug.Slice(0, n, 0, n))
	B.Copy(scratch.aug.Slice(0, n, n, n+c))
}
