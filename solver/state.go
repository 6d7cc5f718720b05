// Package solver implements the core of the iLQR trajectory optimizer:
// Solver State (this file), the backward Riccati pass, the forward
// line-search rollout, and the regularization controller.
//
// Solver State owns every buffer for the duration of a solve, the way the
// teacher's generallSimulator owns its state vector and transition matrix
// (simulator/simulator.go) rather than allocating per call. Every per-knot
// matrix/vector below is allocated exactly once, in New. BackwardPass still
// allocates temporaries inside matx.TryCholesky, matx.Symmetrize and the
// matrix exponential of dynamics.DiscreteJacobian, and appends a freshly
// allocated snapshot per knot when Options.SaveS is set.
package solver

import (
	"errors"

	"github.com/hammal/ilqr/constraint"
	"github.com/hammal/ilqr/cost"
	"github.com/hammal/ilqr/dynamics"
	"gonum.org/v1/gonum/mat"
)

// CostToGoSnapshot is one knot's worth of diagnostic state, persisted only
// when Options.SaveS is set (spec.md §4.4).
type CostToGoSnapshot struct {
	P  *mat.Dense
	P0 *mat.VecDense
	Dc float64
}

// State is the Solver State of spec.md §4.4.
type State struct {
	Model dynamics.Model
	Ir    dynamics.Integrator
	Cost  cost.Cost
	Opts  Options

	N     int // number of knots
	Nx    int // state dimension n
	Nu    int // control dimension m
	Ts    []float64

	X, U, Xtmp, Utmp []*mat.VecDense

	E []*cost.Expansion

	A, B []*mat.Dense // per-knot dynamics Jacobians, len N-1

	Qxx, Quu, Qux, QuuReg, QuxReg []*mat.Dense
	Qx, Qu                        []*mat.VecDense

	K []*mat.Dense     // feedback gains, len N-1
	D []*mat.VecDense  // feedforward terms d_k, len N-1

	P []*mat.Dense    // cost-to-go Hessian, len N
	p []*mat.VecDense // cost-to-go gradient, len N

	DeltaV [2]float64

	Reg Regularizer

	Status Status

	Constraints []*constraint.Constraint

	SavedS []CostToGoSnapshot

	// Scratch buffers reused across every knot of the backward pass and
	// forward rollout (spec.md §9 "factorization reuse" / "mutable
	// scratch everywhere").
	scratchNN1             *mat.Dense
	scratchMN1, scratchMN2 *mat.Dense
	scratchMM1             *mat.Dense
	scratchNVec1           *mat.VecDense
	scratchMVec1           *mat.VecDense

	// JacScratch backs every DiscreteJacobian call the backward pass makes,
	// sized once here instead of allocating Ac/Bc/aug per knot.
	JacScratch *dynamics.JacobianScratch
}

// New allocates every buffer a solve needs. N must be ≥ 2 and ts must be
// strictly increasing (spec.md §3 invariants I1, I2), checked here as a
// construction-time precondition violation (fatal, per spec.md §7).
func New(model dynamics.Model, c cost.Cost, ts []float64, opts Options) *State {
	n, m := model.StateDim(), model.ControlDim()
	N := len(ts)
	if N < 2 {
		panic(errors.New("solver: N < 2"))
	}
	for k := 0; k < N-1; k++ {
		if ts[k+1]-ts[k] <= 0 {
			panic(errors.New("solver: knot times must be strictly increasing"))
		}
	}

	s := &State{
		Model: model, Ir: dynamics.RK4, Cost: c, Opts: opts,
		N: N, Nx: n, Nu: m, Ts: append([]float64(nil), ts...),
		Reg: NewRegularizer(opts),
	}

	s.X = newVecs(N, n)
	s.Xtmp = newVecs(N, n)
	s.U = newVecs(N-1, m)
	s.Utmp = newVecs(N-1, m)

	s.E = make([]*cost.Expansion, N)
	for k := range s.E {
		s.E[k] = cost.NewExpansion(n, m)
	}

	s.A = newDenses(N-1, n, n)
	s.B = newDenses(N-1, n, m)

	s.Qxx = newDenses(N-1, n, n)
	s.Quu = newDenses(N-1, m, m)
	s.Qux = newDenses(N-1, m, n)
	s.QuuReg = newDenses(N-1, m, m)
	s.QuxReg = newDenses(N-1, m, n)
	s.Qx = newVecs(N-1, n)
	s.Qu = newVecs(N-1, m)

	s.K = newDenses(N-1, m, n)
	s.D = newVecs(N-1, m)

	s.P = newDenses(N, n, n)
	s.p = newVecs(N, n)

	s.scratchNN1 = mat.NewDense(n, n, nil)
	s.scratchMN1 = mat.NewDense(m, n, nil)
	s.scratchMN2 = mat.NewDense(m, n, nil)
	s.scratchMM1 = mat.NewDense(m, m, nil)
	s.scratchNVec1 = mat.NewVecDense(n, nil)
	s.scratchMVec1 = mat.NewVecDense(m, nil)

	s.JacScratch = dynamics.NewJacobianScratch(n, m)

	return s
}

func newVecs(count, dim int) []*mat.VecDense {
	out := make([]*mat.VecDense, count)
	for i := range out {
		out[i] = mat.NewVecDense(dim, nil)
	}
	return out
}

func newDenses(count, r, c int) []*mat.Dense {
	out := make([]*mat.Dense, count)
	for i := range out {
		out[i] = mat.NewDense(r, c, nil)
	}
	return out
}

// AddConstraint registers a constraint and initializes its Jacobian
// scratch buffers (spec.md §9's explicit init-Jacobian operation).
func (s *State) AddConstraint(c *constraint.Constraint) {
	c.InitJacobian(s.Nx, s.Nu)
	s.Constraints = append(s.Constraints, c)
}

// AcceptTrajectory swaps the scratch rollout trajectory into the live
// slots, the outer loop's "accept" step referenced in spec.md §2's data
// flow. No interior aliasing is created: X/U and Xtmp/Utmp simply
// exchange which slice header is "live".
func (s *State) AcceptTrajectory() {
	s.X, s.Xtmp = s.Xtmp, s.X
	s.U, s.Utmp = s.Utmp, s.U
}
