// Package constraint implements the constraint library of spec.md §4.1: a
// homogeneous capability set over four closed variants (Goal, Dynamics,
// Bound, Norm) that plugs into both the backward/forward passes and a
// separate direct solver.
//
// spec.md §9 recommends a tagged sum type with a hand-written dispatcher
// for a closed, performance-sensitive variant list over an open interface
// hierarchy. The Go rendering of that is one concrete Constraint type
// carrying a Kind tag and per-variant fields, dispatched with a switch on
// that tag inside each method — the same shape the teacher used for its
// small concrete control structs (control.AnalogSwitch, control.Oscillator)
// implementing one shared capability interface, generalized here into a
// single closed type instead of several open ones.
package constraint

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Sense distinguishes equality constraints (c = 0) from inequality
// constraints, which use the convention c ≤ 0 per spec.md §4.1.
type Sense int

const (
	Equality Sense = iota
	Inequality
)

// Kind tags which of the four closed variants a Constraint holds.
type Kind int

const (
	KindGoal Kind = iota
	KindDynamics
	KindBound
	KindNorm
)

// Params are the augmented-Lagrangian knobs spec.md §4.1 says are
// "consumed by the outer augmented-Lagrangian loop" — carried here as
// plain data so that loop (out of scope for this module) can read them.
type Params struct {
	Phi      float64 // penalty growth factor φ
	Mu0      float64 // initial penalty μ0
	MuMax    float64 // penalty cap
	LambdaMax float64 // multiplier cap
	ATol     float64 // active-set tolerance
}

// DefaultParams returns the conventional augmented-Lagrangian defaults.
func DefaultParams() Params {
	return Params{Phi: 10, Mu0: 1, MuMax: 1e8, LambdaMax: 1e8, ATol: 1e-3}
}

// Stager is the model-facing evaluator a Dynamics constraint needs: it
// must be able to reproduce the exact discrete step the solver used so
// that the defect f(x_{k-1}, u_{k-1}, ...) - x_k is evaluated consistently
// with the rest of the solve.
type Stager interface {
	Step(xOut *mat.VecDense, x, u mat.Vector, t, dt float64)
}

// JacobianStager is the optional extension of Stager a Dynamics
// constraint needs to support JacobianCopy for a direct solver; models
// implement it by delegating to dynamics.DiscreteJacobian.
type JacobianStager interface {
	Stager
	StepJacobian(A, B *mat.Dense, x, u mat.Vector, t, dt float64)
}

// Constraint is the closed tagged-sum constraint value. Zero value is not
// meaningful; build one with NewGoal/NewDynamics/NewBound/NewNorm.
type Constraint struct {
	kind   Kind
	sense  Sense
	label  string
	Params Params

	// Goal
	goalInds   []int
	goalTarget []float64

	// Dynamics
	dynModel Stager
	dynTs    []float64 // knot times t_k (1-based indexing, dynTs[k-1] == t_k)
	dynN     int       // state dimension
	dynM     int       // control dimension

	// Bound: each slice holds (index, bound value) pairs for finite
	// bounds only, per spec.md §4.1 "linear in the number of finite
	// components".
	xMaxIdx, xMinIdx, uMaxIdx, uMinIdx   []int
	xMaxVal, xMinVal, uMaxVal, uMinVal []float64
	stateDim, controlDim               int

	// Norm
	normInds   []int
	normNMax   float64
	normOnCtrl bool

	// Scratch Jacobian buffers, sized once by InitJacobian and reused by
	// every subsequent Jacobian/JacobianCopy call (spec.md §9 "replace
	// null sentinel arrays with an explicit init-Jacobian operation").
	scratchCx, scratchCu *mat.Dense
}

// InitJacobian allocates this constraint's scratch Jacobian buffers for a
// problem with state dimension n and control dimension m. Call once after
// construction, before the first JacobianCopy.
func (c *Constraint) InitJacobian(n, m int) {
	p := c.Length()
	c.scratchCx = mat.NewDense(max(p, 1), max(n, 1), nil)
	c.scratchCu = mat.NewDense(max(p, 1), max(m, 1), nil)
}

// Length returns p, the number of scalar residual components.
func (c *Constraint) Length() int {
	switch c.kind {
	case KindGoal:
		return len(c.goalInds)
	case KindDynamics:
		return c.dynN
	case KindBound:
		return len(c.xMaxIdx) + len(c.xMinIdx) + len(c.uMaxIdx) + len(c.uMinIdx)
	case KindNorm:
		return 1
	default:
		panic(fmt.Sprintf("constraint: unknown kind %v", c.kind))
	}
}

func (c *Constraint) Sense() Sense { return c.sense }

// Descriptor booleans (spec.md §4.1).
func (c *Constraint) ConstJac() bool          { return c.kind == KindGoal || c.kind == KindBound }
func (c *Constraint) StateExpansion() bool    { return c.kind == KindGoal || c.kind == KindBound || (c.kind == KindNorm && !c.normOnCtrl) }
func (c *Constraint) ControlExpansion() bool  { return c.kind == KindBound || (c.kind == KindNorm && c.normOnCtrl) }
func (c *Constraint) CoupledExpansion() bool  { return c.kind == KindDynamics }
func (c *Constraint) Direct() bool            { return true }

// UnsupportedJacobianError is returned by Jacobian when called on a
// constraint whose stage Jacobian is not Markovian (i.e. CoupledExpansion
// is true), per spec.md §4.1 "may signal unsupported".
type UnsupportedJacobianError struct {
	Label string
}

func (e *UnsupportedJacobianError) Error() string {
	return fmt.Sprintf("constraint %q: stage Jacobian unsupported, constraint is coupled across knots", e.Label)
}
