package dynamics

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Pendulum is a nonlinear n=2, m=1 torque-actuated simple pendulum:
//
//	theta'   = omega
//	omega'   = -(g/l) sin(theta) - b*omega/(m*l^2) + u/(m*l^2)
//
// the nonlinear model offered by cmd/ilqrdemo alongside the linear double
// integrator. The backward pass's restart path is tested with the double
// integrator under a negative control weight, not with this model.
type Pendulum struct {
	EuclideanDiff
	Mass, Length, Gravity, Damping float64
}

func NewPendulum(mass, length, damping float64) *Pendulum {
	return &Pendulum{Mass: mass, Length: length, Gravity: 9.81, Damping: damping}
}

func (Pendulum) StateDim() int   { return 2 }
func (Pendulum) ControlDim() int { return 1 }

func (p Pendulum) Derivative(xdot *mat.VecDense, x, u mat.Vector, t float64) {
	theta, omega := x.AtVec(0), x.AtVec(1)
	inertia := p.Mass * p.Length * p.Length
	if xdot.IsEmpty() {
		xdot.ReuseAsVec(2)
	}
	xdot.SetVec(0, omega)
	xdot.SetVec(1, -(p.Gravity/p.Length)*math.Sin(theta)-p.Damping*omega/inertia+u.AtVec(0)/inertia)
}

func (p Pendulum) ContinuousJacobian(Ac, Bc *mat.Dense, x, u mat.Vector, t float64) {
	theta := x.AtVec(0)
	inertia := p.Mass * p.Length * p.Length

	Ac.Reset()
	Ac.ReuseAs(2, 2)
	Ac.Set(0, 1, 1)
	Ac.Set(1, 0, -(p.Gravity/p.Length)*math.Cos(theta))
	Ac.Set(1, 1, -p.Damping/inertia)

	Bc.Reset()
	Bc.ReuseAs(2, 1)
	Bc.Set(1, 0, 1/inertia)
}
