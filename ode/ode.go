// Package ode implements the explicit Runge-Kutta family
// (https://en.wikipedia.org/wiki/Runge–Kutta_methods) against any system
// that can write its own derivative into a caller-supplied vector.
package ode

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// DifferentiableSystem is a vector field dx/dt = f(t, x). Derivative
// writes f(t, state) into out; implementations must not retain out or
// state beyond the call.
type DifferentiableSystem interface {
	Derivative(out *mat.VecDense, t float64, state mat.Vector)
}

// RungeKutta holds the Butcher tableau describing one explicit
// Runge-Kutta method, plus the per-vector scratch Step/AdaptiveCompute
// need. The scratch is sized lazily on the first call and then reused for
// every subsequent call (spec.md §4.4's no-allocation invariant) — the
// same "build once, reuse forever" idiom as solver.State's own buffers,
// rather than the teacher's original per-call K/errVec allocation.
type RungeKutta struct {
	Description butcherTableau

	n      int
	k      []*mat.VecDense
	tmp    mat.VecDense
	errVec mat.VecDense
}

func (rk *RungeKutta) ensureScratch(n int) {
	if rk.n == n {
		return
	}
	rk.n = n
	rk.k = make([]*mat.VecDense, rk.Description.stages)
	for i := range rk.k {
		rk.k[i] = mat.NewVecDense(n, nil)
	}
	rk.tmp.Reset()
	rk.tmp.ReuseAsVec(n)
	rk.errVec.Reset()
	rk.errVec.ReuseAsVec(n)
}

// Step advances value from time from to time to under system, writing the
// result into out and returning the tableau's embedded error estimate (the
// zero vector for a non-embedded method). Stages are evaluated
// sequentially; a Butcher tableau's stages are a data dependency chain
// (stage i needs stages 0..i-1), so there is nothing to fan out across
// goroutines for a single vector the way the teacher's Compute did across
// the columns of a state matrix.
func (rk *RungeKutta) Step(out *mat.VecDense, from, to float64, value mat.Vector, system DifferentiableSystem) mat.Vector {
	n := value.Len()
	rk.ensureScratch(n)
	h := to - from

	for i, ki := range rk.k {
		rk.tmp.CopyVec(value)
		for j, a := range rk.Description.rungeKuttaMatrix[i] {
			rk.tmp.AddScaledVec(&rk.tmp, h*a, rk.k[j])
		}
		system.Derivative(ki, from+h*rk.Description.nodes[i], &rk.tmp)
	}

	if out.IsEmpty() {
		out.ReuseAsVec(n)
	}
	out.CopyVec(value)
	for i, ki := range rk.k {
		out.AddScaledVec(out, h*rk.Description.weights[0][i], ki)
	}

	rk.errVec.Zero()
	if len(rk.Description.weights) == 2 {
		for i, ki := range rk.k {
			rk.errVec.AddScaledVec(&rk.errVec, h*(rk.Description.weights[1][i]-rk.Description.weights[0][i]), ki)
		}
	}
	return &rk.errVec
}

// AdaptiveCompute integrates from from to to, halving the step whenever
// the tableau's embedded error estimate exceeds tol, and writing the
// final state into value.
func (rk *RungeKutta) AdaptiveCompute(from, to, tol float64, value *mat.VecDense, system DifferentiableSystem) error {
	const maxNumberOfIterations = 10000

	n := value.Len()
	rk.ensureScratch(n)
	var current, next mat.VecDense
	current.ReuseAsVec(n)
	next.ReuseAsVec(n)
	current.CopyVec(value)

	tnow := from
	for tnow < to {
		tnext := to
		count := 0
		for {
			errVec := rk.Step(&next, tnow, tnext, &current, system)
			var errSum float64
			for i := 0; i < n; i++ {
				errSum += math.Abs(errVec.AtVec(i))
			}
			if errSum < tol {
				break
			}
			tnext = tnow + (tnext-tnow)/2
			count++
			if count >= maxNumberOfIterations {
				return errors.New("ode: adaptive Runge-Kutta did not converge within the iteration budget")
			}
		}
		current.CopyVec(&next)
		tnow = tnext
	}
	value.CopyVec(&current)
	return nil
}

// NewRK4 returns the classical fourth-order Runge-Kutta method.
func NewRK4() *RungeKutta {
	var temp butcherTableau
	temp.stages = 4
	temp.nodes = []float64{0, 1. / 2., 1. / 2., 1}
	temp.weights = [][]float64{{1. / 6., 1. / 3., 1. / 3., 1. / 6.}}
	temp.rungeKuttaMatrix = [][]float64{
		nil,
		{1. / 2.},
		{0, 1. / 2.},
		{0, 0, 1.},
	}
	return &RungeKutta{Description: temp}
}

// NewEulerMethod returns a single-stage explicit Euler method.
func NewEulerMethod() *RungeKutta {
	var temp butcherTableau
	temp.stages = 1
	temp.nodes = []float64{0}
	temp.weights = [][]float64{{1}}
	temp.rungeKuttaMatrix = [][]float64{nil}
	return &RungeKutta{Description: temp}
}

// butcherTableau describes the coefficients of an explicit Runge-Kutta
// method (https://en.wikipedia.org/wiki/Runge–Kutta_methods).
type butcherTableau struct {
	stages           int
	weights          [][]float64
	nodes            []float64
	rungeKuttaMatrix [][]float64
}

// NewFehlberg45 implements the Runge-Kutta-Fehlberg 4(5) pair
// (https://en.wikipedia.org/wiki/Runge%E2%80%93Kutta%E2%80%93Fehlberg_method),
// used by AdaptiveCompute for its embedded error estimate.
func NewFehlberg45() *RungeKutta {
	var temp butcherTableau
	temp.stages = 6
	temp.nodes = []float64{0, 1. / 4., 3. / 8., 12. / 13., 1., 1. / 2.}
	temp.weights = [][]float64{
		{16. / 135., 0, 6656. / 12825., 28561. / 56430., -9. / 50., 2. / 55.},
		{25. / 216., 0, 1408. / 2565., 2197. / 4104., -1. / 5., 0},
	}
	temp.rungeKuttaMatrix = [][]float64{
		nil,
		{1. / 4.},
		{3. / 32., 9. / 32.},
		{1932. / 2197., -7200. / 2197., 7296. / 2197.},
		{439. / 216., -8., 3680. / 513., -845. / 4104.},
		{-8. / 27., 2, -3544. / 2565., 1859. / 4104., -11. / 40.},
	}
	return &RungeKutta{Description: temp}
}
