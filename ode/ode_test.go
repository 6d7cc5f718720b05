package ode

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// exponentialDecay implements dx/dt = -x, whose closed-form solution lets
// Step/AdaptiveCompute be checked against an exact value.
type exponentialDecay struct{}

func (exponentialDecay) Derivative(out *mat.VecDense, t float64, state mat.Vector) {
	if out.IsEmpty() {
		out.ReuseAsVec(state.Len())
	}
	out.ScaleVec(-1, state)
}

func TestRk4HasFourStages(t *testing.T) {
	rk := NewRK4()
	if rk.Description.stages != 4 {
		t.Errorf("stages = %v, want 4", rk.Description.stages)
	}
}

func TestEulerHasOneStage(t *testing.T) {
	rk := NewEulerMethod()
	if rk.Description.stages != 1 {
		t.Errorf("stages = %v, want 1", rk.Description.stages)
	}
}

func TestRK4StepMatchesExponentialDecay(t *testing.T) {
	rk := NewRK4()
	x0 := mat.NewVecDense(1, []float64{1})
	var out mat.VecDense
	rk.Step(&out, 0, 0.1, x0, exponentialDecay{})

	want := math.Exp(-0.1)
	if got := out.AtVec(0); math.Abs(got-want) > 1e-6 {
		t.Errorf("Step result = %v, want %v", got, want)
	}
}

func TestAdaptiveComputeConvergesOnExponentialDecay(t *testing.T) {
	rk := NewFehlberg45()
	x := mat.NewVecDense(1, []float64{1})
	if err := rk.AdaptiveCompute(0, 1, 1e-9, x, exponentialDecay{}); err != nil {
		t.Fatalf("AdaptiveCompute: %v", err)
	}
	want := math.Exp(-1)
	if got := x.AtVec(0); math.Abs(got-want) > 1e-6 {
		t.Errorf("AdaptiveCompute result = %v, want %v", got, want)
	}
}
