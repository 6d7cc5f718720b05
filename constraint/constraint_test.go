package constraint

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestGoalEvaluateAndJacobian(t *testing.T) {
	g := NewGoal([]int{1, 2}, []float64{0, 0}, "goal")
	X := []mat.Vector{mat.NewVecDense(2, []float64{1.5, -2})}
	var c mat.VecDense
	c.ReuseAsVec(g.Length())
	g.Evaluate(&c, X, nil, 1)
	if c.AtVec(0) != 1.5 || c.AtVec(1) != -2 {
		t.Errorf("goal residual = %v, want [1.5 -2]", mat.Formatted(&c))
	}

	Cx := mat.NewDense(2, 2, nil)
	Cu := mat.NewDense(2, 1, nil)
	if err := g.Jacobian(Cx, Cu, X, nil, 1); err != nil {
		t.Fatalf("Jacobian: %v", err)
	}
	if Cx.At(0, 0) != 1 || Cx.At(1, 1) != 1 || Cx.At(0, 1) != 0 {
		t.Errorf("goal Jacobian not a selection matrix: %v", mat.Formatted(Cx))
	}
	if !g.ConstJac() {
		t.Error("Goal should report ConstJac = true")
	}
}

func TestBoundResidualOrderingAndSigns(t *testing.T) {
	inf := math.Inf(1)
	b := NewBound([]float64{inf, 5}, []float64{-5, -inf}, []float64{1}, []float64{-1}, "bound")
	if b.Length() != 4 {
		t.Fatalf("Length = %d, want 4", b.Length())
	}
	X := mat.NewVecDense(2, []float64{10, 10})
	U := mat.NewVecDense(1, []float64{2})
	var c mat.VecDense
	c.ReuseAsVec(b.Length())
	b.Evaluate(&c, []mat.Vector{X}, []mat.Vector{U}, 1)
	// order: x_max_finite(x1<=5), x_min_finite(x0>=-5), u_max(u<=1), u_min(u>=-1)
	if got, want := c.AtVec(0), 10.0-5; got != want {
		t.Errorf("x_max residual = %v, want %v", got, want)
	}
	if got, want := c.AtVec(1), -5.0-10; got != want {
		t.Errorf("x_min residual = %v, want %v", got, want)
	}
	if got, want := c.AtVec(2), 2.0-1; got != want {
		t.Errorf("u_max residual = %v, want %v", got, want)
	}
	if got, want := c.AtVec(3), -1.0-2; got != want {
		t.Errorf("u_min residual = %v, want %v", got, want)
	}

	Cx := mat.NewDense(4, 2, nil)
	Cu := mat.NewDense(4, 1, nil)
	if err := b.Jacobian(Cx, Cu, nil, nil, 1); err != nil {
		t.Fatal(err)
	}
	if Cx.At(0, 1) != 1 || Cx.At(1, 0) != -1 {
		t.Errorf("bound state Jacobian sign pattern wrong: %v", mat.Formatted(Cx))
	}
	if Cu.At(2, 0) != 1 || Cu.At(3, 0) != -1 {
		t.Errorf("bound control Jacobian sign pattern wrong: %v", mat.Formatted(Cu))
	}
}

func TestNormConstraint(t *testing.T) {
	n := NewNorm([]int{1, 2}, 4, true, "norm")
	U := mat.NewVecDense(2, []float64{1, 1})
	var c mat.VecDense
	c.ReuseAsVec(1)
	n.Evaluate(&c, nil, []mat.Vector{U}, 1)
	if got, want := c.AtVec(0), -2.0; got != want {
		t.Errorf("norm residual = %v, want %v", got, want)
	}

	Cx := mat.NewDense(1, 2, nil)
	Cu := mat.NewDense(1, 2, nil)
	if err := n.Jacobian(Cx, Cu, nil, []mat.Vector{U}, 1); err != nil {
		t.Fatal(err)
	}
	if Cu.At(0, 0) != 2 || Cu.At(0, 1) != 2 {
		t.Errorf("norm Jacobian = %v, want [2 2]", mat.Formatted(Cu))
	}
}

func TestEmptyBoundIsNoOp(t *testing.T) {
	b := NewBound(nil, nil, nil, nil, "empty")
	if b.Length() != 0 {
		t.Errorf("empty bound Length = %d, want 0", b.Length())
	}
}

func TestDynamicsJacobianUnsupported(t *testing.T) {
	d := NewDynamics(stubStager{}, []float64{0, 0.1, 0.2}, 2, 1, "dyn")
	var err error
	Cx := mat.NewDense(2, 2, nil)
	Cu := mat.NewDense(2, 1, nil)
	err = d.Jacobian(Cx, Cu, nil, nil, 2)
	if err == nil {
		t.Fatal("expected UnsupportedJacobianError")
	}
	if _, ok := err.(*UnsupportedJacobianError); !ok {
		t.Errorf("got %T, want *UnsupportedJacobianError", err)
	}
	if !d.CoupledExpansion() {
		t.Error("Dynamics should report CoupledExpansion = true")
	}
}

type stubStager struct{}

func (stubStager) Step(xOut *mat.VecDense, x, u mat.Vector, t, dt float64) {
	xOut.ReuseAsVec(x.Len())
	xOut.CopyVec(x)
}
