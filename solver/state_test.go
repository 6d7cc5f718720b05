package solver

import (
	"testing"

	"github.com/hammal/ilqr/cost"
	"github.com/hammal/ilqr/dynamics"
	"gonum.org/v1/gonum/mat"
)

func quadraticCost(n, m int) *cost.Quadratic {
	Q := mat.NewDense(n, n, nil)
	R := mat.NewDense(m, m, nil)
	Qf := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		Q.Set(i, i, 1)
		Qf.Set(i, i, 10)
	}
	for i := 0; i < m; i++ {
		R.Set(i, i, 0.1)
	}
	return cost.NewQuadratic(Q, R, Qf)
}

func linspace(t0, tf float64, n int) []float64 {
	ts := make([]float64, n)
	for i := range ts {
		ts[i] = t0 + (tf-t0)*float64(i)/float64(n-1)
	}
	return ts
}

func TestNewPanicsOnShortHorizon(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("New did not panic on N < 2")
		}
	}()
	m := dynamics.NewDoubleIntegrator()
	New(m, quadraticCost(2, 1), []float64{0}, NewOptions())
}

func TestNewPanicsOnNonIncreasingTimes(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("New did not panic on non-increasing knot times")
		}
	}()
	m := dynamics.NewDoubleIntegrator()
	New(m, quadraticCost(2, 1), []float64{0, 0.1, 0.1}, NewOptions())
}

func TestAcceptTrajectorySwapsBuffers(t *testing.T) {
	m := dynamics.NewDoubleIntegrator()
	s := New(m, quadraticCost(2, 1), linspace(0, 1, 5), NewOptions())
	s.X[0].SetVec(0, 1)
	s.Xtmp[0].SetVec(0, 2)
	s.U[0].SetVec(0, 3)
	s.Utmp[0].SetVec(0, 4)

	s.AcceptTrajectory()

	if got := s.X[0].AtVec(0); got != 2 {
		t.Errorf("X[0] after accept = %v, want 2", got)
	}
	if got := s.Xtmp[0].AtVec(0); got != 1 {
		t.Errorf("Xtmp[0] after accept = %v, want 1", got)
	}
	if got := s.U[0].AtVec(0); got != 4 {
		t.Errorf("U[0] after accept = %v, want 4", got)
	}
	if got := s.Utmp[0].AtVec(0); got != 3 {
		t.Errorf("Utmp[0] after accept = %v, want 3", got)
	}
}
