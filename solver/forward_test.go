package solver

import (
	"math"
	"testing"

	"github.com/hammal/ilqr/dynamics"
)

func TestRolloutAtZeroAlphaReproducesTrajectoryExactly(t *testing.T) {
	c := quadraticCost(2, 1)
	s := New(dynamics.NewDoubleIntegrator(), c, linspace(0, 0.4, 5), NewOptions())
	s.X[0].SetVec(0, 0)
	s.X[0].SetVec(1, 1)
	for k := 0; k < s.N-1; k++ {
		s.U[k].SetVec(0, 0.1)
	}

	// Seed X as the actual forward simulation of U under zero feedback
	// (K, D start at zero), so that X is a self-consistent trajectory of
	// (Model, U) before the gain equations below are exercised.
	zero, aborted := Rollout(s, 0)
	if aborted {
		t.Fatalf("seeding rollout aborted")
	}
	s.AcceptTrajectory()

	if err := BackwardPass(s); err != nil {
		t.Fatalf("BackwardPass: %v", err)
	}

	J, aborted := Rollout(s, 0)
	if aborted {
		t.Fatalf("rollout at alpha=0 aborted")
	}
	for k := 0; k < s.N; k++ {
		for i := 0; i < s.Nx; i++ {
			if got, want := s.Xtmp[k].AtVec(i), s.X[k].AtVec(i); math.Abs(got-want) > 1e-9 {
				t.Errorf("Xtmp[%d][%d] = %v, want %v (exact reproduction at alpha=0)", k, i, got, want)
			}
		}
	}
	for k := 0; k < s.N-1; k++ {
		if got, want := s.Utmp[k].AtVec(0), s.U[k].AtVec(0); math.Abs(got-want) > 1e-9 {
			t.Errorf("Utmp[%d][0] = %v, want %v", k, got, want)
		}
	}
	if math.Abs(J-zero) > 1e-9 {
		t.Errorf("J at alpha=0 = %v, want the cost of the seeded trajectory %v", J, zero)
	}
}

func TestRolloutAbortsOnControlLimit(t *testing.T) {
	c := quadraticCost(2, 1)
	opts := NewOptions()
	opts.MaxControlValue = 0.5
	s := New(dynamics.NewDoubleIntegrator(), c, linspace(0, 0.4, 5), opts)
	s.X[0].SetVec(1, 1)
	for k := 0; k < s.N-1; k++ {
		s.U[k].SetVec(0, 10)
	}

	_, aborted := Rollout(s, 1)
	if !aborted {
		t.Fatalf("rollout did not abort on an over-limit control")
	}
	if s.Status != ControlLimit {
		t.Errorf("Status = %v, want ControlLimit", s.Status)
	}
}

func TestExpectedReductionMatchesFormula(t *testing.T) {
	s := &State{DeltaV: [2]float64{2, 3}}
	got := ExpectedReduction(s, 0.5)
	want := 0.5*2 + 0.5*0.5*3
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("ExpectedReduction(0.5) = %v, want %v", got, want)
	}
}
