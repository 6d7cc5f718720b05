package solver

import (
	"github.com/hammal/ilqr/dynamics"
	"github.com/hammal/ilqr/matx"
)

// Rollout simulates the closed-loop feedback law at step size α (spec.md
// §4.3), writing the candidate trajectory into Xtmp/Utmp and returning its
// accumulated cost J. aborted is true when a NaN or an out-of-bound state
// or control was encountered; in that case J is 0 and must not be used by
// the caller's line search, and s.Status records which limit fired.
func Rollout(s *State, alpha float64) (J float64, aborted bool) {
	s.Status = Unsolved
	s.Xtmp[0].CopyVec(s.X[0])

	for k := 0; k < s.N-1; k++ {
		s.Model.StateDiff(s.scratchNVec1, s.Xtmp[k], s.X[k])

		s.scratchMVec1.MulVec(s.K[k], s.scratchNVec1)
		s.Utmp[k].CopyVec(s.U[k])
		s.Utmp[k].AddScaledVec(s.Utmp[k], alpha, s.D[k])
		s.Utmp[k].AddVec(s.Utmp[k], s.scratchMVec1)

		dt := s.Ts[k+1] - s.Ts[k]
		dynamics.DiscreteDynamics(s.Xtmp[k+1], s.Ir, s.Model, s.Xtmp[k], s.Utmp[k], s.Ts[k], dt)

		if matx.HasNaNOrInf(s.Xtmp[k+1]) || matx.InfNorm(s.Xtmp[k+1]) > s.Opts.MaxStateValue {
			s.Status = StateLimit
			return 0, true
		}
		if matx.HasNaNOrInf(s.Utmp[k]) || matx.InfNorm(s.Utmp[k]) > s.Opts.MaxControlValue {
			s.Status = ControlLimit
			return 0, true
		}

		J += s.Cost.StageCost(s.Xtmp[k], s.Utmp[k], k+1)
	}

	J += s.Cost.TerminalCost(s.Xtmp[s.N-1])
	return J, false
}

// ExpectedReduction evaluates φ(α) = α·ΔV[1] + α²·ΔV[2] (spec.md §4.3),
// the quantity the outer line search compares J against to decide
// acceptance.
func ExpectedReduction(s *State, alpha float64) float64 {
	return alpha*s.DeltaV[0] + alpha*alpha*s.DeltaV[1]
}
