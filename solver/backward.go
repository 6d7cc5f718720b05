package solver

import (
	"errors"

	"github.com/hammal/ilqr/dynamics"
	"github.com/hammal/ilqr/matx"
	"gonum.org/v1/gonum/mat"
)

// BackwardPass runs the Riccati recursion of spec.md §4.2. On success it
// decreases ρ and returns nil, leaving K, D, ΔV populated for every
// stage knot. On repeated non-PD Hessians it grows ρ and restarts from
// the terminal knot; if ρ exceeds its cap the solver's Status becomes
// RegularizationMax and a non-nil error is returned. Partial buffer state
// after failure is not defined to be consistent (spec.md §4.2 "Failure
// semantics").
func BackwardPass(s *State) error {
	s.Cost.TerminalDerivatives(s.E[s.N-1], s.X[s.N-1])
	s.Status = Unsolved

restart:
	s.P[s.N-1].Copy(s.E[s.N-1].Q)
	s.p[s.N-1].CopyVec(s.E[s.N-1].Qv)
	s.DeltaV = [2]float64{}

	for k := s.N - 2; k >= 0; k-- {
		if !backwardStep(s, k) {
			if !s.Reg.Increase() {
				s.Status = RegularizationMax
				return errors.New("solver: backward pass failed, regularization exceeded maximum")
			}
			goto restart
		}
	}

	s.Reg.Decrease()
	return nil
}

// backwardStep performs one knot of the recursion (spec.md §4.2 steps
// 1-6) and reports whether Quu_reg came out positive definite. On
// failure it leaves no committed state for knot k — the caller discards
// the whole pass and restarts from the terminal knot.
func backwardStep(s *State, k int) bool {
	dt := s.Ts[k+1] - s.Ts[k]
	dynamics.DiscreteJacobian(s.A[k], s.B[k], s.Ir, s.Model, s.X[k], s.U[k], s.Ts[k], dt, s.JacScratch)
	s.Cost.StageDerivatives(s.E[k], s.X[k], s.U[k], k+1)

	P := s.P[k+1]
	p := s.p[k+1]

	// Qxx = Aᵀ P A + Q
	s.scratchNN1.Mul(s.A[k].T(), P)
	s.Qxx[k].Mul(s.scratchNN1, s.A[k])
	s.Qxx[k].Add(s.Qxx[k], s.E[k].Q)

	// Quu = Bᵀ P B + R
	s.scratchMN1.Mul(s.B[k].T(), P)
	s.Quu[k].Mul(s.scratchMN1, s.B[k])
	s.Quu[k].Add(s.Quu[k], s.E[k].R)

	// Qux = Bᵀ P A + Hᵀ
	s.Qux[k].Mul(s.scratchMN1, s.A[k])
	s.Qux[k].Add(s.Qux[k], s.E[k].H.T())

	// Qx = Aᵀ p + q, Qu = Bᵀ p + r
	s.Qx[k].MulVec(s.A[k].T(), p)
	s.Qx[k].AddVec(s.Qx[k], s.E[k].Qv)
	s.Qu[k].MulVec(s.B[k].T(), p)
	s.Qu[k].AddVec(s.Qu[k], s.E[k].Rv)

	regularize(s, k)

	chol, ok := matx.TryCholesky(s.QuuReg[k])
	if !ok {
		return false
	}

	// K = -Quu_reg⁻¹ Qux_reg, d = -Quu_reg⁻¹ Qu (spec.md §4.2 step 5).
	chol.SolveTo(s.K[k], s.QuxReg[k])
	s.K[k].Scale(-1, s.K[k])
	chol.SolveVecTo(s.D[k], s.Qu[k])
	s.D[k].ScaleVec(-1, s.D[k])

	updateCostToGo(s, k)
	return true
}

// regularize fills QuuReg[k], QuxReg[k] per spec.md §4.2 step 3. The
// definiteness check is not made here: backwardStep attempts one Cholesky
// factorization of QuuReg[k] right after regularize returns, for both the
// CONTROL and the STATE form, and a failed factorization restarts the
// pass. Options.BPReg is not read; the check is made whatever its value.
func regularize(s *State, k int) {
	switch s.Opts.BPRegType {
	case StateReg:
		s.scratchMM1.Mul(s.B[k].T(), s.B[k])
		s.scratchMM1.Scale(s.Reg.Rho, s.scratchMM1)
		s.QuuReg[k].Add(s.Quu[k], s.scratchMM1)

		s.scratchMN2.Mul(s.B[k].T(), s.A[k])
		s.scratchMN2.Scale(s.Reg.Rho, s.scratchMN2)
		s.QuxReg[k].Add(s.Qux[k], s.scratchMN2)
	default:
		s.QuuReg[k].Copy(s.Quu[k])
		matx.AddScaledEye(s.QuuReg[k], s.Reg.Rho)
		s.QuxReg[k].Copy(s.Qux[k])
	}
}

// updateCostToGo performs spec.md §4.2 step 6, using the UNregularized
// Quu, Qux (the regularization is only a Newton-step device; the model
// of the cost-to-go must stay faithful to the true local quadratic
// approximation).
func updateCostToGo(s *State, k int) {
	s.scratchMVec1.MulVec(s.Quu[k], s.D[k])
	s.scratchNVec1.MulVec(s.K[k].T(), s.scratchMVec1)
	s.p[k].CopyVec(s.Qx[k])
	s.p[k].AddVec(s.p[k], s.scratchNVec1)

	s.scratchNVec1.MulVec(s.K[k].T(), s.Qu[k])
	s.p[k].AddVec(s.p[k], s.scratchNVec1)

	s.scratchNVec1.MulVec(s.Qux[k].T(), s.D[k])
	s.p[k].AddVec(s.p[k], s.scratchNVec1)

	s.P[k].Copy(s.Qxx[k])

	s.scratchMN1.Mul(s.Quu[k], s.K[k])
	s.scratchNN1.Mul(s.K[k].T(), s.scratchMN1)
	s.P[k].Add(s.P[k], s.scratchNN1)

	s.scratchNN1.Mul(s.K[k].T(), s.Qux[k])
	s.P[k].Add(s.P[k], s.scratchNN1)

	s.scratchNN1.Mul(s.Qux[k].T(), s.K[k])
	s.P[k].Add(s.P[k], s.scratchNN1)

	matx.Symmetrize(s.P[k])

	s.DeltaV[0] += mat.Dot(s.D[k], s.Qu[k])
	s.DeltaV[1] += 0.5 * mat.Dot(s.D[k], s.scratchMVec1)

	if s.Opts.SaveS {
		snapP := mat.NewDense(s.Nx, s.Nx, nil)
		snapP.Copy(s.P[k])
		snapp := mat.NewVecDense(s.Nx, nil)
		snapp.CopyVec(s.p[k])
		s.SavedS = append(s.SavedS, CostToGoSnapshot{P: snapP, P0: snapp})
	}
}
