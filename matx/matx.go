// Package matx collects small dense-matrix helpers used by the solver
// package's backward pass and rollout. It mirrors the shape of the original
// gonumExtensions package: free functions over gonum/mat types instead of
// a wrapper type.
package matx

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Symmetrize overwrites m with ½(m + mᵀ) in place. The backward pass calls
// this after every cost-to-go update so that accumulated floating point
// error never pushes P away from symmetric (invariant I5).
func Symmetrize(m *mat.Dense) {
	r, c := m.Dims()
	if r != c {
		panic("matx: Symmetrize requires a square matrix")
	}
	var t mat.Dense
	t.CloneFrom(m)
	m.Add(m, t.T())
	m.Scale(0.5, m)
}

// InfNorm returns max_i |v_i|, or +Inf if v contains a NaN so that callers
// comparing against a finite bound reject it rather than silently passing.
func InfNorm(v mat.Vector) float64 {
	n := v.Len()
	max := 0.0
	for i := 0; i < n; i++ {
		a := v.AtVec(i)
		if math.IsNaN(a) {
			return math.Inf(1)
		}
		if a = math.Abs(a); a > max {
			max = a
		}
	}
	return max
}

// HasNaNOrInf reports whether any entry of v is NaN or ±Inf.
func HasNaNOrInf(v mat.Vector) bool {
	n := v.Len()
	for i := 0; i < n; i++ {
		a := v.AtVec(i)
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return true
		}
	}
	return false
}

// AddScaledEye adds rho*I to the square matrix m, in place.
func AddScaledEye(m *mat.Dense, rho float64) {
	r, c := m.Dims()
	if r != c {
		panic("matx: AddScaledEye requires a square matrix")
	}
	for i := 0; i < r; i++ {
		m.Set(i, i, m.At(i, i)+rho)
	}
}

// TryCholesky attempts a Cholesky factorization of the symmetric matrix m
// (only the upper triangle is read, per gonum convention). It reports
// whether m is positive definite without mutating m.
func TryCholesky(m *mat.Dense) (chol mat.Cholesky, ok bool) {
	r, _ := m.Dims()
	sym := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		for j := i; j < r; j++ {
			sym.SetSym(i, j, m.At(i, j))
		}
	}
	ok = chol.Factorize(sym)
	return chol, ok
}
