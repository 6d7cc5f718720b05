package solver

// Regularizer is the Regularization Controller of spec.md §4.5: a scalar
// ρ with hysteresis carried in rate, so that repeated failures amplify
// growth super-linearly. There is no teacher analogue for this exact
// multiplicative-hysteresis scheme; it is built directly from spec.md
// §4.5's update rule, in the same "plain struct, two tiny methods" shape
// as the teacher's own scalar-state helpers (e.g. ode's adaptive step
// halving).
type Regularizer struct {
	Rho  float64
	rate float64
	opts Options
}

// NewRegularizer returns a controller starting at ρ = 0 (spec.md §3
// invariant I4: ρ is non-negative).
func NewRegularizer(opts Options) Regularizer {
	return Regularizer{Rho: 0, rate: 1, opts: opts}
}

// Increase applies the :increase update of spec.md §4.5 and reports
// whether ρ remained within its cap. A false return means ρ_max was
// exceeded, a terminal condition the caller must surface as
// RegularizationMax. The floor on rate is RhoFactorMin rather than
// RhoFactor itself, so the two configurable factors in spec.md §4.4
// (ρ_factor, ρ_factor_min) are both load-bearing: RhoFactor sets how hard
// each restart amplifies rate, RhoFactorMin sets the weakest amplification
// a single :increase can ever apply.
func (r *Regularizer) Increase() bool {
	r.rate = maxF(r.rate*r.opts.RhoFactor, r.opts.RhoFactorMin)
	r.Rho = maxF(r.Rho*r.rate, r.opts.RhoMin)
	if r.Rho > r.opts.RhoMax {
		r.Rho = r.opts.RhoMax
		return false
	}
	return true
}

// Decrease applies the :decrease update of spec.md §4.5, called once on
// every successful backward pass completion.
func (r *Regularizer) Decrease() {
	r.rate = minF(r.rate/r.opts.RhoFactor, 1/r.opts.RhoFactor)
	r.Rho *= r.rate
	if r.Rho < r.opts.RhoMin {
		r.Rho = 0
	}
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
