package solver

// Options holds the tunables of spec.md §4.4, built the teacher's way: a
// plain struct with a constructor filling in conventional defaults
// (mirroring adc.go's System struct), no flag parsing or file format.
type Options struct {
	MaxStateValue   float64
	MaxControlValue float64

	BPReg     bool
	BPRegType RegType

	SaveS bool

	RhoMin       float64
	RhoMax       float64
	RhoFactorMin float64
	RhoFactor    float64
}

// NewOptions returns the conventional iLQR defaults.
func NewOptions() Options {
	return Options{
		MaxStateValue:   1e8,
		MaxControlValue: 1e8,
		BPReg:           true,
		BPRegType:       ControlReg,
		SaveS:           false,
		RhoMin:          1e-8,
		RhoMax:          1e8,
		RhoFactorMin:    1.6,
		RhoFactor:       1.6,
	}
}
