package solver

import "testing"

func TestIncreaseAmplifiesHysteresis(t *testing.T) {
	opts := NewOptions()
	opts.RhoMin = 1e-6
	opts.RhoFactor = 2
	r := NewRegularizer(opts)

	if !r.Increase() {
		t.Fatalf("first Increase unexpectedly hit the cap")
	}
	first := r.Rho
	if !r.Increase() {
		t.Fatalf("second Increase unexpectedly hit the cap")
	}
	second := r.Rho
	if second <= first*2 {
		t.Errorf("hysteresis did not amplify growth: first=%v second=%v", first, second)
	}
}

func TestIncreaseReturnsFalseAtCap(t *testing.T) {
	opts := NewOptions()
	opts.RhoMax = 1
	opts.RhoMin = 0.5
	opts.RhoFactor = 10
	r := NewRegularizer(opts)

	ok := true
	for i := 0; i < 10 && ok; i++ {
		ok = r.Increase()
	}
	if ok {
		t.Errorf("Increase never reported exceeding RhoMax")
	}
	if r.Rho != opts.RhoMax {
		t.Errorf("Rho = %v after exceeding cap, want clamped to RhoMax = %v", r.Rho, opts.RhoMax)
	}
}

func TestDecreaseSnapsToZeroBelowMin(t *testing.T) {
	opts := NewOptions()
	opts.RhoMin = 1e-3
	opts.RhoFactor = 2
	r := NewRegularizer(opts)
	r.Rho = 1e-4

	r.Decrease()

	if r.Rho != 0 {
		t.Errorf("Rho = %v after Decrease below RhoMin, want 0", r.Rho)
	}
}
