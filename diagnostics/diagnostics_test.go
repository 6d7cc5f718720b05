package diagnostics

import (
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/plot/vg"
)

func TestHistoryRecordAccumulates(t *testing.T) {
	var h History
	h.Record(1.0, 10.0, 0.0)
	h.Record(0.5, 4.0, 1e-4)

	if len(h.Alpha) != 2 || len(h.Cost) != 2 || len(h.Rho) != 2 {
		t.Fatalf("History did not accumulate all three series: %+v", h)
	}
	if h.Cost[1] != 4.0 {
		t.Errorf("Cost[1] = %v, want 4.0", h.Cost[1])
	}
}

func TestSaveCostHistoryWritesFile(t *testing.T) {
	var h History
	for i := 0; i < 5; i++ {
		h.Record(1.0/float64(i+1), 10.0/float64(i+1), 0.0)
	}

	path := filepath.Join(t.TempDir(), "history.eps")
	if err := h.SaveCostHistory(path, 4*vg.Inch, 4*vg.Inch); err != nil {
		t.Fatalf("SaveCostHistory: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("plot file was not written: %v", err)
	}
}

func TestSaveCostHistoryRejectsEmptyHistory(t *testing.T) {
	var h History
	if err := h.SaveCostHistory(filepath.Join(t.TempDir(), "empty.eps"), 4*vg.Inch, 4*vg.Inch); err == nil {
		t.Errorf("SaveCostHistory on an empty History should report an error")
	}
}
