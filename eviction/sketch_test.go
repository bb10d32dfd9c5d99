package eviction

import (
	"testing"
)

func TestCountMinSketch_IncrementAndEstimate(t *testing.T) {
	cms := NewCountMinSketch(256, 4)

	cms.Increment(42)
	cms.Increment(42)
	cms.Increment(42)

	est := cms.Estimate(42)
	if est != 3 {
		t.Errorf("expected estimate 3, got %d", est)
	}
}

func TestCountMinSketch_Saturates(t *testing.T) {
	cms := NewCountMinSketch(256, 4)

	for i := 0; i < 20; i++ {
		cms.Increment(7)
	}

	if est := cms.Estimate(7); est != counterMax {
		t.Errorf("expected saturated estimate %d, got %d", counterMax, est)
	}
}

func TestCountMinSketch_ResetHalves(t *testing.T) {
	cms := NewCountMinSketch(256, 4)

	for i := 0; i < 10; i++ {
		cms.Increment(99)
	}

	cms.Reset()

	if est := cms.Estimate(99); est != 5 {
		t.Errorf("expected 5 after reset, got %d", est)
	}
	if cms.Count() != 0 {
		t.Errorf("expected count 0 after reset, got %d", cms.Count())
	}
}

func TestCountMinSketch_Count(t *testing.T) {
	cms := NewCountMinSketch(256, 4)

	if cms.Count() != 0 {
		t.Error("expected count 0 initially")
	}

	cms.Increment(1)
	cms.Increment(2)
	cms.Increment(3)

	if cms.Count() != 3 {
		t.Errorf("expected count 3, got %d", cms.Count())
	}
}

func TestCountMinSketch_UnseenKey(t *testing.T) {
	cms := NewCountMinSketch(256, 4)

	if est := cms.Estimate(12345); est != 0 {
		t.Errorf("expected 0 for unseen key, got %d", est)
	}
}

func TestCountMinSketch_WithSize(t *testing.T) {
	small := NewCountMinSketchWithSize(100)
	large := NewCountMinSketchWithSize(1000000)

	if small.cols != 256 {
		t.Errorf("expected minimum width 256, got %d", small.cols)
	}
	if large.cols != 65536 {
		t.Errorf("expected maximum width 65536, got %d", large.cols)
	}
}
