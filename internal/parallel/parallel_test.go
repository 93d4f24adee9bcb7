package parallel

import (
	"sync/atomic"
	"testing"
)

func TestForRowsCoversEveryIndex(t *testing.T) {
	const n = 1000
	var hits [n]int32

	ForRows(n, 4, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&hits[i], 1)
		}
	})

	for i, h := range hits {
		if h != 1 {
			t.Fatalf("index %d visited %d times, want 1", i, h)
		}
	}
}

func TestForRowsZeroItems(t *testing.T) {
	called := false
	ForRows(0, 4, func(start, end int) { called = true })
	if called {
		t.Error("ForRows should not invoke fn for zero items")
	}
}

func TestForRowsWithThresholdSequentialBelowThreshold(t *testing.T) {
	var calls int32
	ForRowsWithThreshold(10, 100, 4, func(start, end int) {
		atomic.AddInt32(&calls, 1)
		if start != 0 || end != 10 {
			t.Errorf("expected single sequential call over [0,10), got [%d,%d)", start, end)
		}
	})
	if calls != 1 {
		t.Errorf("expected exactly 1 call below threshold, got %d", calls)
	}
}

func TestForFeaturesCoversEveryFeature(t *testing.T) {
	const n = 37
	var hits [n]int32

	ForFeatures(n, 8, func(idx int) {
		atomic.AddInt32(&hits[idx], 1)
	})

	for i, h := range hits {
		if h != 1 {
			t.Fatalf("feature %d visited %d times, want 1", i, h)
		}
	}
}

func TestResolveWorkersCapsAtItemsAndDefaultsForNonPositive(t *testing.T) {
	if got := resolveWorkers(3, 16); got != 3 {
		t.Errorf("resolveWorkers(3, 16) = %d, want 3", got)
	}
	if got := resolveWorkers(100, 0); got < 1 {
		t.Errorf("resolveWorkers(100, 0) = %d, want >= 1", got)
	}
	if got := resolveWorkers(1, -1); got != 1 {
		t.Errorf("resolveWorkers(1, -1) = %d, want 1", got)
	}
}
