package status

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestMetricMapStablePointer(t *testing.T) {
	m := NewMetricMap[atomic.Int64]()
	a := m.Get("trial.step")
	a.Store(4)

	if b := m.Get("trial.step"); b != a || b.Load() != 4 {
		t.Errorf("Expected cached pointer with value 4")
	}
	if !m.Has("trial.step") || m.Has("missing") {
		t.Errorf("Expected Has to reflect registration")
	}
	if m.Count() != 1 {
		t.Errorf("Expected 1 metric, got %d", m.Count())
	}
}

func TestMetricMapConcurrentGet(t *testing.T) {
	m := NewMetricMap[atomic.Int64]()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Get("shared").Add(1)
		}()
	}
	wg.Wait()

	if got := m.Get("shared").Load(); got != 16 {
		t.Errorf("Expected 16 increments on one pointer, got %d", got)
	}
}

func TestAtomicFloat(t *testing.T) {
	var f AtomicFloat
	if f.Get() != 0 {
		t.Errorf("Expected zero value 0, got %v", f.Get())
	}
	f.Set(37.5)
	if f.Get() != 37.5 {
		t.Errorf("Expected 37.5, got %v", f.Get())
	}
}

func TestRegistrySnapshot(t *testing.T) {
	r := NewRegistry()
	r.Ints.Get(KeyTrialStep).Store(12)
	r.Ints.Get(KeyTrialCorrect).Store(9)
	r.Floats.Get(KeyWorldCoherence).Set(23.456)

	got := r.Snapshot()
	want := []Entry{
		{KeyTrialCorrect, "9"},
		{KeyTrialStep, "12"},
		{KeyWorldCoherence, "23.5"},
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: Expected %+v, got %+v", i, want[i], got[i])
		}
	}
	if r.TotalCount() != 3 {
		t.Errorf("Expected 3 metrics, got %d", r.TotalCount())
	}
}
