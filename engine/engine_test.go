package engine

import (
	"testing"
	"time"
)

func TestMonotonicTimeProvider(t *testing.T) {
	provider := NewMonotonicTimeProvider()

	t1 := provider.Now()
	time.Sleep(10 * time.Millisecond)
	t2 := provider.Now()

	if diff := t2.Sub(t1); diff < 10*time.Millisecond {
		t.Errorf("Expected at least 10ms difference, got %v", diff)
	}
}

func TestMockTimeProvider(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := NewMockTimeProvider(start)

	if !mock.Now().Equal(start) {
		t.Errorf("Expected initial time %v, got %v", start, mock.Now())
	}

	mock.Advance(250 * time.Millisecond)
	if got := mock.Now().Sub(start); got != 250*time.Millisecond {
		t.Errorf("Expected 250ms after Advance, got %v", got)
	}

	later := start.Add(time.Hour)
	mock.SetTime(later)
	if !mock.Now().Equal(later) {
		t.Errorf("Expected %v after SetTime, got %v", later, mock.Now())
	}

	var _ TimeProvider = &MonotonicTimeProvider{}
	var _ TimeProvider = &MockTimeProvider{}
}

func TestStepperAccumulates(t *testing.T) {
	clock := NewMockTimeProvider(time.Unix(0, 0))
	s := NewStepperWith(clock, 10*time.Millisecond, 5)

	if n := s.Advance(); n != 0 {
		t.Fatalf("Expected first Advance to only prime, got %d", n)
	}

	tests := []struct {
		advance time.Duration
		want    int
	}{
		{5 * time.Millisecond, 0},
		{5 * time.Millisecond, 1},
		{25 * time.Millisecond, 2},
		{5 * time.Millisecond, 1}, // 5 carried + 5
		{0, 0},
	}
	for i, tt := range tests {
		clock.Advance(tt.advance)
		if n := s.Advance(); n != tt.want {
			t.Errorf("frame %d: Expected %d steps, got %d", i, tt.want, n)
		}
	}
}

func TestStepperCatchUpCap(t *testing.T) {
	clock := NewMockTimeProvider(time.Unix(0, 0))
	s := NewStepperWith(clock, 10*time.Millisecond, 3)
	s.Advance()

	clock.Advance(time.Second)
	if n := s.Advance(); n != 3 {
		t.Fatalf("Expected capped 3 steps, got %d", n)
	}
	if s.Dropped() != 970*time.Millisecond {
		t.Errorf("Expected 970ms dropped, got %v", s.Dropped())
	}

	clock.Advance(10 * time.Millisecond)
	if n := s.Advance(); n != 1 {
		t.Errorf("Expected backlog cleared after cap, got %d", n)
	}
}

func TestStepperFPS(t *testing.T) {
	clock := NewMockTimeProvider(time.Unix(0, 0))
	s := NewStepper(clock)
	s.Advance()

	for i := 0; i < 50; i++ {
		clock.Advance(20 * time.Millisecond)
		s.Advance()
	}
	if fps := s.FPS(); fps < 49 || fps > 51 {
		t.Errorf("Expected about 50 fps, got %v", fps)
	}

	if ms := s.StepMs(); ms < 16.6 || ms > 16.7 {
		t.Errorf("Expected 16.67ms step, got %v", ms)
	}
}
