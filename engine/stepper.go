// Package engine provides the frame clock: time sources and the fixed-step
// accumulator that turns wall time into simulation ticks
package engine

import (
	"time"

	"github.com/lixenwraith/motion-coherence/parameter"
)

// Stepper converts elapsed wall time into whole fixed simulation steps.
// Leftover time carries into the next frame; after a stall the backlog is
// capped at maxSteps and the excess dropped
type Stepper struct {
	clock    TimeProvider
	step     time.Duration
	maxSteps int

	last    time.Time
	started bool
	acc     time.Duration
	dropped time.Duration

	frames    int
	fpsWindow time.Time
	fps       float64
}

// NewStepper uses the default timestep and catch-up cap
func NewStepper(clock TimeProvider) *Stepper {
	return NewStepperWith(clock, parameter.SimulationTimestep, parameter.MaxStepsPerFrame)
}

func NewStepperWith(clock TimeProvider, step time.Duration, maxSteps int) *Stepper {
	if maxSteps < 1 {
		maxSteps = 1
	}
	return &Stepper{clock: clock, step: step, maxSteps: maxSteps}
}

// StepMs returns the fixed step length in milliseconds
func (s *Stepper) StepMs() float64 {
	return float64(s.step) / float64(time.Millisecond)
}

// Advance samples the clock and returns how many steps to run this frame.
// The first call only establishes the reference time
func (s *Stepper) Advance() int {
	now := s.clock.Now()
	if !s.started {
		s.started = true
		s.last = now
		s.fpsWindow = now
		return 0
	}

	elapsed := now.Sub(s.last)
	s.last = now
	if elapsed < 0 {
		elapsed = 0
	}
	s.acc += elapsed

	n := int(s.acc / s.step)
	if n > s.maxSteps {
		s.dropped += s.acc - time.Duration(s.maxSteps)*s.step
		n = s.maxSteps
		s.acc = 0
	} else {
		s.acc -= time.Duration(n) * s.step
	}

	s.frames++
	if window := now.Sub(s.fpsWindow); window >= time.Second {
		s.fps = float64(s.frames) / window.Seconds()
		s.frames = 0
		s.fpsWindow = now
	}
	return n
}

// FPS is the frame rate measured over the last full second
func (s *Stepper) FPS() float64 { return s.fps }

// Dropped is the total simulation time discarded by the catch-up cap
func (s *Stepper) Dropped() time.Duration { return s.dropped }

// Reset forgets the reference time, e.g. after the loop was suspended
func (s *Stepper) Reset() {
	s.started = false
	s.acc = 0
}
