package parameter

import "time"

// Simulation Loop & Timing
const (
	// SimulationTimestepMs is the fixed simulation step (60 updates per second)
	SimulationTimestepMs = 1000.0 / 60.0

	// SimulationTimestep is SimulationTimestepMs as a duration, used for the frame ticker
	SimulationTimestep = time.Second / 60

	// MaxStepsPerFrame caps catch-up steps after a stall so one slow frame cannot spiral
	MaxStepsPerFrame = 5
)

// Event Queue Limits
const (
	// EventQueueSize is the fixed capacity of the response ring buffer
	EventQueueSize = 64

	// EventBufferMask is the bitmask for fast modulo operations (64 - 1)
	EventBufferMask = 63
)
