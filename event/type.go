package event

import (
	"time"

	"github.com/lixenwraith/motion-coherence/motion"
	"github.com/lixenwraith/motion-coherence/staircase"
)

// EventType is what the participant asked for
type EventType uint8

const (
	EventNone EventType = iota

	// EventSelect chooses a patch. Payload: Side, Method
	EventSelect

	// EventStart leaves the intro or starts the stimulus
	EventStart

	// EventContinue dismisses the results screen
	EventContinue

	// EventQuit ends the session
	EventQuit

	// EventResize carries new terminal dimensions in X, Y
	EventResize
)

func (t EventType) String() string {
	switch t {
	case EventSelect:
		return "select"
	case EventStart:
		return "start"
	case EventContinue:
		return "continue"
	case EventQuit:
		return "quit"
	case EventResize:
		return "resize"
	default:
		return "none"
	}
}

// InputEvent is one queued intent, stamped when it was read from the terminal
type InputEvent struct {
	Type   EventType
	Side   motion.Side
	Method staircase.InputMethod
	X, Y   int
	At     time.Time
}
