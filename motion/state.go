package motion

import (
	"github.com/pkg/errors"
)

// ErrInvalidState is returned for transitions the world does not allow
var ErrInvalidState = errors.New("invalid world state transition")

// State is the world's lifecycle phase
type State uint8

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StatePatchSelected
	StateTrialCorrect
	StateTrialIncorrect
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRunning:
		return "RUNNING"
	case StatePaused:
		return "PAUSED"
	case StatePatchSelected:
		return "PATCH_SELECTED"
	case StateTrialCorrect:
		return "TRIAL_CORRECT"
	case StateTrialIncorrect:
		return "TRIAL_INCORRECT"
	case StateFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// IsFeedback reports whether the state is one of the post-response phases
func (s State) IsFeedback() bool {
	return s == StatePatchSelected || s == StateTrialCorrect || s == StateTrialIncorrect
}

// AcceptsResponse reports whether a participant response is valid now
func (s State) AcceptsResponse() bool {
	return s == StateRunning || s == StatePaused
}

var validTransitions = map[State][]State{
	StateIdle:           {StateRunning, StateFinished},
	StateRunning:        {StateRunning, StatePaused, StatePatchSelected, StateTrialCorrect, StateTrialIncorrect, StateFinished},
	StatePaused:         {StateRunning, StatePatchSelected, StateTrialCorrect, StateTrialIncorrect, StateFinished},
	StatePatchSelected:  {StateRunning, StateFinished},
	StateTrialCorrect:   {StateRunning, StateFinished},
	StateTrialIncorrect: {StateRunning, StateFinished},
	StateFinished:       nil,
}

// CanTransition checks the transition table
func CanTransition(from, to State) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
