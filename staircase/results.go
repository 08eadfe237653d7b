package staircase

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/lixenwraith/motion-coherence/motion"
	"github.com/lixenwraith/motion-coherence/parameter"
)

// TestTypeMotion labels motion-coherence results
const TestTypeMotion = "motion"

// InputMethod records how a response was given
type InputMethod string

const (
	InputKeyboard InputMethod = "keyboard"
	InputMouse    InputMethod = "mouse"
	InputTouch    InputMethod = "touch"
)

// Trial is one answered stimulus
type Trial struct {
	Step             int
	SelectedPatch    motion.Side
	CoherentPatch    motion.Side
	Correct          bool
	Reversal         bool
	TimeToSelectMs   float64
	InputMethod      InputMethod
	CoherencyAtTrial float64
}

// Classification buckets a threshold against the normal range
type Classification string

const (
	ClassNormal             Classification = "normal"
	ClassSlightlyAbove      Classification = "slightly above normal range"
	ClassSignificantlyAbove Classification = "significantly above normal range"
	ClassUndetermined       Classification = "undetermined"
)

// TestResults is built once when the staircase finishes
type TestResults struct {
	TestType        string
	Threshold       float64
	LowestCoherency float64
	Trials          []Trial
	ReversalValues  []float64
	CorrectCount    int
	IncorrectCount  int
	Settings        string
}

// Classification maps the threshold: below 20 normal, below 50 slightly
// above, otherwise significantly above. NaN is undetermined
func (r *TestResults) Classification() Classification {
	return Classify(r.Threshold)
}

// Classify buckets a coherence threshold
func Classify(threshold float64) Classification {
	switch {
	case math.IsNaN(threshold):
		return ClassUndetermined
	case threshold < parameter.ThresholdNormalMax:
		return ClassNormal
	case threshold < parameter.ThresholdSlightMax:
		return ClassSlightlyAbove
	default:
		return ClassSignificantlyAbove
	}
}

// lowestCoherency is the smallest reversal value, capped at the ceiling
func lowestCoherency(reversals []float64) float64 {
	if len(reversals) == 0 {
		return parameter.CoherenceCeiling
	}
	return math.Min(floats.Min(reversals), parameter.CoherenceCeiling)
}
