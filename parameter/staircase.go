package parameter

// Threshold classification bounds (coherence percent)
const (
	// ThresholdNormalMax is the exclusive upper bound of the normal score range
	ThresholdNormalMax = 20.0

	// ThresholdSlightMax is the exclusive upper bound of the slightly-above range
	ThresholdSlightMax = 50.0
)

// Coherence bounds
const (
	// CoherenceCeiling caps the coherence percent after a wrong answer
	CoherenceCeiling = 100.0
)
