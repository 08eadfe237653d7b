// Package staircase runs the adaptive procedure over a motion world: it scores
// responses, adjusts coherence, tracks reversals and computes the threshold
package staircase

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lixenwraith/motion-coherence/config"
	"github.com/lixenwraith/motion-coherence/motion"
	"github.com/lixenwraith/motion-coherence/psychophysics"
)

// ErrResponseRejected is returned when a response arrives outside a stimulus
var ErrResponseRejected = errors.New("response rejected")

// Response is one participant choice
type Response struct {
	Side       motion.Side
	Method     InputMethod
	ReactionMs float64
}

// Options select test or tutorial behaviour
type Options struct {
	// Tutorial stops after TrialMaxSteps and never ends on reversals
	Tutorial bool
}

// Controller owns the staircase counters for one world
type Controller struct {
	world    *motion.World
	settings config.Settings
	opts     Options
	log      *zap.Logger

	correctFactor  float64
	wrongFactor    float64
	maxSteps       int
	reversalTarget int
	meanWindow     int

	stepCounter     int
	reversalCounter int
	correctCount    int
	incorrectCount  int
	prevCorrect     bool

	reversalValues []float64
	trials         []Trial
	results        *TestResults
}

// NewController converts the dB step sizes to factors and binds to world
func NewController(world *motion.World, s config.Settings, opts Options, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	maxSteps := s.MaxAttempts
	if opts.Tutorial {
		maxSteps = s.TrialMaxSteps
	}
	return &Controller{
		world:          world,
		settings:       s,
		opts:           opts,
		log:            log,
		correctFactor:  psychophysics.DecibelToFactor(s.CorrectStepDB),
		wrongFactor:    psychophysics.DecibelToFactor(s.WrongStepDB),
		maxSteps:       maxSteps,
		reversalTarget: s.ReversalPointsTarget,
		meanWindow:     s.ReversalsForMean,
	}
}

// Respond scores a response against the current stimulus. Coherence and the
// coherent side are read before the update; a reversal records that earlier
// value. The world then resets, enters feedback, or finishes
func (c *Controller) Respond(r Response) (Trial, error) {
	if c.results != nil {
		return Trial{}, errors.Wrap(ErrResponseRejected, "staircase finished")
	}
	if st := c.world.State(); !st.AcceptsResponse() {
		return Trial{}, errors.Wrapf(ErrResponseRejected, "world is %s", st)
	}

	before := c.world.CoherencePercent()
	coherent := c.world.CoherentSide()
	correct := r.Side == coherent

	factor := c.wrongFactor
	if correct {
		factor = c.correctFactor
		c.correctCount++
	} else {
		c.incorrectCount++
	}

	c.stepCounter++
	reversal := c.stepCounter > 1 && correct != c.prevCorrect
	if reversal {
		c.reversalValues = append(c.reversalValues, before)
		c.reversalCounter++
	}
	c.prevCorrect = correct

	c.world.UpdateCoherency(factor, correct)

	trial := Trial{
		Step:             c.stepCounter,
		SelectedPatch:    r.Side,
		CoherentPatch:    coherent,
		Correct:          correct,
		Reversal:         reversal,
		TimeToSelectMs:   r.ReactionMs,
		InputMethod:      r.Method,
		CoherencyAtTrial: before,
	}
	c.trials = append(c.trials, trial)

	last := c.terminal()
	c.log.Info("response",
		zap.Int("step", c.stepCounter),
		zap.Bool("correct", correct),
		zap.Stringer("selected", r.Side),
		zap.Stringer("coherent", coherent),
		zap.Float64("coherence_before", before),
		zap.Float64("coherence_after", c.world.CoherencePercent()),
		zap.Bool("reversal", reversal),
		zap.Int("reversals", c.reversalCounter),
		zap.Float64("reaction_ms", r.ReactionMs),
	)

	if err := c.world.CompleteTrial(correct, last); err != nil {
		return trial, err
	}
	if last {
		c.finish()
	}
	return trial, nil
}

func (c *Controller) terminal() bool {
	if c.stepCounter >= c.maxSteps {
		return true
	}
	return !c.opts.Tutorial && c.reversalCounter >= c.reversalTarget
}

func (c *Controller) finish() {
	threshold, err := psychophysics.GeometricMean(c.reversalValues, c.meanWindow)
	if err != nil {
		c.log.Warn("threshold undefined", zap.Error(err), zap.Float64s("reversals", c.reversalValues))
	}

	snapshot, err := c.settings.Snapshot()
	if err != nil {
		c.log.Warn("settings snapshot failed", zap.Error(err))
	}

	c.results = &TestResults{
		TestType:        TestTypeMotion,
		Threshold:       threshold,
		LowestCoherency: lowestCoherency(c.reversalValues),
		Trials:          append([]Trial(nil), c.trials...),
		ReversalValues:  append([]float64(nil), c.reversalValues...),
		CorrectCount:    c.correctCount,
		IncorrectCount:  c.incorrectCount,
		Settings:        snapshot,
	}

	c.log.Info("staircase finished",
		zap.Int("steps", c.stepCounter),
		zap.Int("reversals", c.reversalCounter),
		zap.Float64("threshold", threshold),
		zap.Bool("threshold_defined", !math.IsNaN(threshold)),
		zap.String("classification", string(c.results.Classification())),
	)
}

// Finished reports whether the terminal condition was reached
func (c *Controller) Finished() bool { return c.results != nil }

// Results returns the final record, nil until finished
func (c *Controller) Results() *TestResults { return c.results }

func (c *Controller) Steps() int             { return c.stepCounter }
func (c *Controller) MaxSteps() int          { return c.maxSteps }
func (c *Controller) Reversals() int         { return c.reversalCounter }
func (c *Controller) CorrectCount() int      { return c.correctCount }
func (c *Controller) IncorrectCount() int    { return c.incorrectCount }
func (c *Controller) World() *motion.World   { return c.world }
func (c *Controller) CorrectFactor() float64 { return c.correctFactor }
func (c *Controller) WrongFactor() float64   { return c.wrongFactor }

// ReversalValues returns a copy of the recorded reversal coherences
func (c *Controller) ReversalValues() []float64 {
	return append([]float64(nil), c.reversalValues...)
}

// Trials returns a copy of the trials recorded so far
func (c *Controller) Trials() []Trial {
	return append([]Trial(nil), c.trials...)
}
