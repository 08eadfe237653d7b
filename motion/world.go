// Package motion simulates the two-patch random-dot field: dot kinematics,
// collision handling, lifetime respawn and the per-trial state machine
package motion

import (
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/motion-coherence/config"
	"github.com/lixenwraith/motion-coherence/parameter"
	"github.com/lixenwraith/motion-coherence/physics"
	"github.com/lixenwraith/motion-coherence/psychophysics"
	"github.com/lixenwraith/motion-coherence/quadtree"
	"github.com/lixenwraith/motion-coherence/vmath"
)

// FeedbackMode selects what happens between a response and the next trial
type FeedbackMode uint8

const (
	// FeedbackNone resets immediately on response
	FeedbackNone FeedbackMode = iota
	// FeedbackSelected holds PATCH_SELECTED for a short phase
	FeedbackSelected
	// FeedbackReveal holds TRIAL_CORRECT or TRIAL_INCORRECT
	FeedbackReveal
)

func (m FeedbackMode) String() string {
	switch m {
	case FeedbackSelected:
		return "selected"
	case FeedbackReveal:
		return "reveal"
	default:
		return "none"
	}
}

// Options are the behaviour flags distinguishing test and tutorial worlds
type Options struct {
	Feedback   FeedbackMode
	Placement  PlacementStrategy
	PatchScale float64 // 0 means 1
}

// TestOptions configures the scored test world
func TestOptions(s config.Settings) Options {
	return Options{
		Feedback:   FeedbackNone,
		Placement:  ParsePlacement(s.Placement),
		PatchScale: 1,
	}
}

// TutorialOptions configures the smaller practice world with outcome feedback
func TutorialOptions(s config.Settings) Options {
	return Options{
		Feedback:   FeedbackReveal,
		Placement:  ParsePlacement(s.Placement),
		PatchScale: parameter.TutorialPatchScale,
	}
}

var sides = [2]Side{SideLeft, SideRight}

// World owns both dot populations, the spatial index and the trial state
type World struct {
	settings config.Settings
	opts     Options
	rng      *vmath.FastRand
	log      *zap.Logger

	patches  [2]Patch
	masks    [2]r2.Box
	bounds   r2.Box
	quadTree *quadtree.QuadTree
	placers  [2]*placer

	dots       [2][]*Dot
	candidates []quadtree.Body
	nextID     int

	coherencePercent  float64
	coherentSide      Side
	coherentDirection MotionMode
	coherentCount     int

	state            State
	runTime          float64
	maxRunTime       float64
	feedbackTimer    float64
	feedbackDuration float64
	finishPending    bool
	trial            int
	err              error
}

// NewWorld builds patches, bounds, masks, the quadtree and placement grid in
// that order, then populates the first trial. The world starts IDLE.
// Returns ErrPatchCapacity when the dots cannot fit with the required spacing
func NewWorld(s config.Settings, opts Options, rng *vmath.FastRand, log *zap.Logger) (*World, error) {
	s = s.WithPhysicalSize()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	if rng == nil {
		rng = vmath.NewFastRand(s.Seed)
	}
	if opts.PatchScale <= 0 {
		opts.PatchScale = 1
	}

	w := &World{
		settings:         s,
		opts:             opts,
		rng:              rng,
		log:              log,
		coherencePercent: s.CoherencePercent,
		maxRunTime:       s.MaxAnimationTimeMs,
		state:            StateIdle,
	}

	w.createPatches()
	w.createMasks()
	w.createQuadTree()
	w.createPlacers()

	perSide := s.DotsPerSide()
	for _, side := range sides {
		if c := w.placers[side].capacity(); c >= 0 && c < perSide {
			return nil, errors.Wrapf(ErrPatchCapacity, "%s patch grid holds %d dots, need %d", side, c, perSide)
		}
	}

	if err := w.createDots(); err != nil {
		return nil, err
	}

	w.log.Debug("world created",
		zap.Stringer("feedback", opts.Feedback),
		zap.Stringer("placement", opts.Placement),
		zap.Float64("patch_width_px", w.patches[SideLeft].Width),
		zap.Float64("patch_height_px", w.patches[SideLeft].Height),
		zap.Float64("patch_gap_px", w.patches[SideRight].X-(w.patches[SideLeft].X+w.patches[SideLeft].Width)),
		zap.Int("dots_per_side", perSide),
		zap.Int("grid_capacity", w.placers[SideLeft].capacity()),
	)
	return w, nil
}

func (w *World) createPatches() {
	s := w.settings
	scale := w.opts.PatchScale

	gap := psychophysics.VisualAngleToPixels(s.PatchGapDeg, s.ViewingDistanceMM, s.WindowWidthPx, s.WindowWidthMM) * scale
	width := psychophysics.VisualAngleToPixels(s.PatchWidthDeg, s.ViewingDistanceMM, s.WindowWidthPx, s.WindowWidthMM) * scale
	height := psychophysics.VisualAngleToPixels(s.PatchHeightDeg, s.ViewingDistanceMM, s.WindowHeightPx, s.WindowHeightMM) * scale

	cx := s.WindowWidthPx / 2
	cy := s.WindowHeightPx / 2
	y := cy - height/2

	w.patches[SideLeft] = Patch{
		Side:             SideLeft,
		X:                cx - width - gap/2,
		Y:                y,
		Width:            width,
		Height:           height,
		OutlineThickness: parameter.PatchOutlineThickness,
		OutlineColor:     parameter.PatchOutlineColor,
	}
	w.patches[SideRight] = Patch{
		Side:             SideRight,
		X:                cx + gap/2,
		Y:                y,
		Width:            width,
		Height:           height,
		OutlineThickness: parameter.PatchOutlineThickness,
		OutlineColor:     parameter.PatchOutlineColor,
	}
}

// createMasks derives the per-side dot areas; they double as clip rectangles
func (w *World) createMasks() {
	for _, side := range sides {
		w.masks[side] = w.patches[side].Inner()
	}
}

func (w *World) createQuadTree() {
	left := w.patches[SideLeft].Bounds()
	right := w.patches[SideRight].Bounds()
	w.bounds = r2.Box{
		Min: r2.Vec{X: math.Min(left.Min.X, right.Min.X), Y: math.Min(left.Min.Y, right.Min.Y)},
		Max: r2.Vec{X: math.Max(left.Max.X, right.Max.X), Y: math.Max(left.Max.Y, right.Max.Y)},
	}
	w.quadTree = quadtree.New(w.bounds, parameter.QuadTreeMaxObjects, parameter.QuadTreeMaxLevels)
}

func (w *World) createPlacers() {
	for _, side := range sides {
		w.placers[side] = newPlacer(w.opts.Placement, w.masks[side], w.settings.DotRadius, w.settings.DotSpacing, w.rng)
	}
}

// CoherentCount is the number of coherent dots for a percentage of perSide,
// rounded and clamped to [0, perSide]
func CoherentCount(percent float64, perSide int) int {
	if math.IsNaN(percent) || percent <= 0 {
		return 0
	}
	n := math.Round(percent / 100 * float64(perSide))
	if n > float64(perSide) {
		return perSide
	}
	return int(n)
}

// createDots picks the coherent side and direction, then repopulates both
// patches. Lifetimes are staggered so roughly kill% of a side expires at once
func (w *World) createDots() error {
	s := w.settings
	perSide := s.DotsPerSide()

	coherentSide := SideRight
	if w.rng.Bool() {
		coherentSide = SideLeft
	}
	direction := ModeCoherentLeft
	if w.rng.Bool() {
		direction = ModeCoherentRight
	}
	coherentCount := CoherentCount(w.coherencePercent, perSide)

	killGroup := int(math.Round(s.KillPercent * float64(perSide) / 100))
	if killGroup < 1 {
		killGroup = 1
	}

	var next [2][]*Dot
	for _, side := range sides {
		positions, err := w.placers[side].initial(perSide)
		if err != nil {
			return errors.Wrapf(err, "populate %s patch", side)
		}

		dots := make([]*Dot, 0, perSide)
		for i, pos := range positions {
			mode := ModeRandom
			if side == coherentSide && i < coherentCount {
				mode = direction
			}
			timings := DotTimings{
				MaxAlive:        s.DotMaxAliveTimeMs * float64(1+i/killGroup),
				Reversal:        s.ReversalTimeMs,
				RandomDirection: s.RandomDirectionTimeMs,
			}
			dots = append(dots, NewDot(w.nextID, pos, s.DotRadius, s.DotVelocity, mode, timings, w.rng))
			w.nextID++
		}
		next[side] = dots
	}

	w.dots = next
	w.coherentSide = coherentSide
	w.coherentDirection = direction
	w.coherentCount = coherentCount
	w.trial++
	return nil
}

// Update advances the world by one tick. RUNNING moves dots, feedback states
// count down to the next trial, other states do nothing
func (w *World) Update(deltaMs float64) {
	switch {
	case w.state == StateRunning:
		w.UpdateDots(deltaMs)
	case w.state.IsFeedback():
		w.updateFeedback(deltaMs)
	}
}

// UpdateDots accumulates run time, pausing once the display budget is spent,
// otherwise advances each side: timers and wall check, dot-dot collisions,
// integration with a second wall check, then respawn of expired dots
func (w *World) UpdateDots(deltaMs float64) {
	w.runTime += deltaMs
	if w.runTime >= w.maxRunTime {
		w.state = StatePaused
		return
	}

	for _, side := range sides {
		w.updateSide(side, deltaMs)
	}
}

func (w *World) updateSide(side Side, deltaMs float64) {
	dots := w.dots[side]
	mask := w.masks[side]

	for _, d := range dots {
		d.Update(deltaMs)
		w.checkWallCollision(d, mask)
	}

	// Index after the wall pass so the tree holds the positions collisions see
	w.quadTree.Clear()
	for _, d := range dots {
		w.quadTree.Insert(d)
	}

	for _, d := range dots {
		w.candidates = w.quadTree.Retrieve(w.candidates[:0], d)
		for _, c := range w.candidates {
			other, ok := c.(*Dot)
			if !ok || other == d {
				continue
			}
			d.CollideWithDot(other)
		}
	}

	for _, d := range dots {
		d.UpdatePosition(deltaMs)
		w.checkWallCollision(d, mask)
	}

	for _, d := range dots {
		if d.Expired() {
			w.respawn(side, d)
		}
	}
}

func (w *World) checkWallCollision(d *Dot, mask r2.Box) {
	clamped, hit := physics.ClampToBox(d.pos, d.radius, mask)
	if hit != physics.WallNone {
		d.CollideWithWall(clamped.X, clamped.Y)
	}
}

// respawn relocates an expired dot; with no free spot it stays put and only
// its timer restarts
func (w *World) respawn(side Side, d *Dot) {
	pos, ok := w.placers[side].free(w.dots[side], d)
	if !ok {
		w.log.Debug("respawn without free spot", zap.Stringer("side", side), zap.Int("dot", d.id))
		pos = d.pos
	}
	d.Respawn(pos)
}

func (w *World) updateFeedback(deltaMs float64) {
	w.feedbackTimer += deltaMs
	if w.feedbackTimer < w.feedbackDuration {
		return
	}
	w.feedbackTimer = 0

	if w.finishPending {
		w.state = StateFinished
		return
	}
	if err := w.Reset(); err != nil {
		w.err = err
		w.log.Error("trial reset failed", zap.Error(err))
		w.state = StateFinished
	}
}

// UpdateCoherency applies the asymmetric staircase rule. A correct answer
// shrinks coherence by factor-1 of itself when factor > 1, or scales it by
// factor otherwise; a wrong answer scales by factor up to the ceiling
func (w *World) UpdateCoherency(factor float64, isCorrect bool) {
	c := w.coherencePercent
	switch {
	case isCorrect && factor > 1:
		c -= c * (factor - 1)
	case isCorrect:
		c *= factor
	default:
		c = math.Min(c*factor, parameter.CoherenceCeiling)
	}
	w.coherencePercent = c
}

// Start begins the first trial from IDLE
func (w *World) Start() error {
	if w.state != StateIdle {
		return errors.Wrapf(ErrInvalidState, "start from %s", w.state)
	}
	w.runTime = 0
	w.state = StateRunning
	return nil
}

// Reset discards both populations and starts a new trial in RUNNING.
// Coherence carries over; the coherent side and direction are redrawn
func (w *World) Reset() error {
	if w.state == StateFinished {
		return errors.Wrap(ErrInvalidState, "reset after finish")
	}
	w.runTime = 0
	w.feedbackTimer = 0
	w.finishPending = false
	if err := w.createDots(); err != nil {
		return err
	}
	w.state = StateRunning
	return nil
}

// CompleteTrial closes the current stimulus after a response. Without a
// feedback phase it resets at once, or finishes when last is set; with one it
// enters the feedback state and Update finishes or resets when it elapses
func (w *World) CompleteTrial(correct, last bool) error {
	if !w.state.AcceptsResponse() {
		return errors.Wrapf(ErrInvalidState, "response in %s", w.state)
	}

	switch w.opts.Feedback {
	case FeedbackSelected:
		w.beginFeedback(StatePatchSelected, w.settings.FeedbackTimeMs/parameter.SelectedFeedbackDivisor, last)
	case FeedbackReveal:
		st := StateTrialIncorrect
		if correct {
			st = StateTrialCorrect
		}
		w.beginFeedback(st, w.settings.FeedbackTimeMs, last)
	default:
		if last {
			w.state = StateFinished
			return nil
		}
		return w.Reset()
	}
	return nil
}

func (w *World) beginFeedback(st State, duration float64, last bool) {
	w.state = st
	w.feedbackTimer = 0
	w.feedbackDuration = duration
	w.finishPending = last
}

// SetState moves to st if the transition table allows it
func (w *World) SetState(st State) error {
	if st == w.state {
		return nil
	}
	if !CanTransition(w.state, st) {
		return errors.Wrapf(ErrInvalidState, "%s to %s", w.state, st)
	}
	w.state = st
	return nil
}

func (w *World) State() State                  { return w.state }
func (w *World) CoherentSide() Side            { return w.coherentSide }
func (w *World) CoherentDirection() MotionMode { return w.coherentDirection }
func (w *World) CoherencePercent() float64     { return w.coherencePercent }
func (w *World) CoherentCount() int            { return w.coherentCount }
func (w *World) RunTime() float64              { return w.runTime }
func (w *World) MaxRunTime() float64           { return w.maxRunTime }
func (w *World) Options() Options              { return w.opts }
func (w *World) Settings() config.Settings     { return w.settings }
func (w *World) Bounds() r2.Box                { return w.bounds }

// Trial counts populations generated so far, starting at 1
func (w *World) Trial() int { return w.trial }

// Err returns the last reset failure that forced FINISHED, if any
func (w *World) Err() error { return w.err }

// Patch returns the geometry of one side
func (w *World) Patch(side Side) Patch { return w.patches[side] }

// Mask returns the clip rectangle dots of one side live in
func (w *World) Mask(side Side) r2.Box { return w.masks[side] }

// Dots exposes one side's population for rendering; callers must not mutate it
func (w *World) Dots(side Side) []*Dot { return w.dots[side] }

// FeedbackProgress is the elapsed fraction of the feedback phase, 0 outside it
func (w *World) FeedbackProgress() float64 {
	if !w.state.IsFeedback() || w.feedbackDuration <= 0 {
		return 0
	}
	return math.Min(w.feedbackTimer/w.feedbackDuration, 1)
}

// PatchAt hit-tests a pointer position against both patches
func (w *World) PatchAt(x, y float64) (Side, bool) {
	for _, side := range sides {
		if w.patches[side].Contains(x, y) {
			return side, true
		}
	}
	return SideLeft, false
}
