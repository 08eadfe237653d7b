// Package session runs one participant sitting: intro, the staircase run in
// test or tutorial mode, then results. It consumes queued input events once
// per tick and drives the world with fixed simulation steps
package session

import (
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lixenwraith/motion-coherence/config"
	"github.com/lixenwraith/motion-coherence/engine"
	"github.com/lixenwraith/motion-coherence/event"
	"github.com/lixenwraith/motion-coherence/motion"
	"github.com/lixenwraith/motion-coherence/render"
	"github.com/lixenwraith/motion-coherence/staircase"
	"github.com/lixenwraith/motion-coherence/status"
	"github.com/lixenwraith/motion-coherence/vmath"
)

// ErrUnknownMode is returned by ParseMode
var ErrUnknownMode = errors.New("unknown session mode")

// Mode selects the staircase variant
type Mode int

const (
	ModeTest Mode = iota
	ModeTutorial
)

func (m Mode) String() string {
	if m == ModeTutorial {
		return "tutorial"
	}
	return "test"
}

// ParseMode accepts "test" or "tutorial"
func ParseMode(s string) (Mode, error) {
	switch s {
	case "test", "":
		return ModeTest, nil
	case "tutorial":
		return ModeTutorial, nil
	}
	return ModeTest, errors.Wrapf(ErrUnknownMode, "%q", s)
}

// Phase is the screen currently shown
type Phase int

const (
	PhaseIntro Phase = iota
	PhaseRun
	PhaseResults
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseIntro:
		return "intro"
	case PhaseRun:
		return "run"
	case PhaseResults:
		return "results"
	case PhaseDone:
		return "done"
	}
	return "unknown"
}

// FeedbackPlayer is the audio side of tutorial feedback
type FeedbackPlayer interface {
	PlayFeedback(correct bool) bool
}

type metrics struct {
	step      *atomic.Int64
	reversals *atomic.Int64
	correct   *atomic.Int64
	incorrect *atomic.Int64
	coherence *status.AtomicFloat
	fps       *status.AtomicFloat
}

// Session owns the world and staircase for one run
type Session struct {
	mode  Mode
	clock engine.TimeProvider
	queue *event.Queue
	sound FeedbackPlayer
	log   *zap.Logger

	world      *motion.World
	controller *staircase.Controller
	metrics    metrics

	phase     Phase
	onset     time.Time
	lastTrial int
	err       error

	// awaitingFrame is set by an accepted response and cleared once a frame
	// has been produced, so one drain scores at most one stimulus
	awaitingFrame bool
}

// Deps are the collaborators a session is wired to; Sound and Log may be nil
type Deps struct {
	Clock   engine.TimeProvider
	Queue   *event.Queue
	Metrics *status.Registry
	Sound   FeedbackPlayer
	Log     *zap.Logger
}

// New builds the world for mode and starts on the intro screen. A zero
// Settings.Seed seeds from the clock
func New(s config.Settings, mode Mode, d Deps) (*Session, error) {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	if d.Clock == nil {
		d.Clock = engine.NewMonotonicTimeProvider()
	}
	if d.Queue == nil {
		d.Queue = event.NewQueue()
	}
	if d.Metrics == nil {
		d.Metrics = status.NewRegistry()
	}

	seed := s.Seed
	if seed == 0 {
		seed = uint64(d.Clock.Now().UnixNano())
	}

	opts := motion.TestOptions(s)
	if mode == ModeTutorial {
		opts = motion.TutorialOptions(s)
	}

	world, err := motion.NewWorld(s, opts, vmath.NewFastRand(seed), log.Named("world"))
	if err != nil {
		return nil, err
	}
	ctrl := staircase.NewController(world, s, staircase.Options{Tutorial: mode == ModeTutorial}, log.Named("staircase"))

	sess := &Session{
		mode:       mode,
		clock:      d.Clock,
		queue:      d.Queue,
		sound:      d.Sound,
		log:        log,
		world:      world,
		controller: ctrl,
		phase:      PhaseIntro,
		metrics: metrics{
			step:      d.Metrics.Ints.Get(status.KeyTrialStep),
			reversals: d.Metrics.Ints.Get(status.KeyTrialReversals),
			correct:   d.Metrics.Ints.Get(status.KeyTrialCorrect),
			incorrect: d.Metrics.Ints.Get(status.KeyTrialIncorrect),
			coherence: d.Metrics.Floats.Get(status.KeyWorldCoherence),
			fps:       d.Metrics.Floats.Get(status.KeyWorldFPS),
		},
	}
	sess.publish()

	log.Info("session created", zap.Stringer("mode", mode), zap.Uint64("seed", seed))
	return sess, nil
}

func (s *Session) Mode() Mode                        { return s.mode }
func (s *Session) Phase() Phase                      { return s.phase }
func (s *Session) World() *motion.World              { return s.world }
func (s *Session) Controller() *staircase.Controller { return s.controller }

// Err is the failure that ended the session early, if any
func (s *Session) Err() error { return s.err }

// Done reports whether the host loop should exit
func (s *Session) Done() bool { return s.phase == PhaseDone }

// Results is nil until the staircase finished
func (s *Session) Results() *staircase.TestResults { return s.controller.Results() }

// HandleEvents drains the queue and applies every event in arrival order
func (s *Session) HandleEvents() {
	for _, ev := range s.queue.Consume() {
		s.handle(ev)
		if s.phase == PhaseDone {
			return
		}
	}
}

func (s *Session) handle(ev event.InputEvent) {
	if ev.Type == event.EventQuit {
		s.log.Info("quit requested", zap.Stringer("phase", s.phase))
		s.phase = PhaseDone
		return
	}

	switch s.phase {
	case PhaseIntro:
		if ev.Type == event.EventStart {
			s.begin()
		}
	case PhaseRun:
		switch ev.Type {
		case event.EventSelect:
			s.respond(ev)
		case event.EventStart:
			if s.world.State() == motion.StateIdle {
				s.begin()
			}
		}
	case PhaseResults:
		if ev.Type == event.EventContinue || ev.Type == event.EventStart {
			s.phase = PhaseDone
		}
	}
}

func (s *Session) begin() {
	if err := s.world.Start(); err != nil {
		s.fail(err)
		return
	}
	s.phase = PhaseRun
	s.onset = s.clock.Now()
	s.lastTrial = s.world.Trial()
}

func (s *Session) respond(ev event.InputEvent) {
	if s.awaitingFrame || !s.world.State().AcceptsResponse() {
		return
	}

	at := ev.At
	if at.IsZero() {
		at = s.clock.Now()
	}
	reaction := float64(at.Sub(s.onset)) / float64(time.Millisecond)
	if reaction < 0 {
		reaction = 0
	}

	trial, err := s.controller.Respond(staircase.Response{
		Side:       ev.Side,
		Method:     ev.Method,
		ReactionMs: reaction,
	})
	if err != nil {
		if errors.Is(err, staircase.ErrResponseRejected) {
			s.log.Debug("response rejected", zap.Error(err))
			return
		}
		s.fail(err)
		return
	}

	s.awaitingFrame = true

	if s.mode == ModeTutorial && s.sound != nil {
		s.sound.PlayFeedback(trial.Correct)
	}
	s.trackOnset()
	s.publish()
	s.checkFinished()
}

// Update advances the world by one fixed step
func (s *Session) Update(stepMs float64) {
	if s.phase != PhaseRun {
		return
	}
	s.world.Update(stepMs)
	if err := s.world.Err(); err != nil {
		s.fail(err)
		return
	}
	s.trackOnset()
	s.checkFinished()
}

// Tick drains input, runs n steps and refreshes metrics. The host draws a
// frame after every tick, which re-arms response handling
func (s *Session) Tick(n int, stepMs float64) {
	s.HandleEvents()
	for i := 0; i < n && s.phase == PhaseRun; i++ {
		s.Update(stepMs)
	}
	s.publish()
	s.awaitingFrame = false
}

// trackOnset stamps the stimulus onset whenever a new population appears
func (s *Session) trackOnset() {
	if t := s.world.Trial(); t != s.lastTrial && s.world.State() == motion.StateRunning {
		s.lastTrial = t
		s.onset = s.clock.Now()
	}
}

func (s *Session) checkFinished() {
	if s.world.State() == motion.StateFinished && s.controller.Finished() {
		res := s.controller.Results()
		s.log.Info("session finished",
			zap.Float64("threshold", res.Threshold),
			zap.String("classification", string(res.Classification())),
			zap.Int("trials", len(res.Trials)),
		)
		s.phase = PhaseResults
	}
}

func (s *Session) fail(err error) {
	s.log.Error("session aborted", zap.Error(err))
	s.err = err
	s.phase = PhaseDone
}

// SetFPS records the measured frame rate for the status bar
func (s *Session) SetFPS(fps float64) {
	s.metrics.fps.Set(fps)
}

func (s *Session) publish() {
	s.metrics.step.Store(int64(s.controller.Steps()))
	s.metrics.reversals.Store(int64(s.controller.Reversals()))
	s.metrics.correct.Store(int64(s.controller.CorrectCount()))
	s.metrics.incorrect.Store(int64(s.controller.IncorrectCount()))
	s.metrics.coherence.Set(s.world.CoherencePercent())
}

// Draw renders the current phase
func (s *Session) Draw(scr render.Surface, r *render.Renderer, reg *status.Registry) {
	s.awaitingFrame = false
	switch s.phase {
	case PhaseIntro:
		r.DrawIntro(scr, s.mode == ModeTutorial)
	case PhaseRun:
		r.DrawWorld(scr)
		if reg != nil {
			r.DrawStatus(scr, reg)
		}
	case PhaseResults:
		if res := s.Results(); res != nil {
			r.DrawResults(scr, *res)
		}
	}
}
