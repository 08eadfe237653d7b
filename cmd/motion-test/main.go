package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lixenwraith/motion-coherence/audio"
	"github.com/lixenwraith/motion-coherence/config"
	"github.com/lixenwraith/motion-coherence/engine"
	"github.com/lixenwraith/motion-coherence/event"
	"github.com/lixenwraith/motion-coherence/input"
	"github.com/lixenwraith/motion-coherence/logging"
	"github.com/lixenwraith/motion-coherence/parameter"
	"github.com/lixenwraith/motion-coherence/render"
	"github.com/lixenwraith/motion-coherence/session"
	"github.com/lixenwraith/motion-coherence/staircase"
	"github.com/lixenwraith/motion-coherence/status"
	"github.com/lixenwraith/motion-coherence/terminal"
)

var (
	configFlag = flag.String("config", "", "Settings file (TOML); defaults and MOTION_* env apply without one")
	modeFlag   = flag.String("mode", "test", "Session mode: test, tutorial")
	seedFlag   = flag.Uint64("seed", 0, "RNG seed override; 0 keeps the settings value")
	debugFlag  = flag.Bool("debug", false, "Write debug logs to the log directory")
	logDirFlag = flag.String("log-dir", logging.DefaultDir, "Log directory used with -debug")
	muteFlag   = flag.Bool("mute", false, "Disable feedback sounds")
	dumpFlag   = flag.Bool("dump-config", false, "Print effective settings as TOML and exit")
)

func main() {
	// Panic Recovery: restore the terminal before printing anything
	defer func() {
		if r := recover(); r != nil {
			terminal.CrashReport(os.Stdout, os.Stderr, "MOTION-TEST", r)
			os.Exit(1)
		}
	}()

	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "motion-test: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	settings, err := config.Load(*configFlag)
	if err != nil {
		return err
	}
	if *seedFlag != 0 {
		settings.Seed = *seedFlag
	}

	if *dumpFlag {
		snap, err := settings.Snapshot()
		if err != nil {
			return err
		}
		fmt.Print(snap)
		return nil
	}

	mode, err := session.ParseMode(*modeFlag)
	if err != nil {
		return err
	}

	logOpts := logging.DefaultOptions()
	logOpts.Enabled = *debugFlag
	logOpts.Dir = *logDirFlag
	log, closeLog, err := logging.New(logOpts)
	if err != nil {
		return err
	}
	defer closeLog()

	clock := engine.NewMonotonicTimeProvider()
	queue := event.NewQueue()
	metrics := status.NewRegistry()

	player := audio.NewPlayer(log.Named("audio"))
	if mode == session.ModeTutorial && !*muteFlag {
		if err := player.Start(); err != nil {
			log.Warn("audio start failed", zap.Error(err))
		}
		defer player.Stop()
	}

	sess, err := session.New(settings, mode, session.Deps{
		Clock:   clock,
		Queue:   queue,
		Metrics: metrics,
		Sound:   player,
		Log:     log,
	})
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "create screen")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "init screen")
	}
	screen.EnableMouse(tcell.MouseButtonEvents)
	screen.HideCursor()

	renderer := render.NewRenderer(render.NewTheme(parameter.PatchOutlineColor))
	renderer.SetWorld(sess.World())

	loopErr := loop(screen, sess, renderer, input.NewMapper(clock, renderer), queue, metrics, clock, log)
	screen.Fini()

	if loopErr != nil {
		return loopErr
	}
	if err := sess.Err(); err != nil {
		return err
	}
	if res := sess.Results(); res != nil {
		printResults(res)
	}
	return nil
}

// loop polls input on its own goroutine and runs simulation and rendering on
// the frame ticker until the session is done
func loop(screen tcell.Screen, sess *session.Session, renderer *render.Renderer, mapper *input.Mapper,
	queue *event.Queue, metrics *status.Registry, clock engine.TimeProvider, log *zap.Logger) error {

	resized := make(chan struct{}, 1)
	pollDone := make(chan struct{})

	// Input polling uses raw goroutine as it interacts directly with terminal
	go func() {
		defer close(pollDone)
		defer func() {
			if r := recover(); r != nil {
				terminal.CrashReport(os.Stdout, os.Stderr, "EVENT POLLER", r)
				os.Exit(1)
			}
		}()

		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			ie, ok := mapper.Map(ev)
			if !ok {
				continue
			}
			if ie.Type == event.EventResize {
				select {
				case resized <- struct{}{}:
				default:
				}
				continue
			}
			queue.Push(ie)
		}
	}()

	stepper := engine.NewStepper(clock)
	ticker := time.NewTicker(parameter.SimulationTimestep)
	defer ticker.Stop()

	for {
		select {
		case <-pollDone:
			return errors.New("terminal closed")
		case <-resized:
			screen.Sync()
		case <-ticker.C:
		}

		n := stepper.Advance()
		sess.Tick(n, stepper.StepMs())
		sess.SetFPS(stepper.FPS())
		if sess.Done() {
			if d := queue.Dropped(); d > 0 {
				log.Warn("input events dropped", zap.Uint64("count", d))
			}
			return nil
		}

		screen.Clear()
		sess.Draw(screen, renderer, metrics)
		screen.Show()
	}
}

func printResults(res *staircase.TestResults) {
	threshold := "n/a"
	if !math.IsNaN(res.Threshold) {
		threshold = fmt.Sprintf("%.2f%%", res.Threshold)
	}
	fmt.Printf("Threshold:        %s\n", threshold)
	fmt.Printf("Lowest coherence: %.2f%%\n", res.LowestCoherency)
	fmt.Printf("Classification:   %s\n", res.Classification())
	fmt.Printf("Trials:           %d (%d correct, %d incorrect)\n", len(res.Trials), res.CorrectCount, res.IncorrectCount)
}
