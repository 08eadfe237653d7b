package audio

import (
	"encoding/binary"
	"io"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lixenwraith/motion-coherence/parameter"
)

// Player streams feedback sounds to a backend process. Without a backend it
// runs silent and Play is a no-op
type Player struct {
	log    *zap.Logger
	volume float64

	backend *BackendConfig
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	output  io.Writer

	mixer   *beep.Mixer
	mixerMu sync.Mutex

	queue    chan Sound
	stopChan chan struct{}

	running    atomic.Bool
	muted      atomic.Bool
	silentMode atomic.Bool

	played  atomic.Uint64
	dropped atomic.Uint64

	wg sync.WaitGroup
}

// NewPlayer creates a stopped player; nil log discards
func NewPlayer(log *zap.Logger) *Player {
	if log == nil {
		log = zap.NewNop()
	}
	return &Player{
		log:    log,
		volume: parameter.AudioMasterVolume,
		mixer:  &beep.Mixer{},
		queue:  make(chan Sound, parameter.AudioQueueSize),
	}
}

// Start detects a backend and launches the mixer. A missing or failing
// backend puts the player in silent mode, not an error
func (p *Player) Start() error {
	if p.running.Load() {
		return ErrRunning
	}

	backend, err := DetectBackend()
	if err != nil {
		p.log.Info("audio disabled", zap.Error(err))
		p.goSilent()
		return nil
	}

	cmd := exec.Command(backend.Path, backend.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		p.log.Warn("audio pipe failed", zap.String("backend", backend.Name), zap.Error(err))
		p.goSilent()
		return nil
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		p.log.Warn("audio backend failed to start", zap.String("backend", backend.Name), zap.Error(err))
		p.goSilent()
		return nil
	}

	p.backend = backend
	p.cmd = cmd
	p.stdin = stdin
	p.log.Info("audio backend started", zap.String("backend", backend.Name))

	p.wg.Add(1)
	go p.monitorProcess()

	return p.StartWriter(stdin)
}

// StartWriter runs the mixer against w without spawning a backend
func (p *Player) StartWriter(w io.Writer) error {
	if !p.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	p.output = w
	p.stopChan = make(chan struct{})

	p.wg.Add(1)
	go p.loop()
	return nil
}

func (p *Player) goSilent() {
	p.silentMode.Store(true)
	p.running.Store(true)
}

func (p *Player) monitorProcess() {
	defer p.wg.Done()
	if err := p.cmd.Wait(); err != nil && p.running.Load() {
		p.log.Warn("audio backend exited", zap.Error(err))
		p.silentMode.Store(true)
	}
}

// Stop halts the mixer and terminates the backend
func (p *Player) Stop() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	if p.stopChan != nil {
		close(p.stopChan)
	}
	if p.stdin != nil {
		p.stdin.Close()
	}
	if p.cmd != nil && p.cmd.Process != nil {
		p.cmd.Process.Kill()
	}
	p.wg.Wait()
}

// Play queues s; returns false when muted, silent or the queue is full
func (p *Player) Play(s Sound) bool {
	if !p.IsEnabled() {
		return false
	}
	select {
	case p.queue <- s:
		return true
	default:
		p.dropped.Add(1)
		return false
	}
}

// PlayFeedback plays the sound matching an answer
func (p *Player) PlayFeedback(correct bool) bool {
	if correct {
		return p.Play(SoundCorrect)
	}
	return p.Play(SoundIncorrect)
}

// ToggleMute flips mute, returns true if sound is now on
func (p *Player) ToggleMute() bool {
	muted := !p.muted.Load()
	p.muted.Store(muted)
	return !muted
}

func (p *Player) IsMuted() bool   { return p.muted.Load() }
func (p *Player) IsRunning() bool { return p.running.Load() }
func (p *Player) IsSilent() bool  { return p.silentMode.Load() }

// IsEnabled returns true if running, unmuted and attached to an output
func (p *Player) IsEnabled() bool {
	return p.running.Load() && !p.muted.Load() && !p.silentMode.Load()
}

// Stats returns played and dropped counts
func (p *Player) Stats() (played, dropped uint64) {
	return p.played.Load(), p.dropped.Load()
}

func (p *Player) enqueue(s Sound) {
	st, err := CreateSound(s, p.volume)
	if err != nil {
		p.log.Warn("sound synthesis failed", zap.Stringer("sound", s), zap.Error(err))
		return
	}
	p.mixerMu.Lock()
	p.mixer.Add(st)
	p.mixerMu.Unlock()
	p.played.Add(1)
}

// loop pulls one buffer from the mixer per tick and writes it out
func (p *Player) loop() {
	defer p.wg.Done()

	ticker := time.NewTicker(parameter.AudioBufferDuration)
	defer ticker.Stop()

	buf := make([][2]float64, parameter.AudioBufferSamples)
	out := make([]byte, parameter.AudioBufferSamples*parameter.AudioBytesPerFrame)

	for {
		select {
		case <-p.stopChan:
			return

		case s := <-p.queue:
			p.enqueue(s)

		case <-ticker.C:
			for i := range buf {
				buf[i] = [2]float64{}
			}
			p.mixerMu.Lock()
			p.mixer.Stream(buf)
			p.mixerMu.Unlock()
			encodeS16LE(buf, out)

			if _, err := p.output.Write(out); err != nil {
				if p.running.Load() {
					p.log.Warn("audio write failed", zap.Error(errors.Wrap(ErrPipeClosed, err.Error())))
				}
				p.silentMode.Store(true)
				return
			}
		}
	}
}

// encodeS16LE converts stereo float frames to interleaved int16 LE with a
// soft knee above 0.8
func encodeS16LE(in [][2]float64, out []byte) {
	for i, frame := range in {
		for ch, v := range frame {
			if v > 0.8 {
				v = 0.8 + 0.2*(1.0-1.0/(1.0+(v-0.8)*5.0))
			} else if v < -0.8 {
				v = -0.8 - 0.2*(1.0-1.0/(1.0+(-v-0.8)*5.0))
			}
			if v > 1.0 {
				v = 1.0
			} else if v < -1.0 {
				v = -1.0
			}
			binary.LittleEndian.PutUint16(out[i*4+ch*2:], uint16(int16(v*32767)))
		}
	}
}
