package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/pkg/errors"

	"github.com/lixenwraith/motion-coherence/parameter"
)

// SampleRate of every synthesized stream
const SampleRate = beep.SampleRate(parameter.AudioSampleRate)

// envelope applies a linear attack/release to a finite stream
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func newEnvelope(s beep.Streamer, duration, attack, release time.Duration) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   SampleRate.N(attack),
		release:  SampleRate.N(release),
		total:    SampleRate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	releaseStart := e.total - e.release

	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, false
		}

		vol := 1.0
		if e.attack > 0 && e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if e.release > 0 && e.position >= releaseStart {
			vol = math.Min(vol, float64(e.total-e.position)/float64(e.release))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// sawtooth is a bare band-unlimited saw; generators only ships sine and friends
type sawtooth struct {
	freq  float64
	phase float64
}

func (s *sawtooth) Stream(samples [][2]float64) (int, bool) {
	step := s.freq / float64(SampleRate)
	for i := range samples {
		v := 2.0 * (s.phase - 0.5)
		samples[i][0], samples[i][1] = v, v
		s.phase += step
		s.phase -= math.Floor(s.phase)
	}
	return len(samples), true
}

func (s *sawtooth) Err() error { return nil }

// newVolume scales linearly; zero volume is silent since log2(0) is -Inf
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

func tone(freq float64, duration, attack, release time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(SampleRate, freq)
	if err != nil {
		return nil, err
	}
	return newEnvelope(beep.Take(SampleRate.N(duration), sine), duration, attack, release), nil
}

// CreateCorrectSound is a short rising two-note chime
func CreateCorrectSound(volume float64) (beep.Streamer, error) {
	n1, err := tone(parameter.CorrectNote1Freq, parameter.CorrectNote1Duration,
		parameter.CorrectSoundAttack, parameter.CorrectNote1Duration/2)
	if err != nil {
		return nil, err
	}
	n2, err := tone(parameter.CorrectNote2Freq, parameter.CorrectNote2Duration,
		parameter.CorrectSoundAttack, parameter.CorrectSoundRelease)
	if err != nil {
		return nil, err
	}
	return newVolume(beep.Seq(n1, n2), volume), nil
}

// CreateIncorrectSound is a low buzz
func CreateIncorrectSound(volume float64) (beep.Streamer, error) {
	d := parameter.IncorrectSoundDuration
	saw := beep.Take(SampleRate.N(d), &sawtooth{freq: parameter.IncorrectSoundFreq})
	shaped := newEnvelope(saw, d, parameter.IncorrectSoundAttack, parameter.IncorrectSoundRelease)
	return newVolume(shaped, volume*0.5), nil
}

// CreateSound builds a fresh streamer for s; streamers are single-use
func CreateSound(s Sound, volume float64) (beep.Streamer, error) {
	switch s {
	case SoundCorrect:
		return CreateCorrectSound(volume)
	case SoundIncorrect:
		return CreateIncorrectSound(volume)
	}
	return nil, errors.Errorf("unknown sound %d", s)
}
