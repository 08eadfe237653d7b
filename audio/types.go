// Package audio synthesizes feedback tones and streams them as raw PCM to a
// command-line audio backend
package audio

import "errors"

// Sound identifies a feedback sound
type Sound int

const (
	SoundCorrect Sound = iota
	SoundIncorrect
	soundCount
)

func (s Sound) String() string {
	switch s {
	case SoundCorrect:
		return "correct"
	case SoundIncorrect:
		return "incorrect"
	}
	return "unknown"
}

// BackendType identifies the audio backend
type BackendType int

const (
	BackendPulse BackendType = iota
	BackendPipeWire
	BackendALSA
	BackendSoX
)

// BackendConfig describes a CLI audio backend reading s16le stereo on stdin
type BackendConfig struct {
	Type BackendType
	Name string
	Path string
	Args []string
}

// Sentinel errors
var (
	ErrNoAudioBackend = errors.New("no compatible audio backend found")
	ErrPipeClosed     = errors.New("audio pipe closed")
	ErrRunning        = errors.New("audio player already running")
)
