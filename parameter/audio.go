package parameter

import "time"

// Audio output format
const (
	AudioSampleRate    = 44100
	AudioChannels      = 2
	AudioBitDepth      = 16
	AudioBytesPerFrame = AudioChannels * (AudioBitDepth / 8) // 4 bytes
)

// Audio mixer timing
const (
	// AudioBufferDuration is the mixer tick and pipe write granularity
	AudioBufferDuration = 50 * time.Millisecond

	// AudioBufferSamples is frames per mixer tick at 44.1kHz
	AudioBufferSamples = (AudioSampleRate * 50) / 1000 // 2205

	// AudioQueueSize bounds pending play requests
	AudioQueueSize = 16

	// AudioMasterVolume scales every feedback sound
	AudioMasterVolume = 0.6
)

// Correct answer chime: two rising sine notes
const (
	CorrectNote1Freq     = 880.0
	CorrectNote2Freq     = 1318.51
	CorrectNote1Duration = 90 * time.Millisecond
	CorrectNote2Duration = 220 * time.Millisecond
	CorrectSoundAttack   = 5 * time.Millisecond
	CorrectSoundRelease  = 150 * time.Millisecond
)

// Incorrect answer buzz
const (
	IncorrectSoundFreq     = 140.0
	IncorrectSoundDuration = 250 * time.Millisecond
	IncorrectSoundAttack   = 5 * time.Millisecond
	IncorrectSoundRelease  = 60 * time.Millisecond
)
