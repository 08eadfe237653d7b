package audio

import (
	"os/exec"
	"strconv"

	"github.com/lixenwraith/motion-coherence/parameter"
)

// lookPath is swapped in tests
var lookPath = exec.LookPath

// DetectBackend searches PATH for a raw PCM player
// Priority: pacat > pw-cat > aplay > play (sox)
func DetectBackend() (*BackendConfig, error) {
	rate := strconv.Itoa(parameter.AudioSampleRate)
	channels := strconv.Itoa(parameter.AudioChannels)

	if path, err := lookPath("pacat"); err == nil {
		return &BackendConfig{
			Type: BackendPulse,
			Name: "pacat",
			Path: path,
			Args: []string{
				"--raw",
				"--format=s16le",
				"--rate=" + rate,
				"--channels=" + channels,
				"--latency-msec=50",
				"--playback",
			},
		}, nil
	}

	if path, err := lookPath("pw-cat"); err == nil {
		return &BackendConfig{
			Type: BackendPipeWire,
			Name: "pw-cat",
			Path: path,
			Args: []string{
				"--playback",
				"--format=s16",
				"--rate=" + rate,
				"--channels=" + channels,
				"--latency=50ms",
				"-",
			},
		}, nil
	}

	if path, err := lookPath("aplay"); err == nil {
		return &BackendConfig{
			Type: BackendALSA,
			Name: "aplay",
			Path: path,
			Args: []string{"-t", "raw", "-f", "S16_LE", "-r", rate, "-c", channels, "-q"},
		}, nil
	}

	if path, err := lookPath("play"); err == nil {
		return &BackendConfig{
			Type: BackendSoX,
			Name: "sox",
			Path: path,
			Args: []string{"-t", "raw", "-e", "signed", "-b", "16", "-c", channels, "-r", rate, "-", "-d", "-q"},
		}, nil
	}

	return nil, ErrNoAudioBackend
}
