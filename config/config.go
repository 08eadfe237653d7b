// Package config loads the immutable test settings once at startup
package config

import (
	"bytes"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/lixenwraith/motion-coherence/parameter"
)

// ErrInvalidSettings is returned by Validate for unusable values
var ErrInvalidSettings = errors.New("invalid settings")

// Placement strategy names
const (
	PlacementGrid   = "grid"
	PlacementRandom = "random"
)

// EnvPrefix is the environment override prefix, e.g. MOTION_DOT_RADIUS
const EnvPrefix = "MOTION"

// Settings holds every input the simulation and staircase read at construction.
// Values are copied into components; nothing reads them globally
type Settings struct {
	// Screen
	ViewingDistanceMM float64 `mapstructure:"viewing_distance_mm" toml:"viewing_distance_mm"`
	WindowWidthPx     float64 `mapstructure:"window_width_px" toml:"window_width_px"`
	WindowHeightPx    float64 `mapstructure:"window_height_px" toml:"window_height_px"`
	WindowWidthMM     float64 `mapstructure:"window_width_mm" toml:"window_width_mm"`
	WindowHeightMM    float64 `mapstructure:"window_height_mm" toml:"window_height_mm"`
	DevicePixelRatio  float64 `mapstructure:"device_pixel_ratio" toml:"device_pixel_ratio"`

	// Patch, degrees of visual angle
	PatchWidthDeg  float64 `mapstructure:"patch_width_deg" toml:"patch_width_deg"`
	PatchHeightDeg float64 `mapstructure:"patch_height_deg" toml:"patch_height_deg"`
	PatchGapDeg    float64 `mapstructure:"patch_gap_deg" toml:"patch_gap_deg"`

	// Dots
	NumberOfDots          int     `mapstructure:"number_of_dots" toml:"number_of_dots"`
	DotRadius             float64 `mapstructure:"dot_radius" toml:"dot_radius"`
	DotSpacing            float64 `mapstructure:"dot_spacing" toml:"dot_spacing"`
	DotVelocity           float64 `mapstructure:"dot_velocity" toml:"dot_velocity"`
	CoherencePercent      float64 `mapstructure:"coherence_percent" toml:"coherence_percent"`
	KillPercent           float64 `mapstructure:"kill_percent" toml:"kill_percent"`
	MaxAnimationTimeMs    float64 `mapstructure:"max_animation_time_ms" toml:"max_animation_time_ms"`
	DotMaxAliveTimeMs     float64 `mapstructure:"dot_max_alive_time_ms" toml:"dot_max_alive_time_ms"`
	ReversalTimeMs        float64 `mapstructure:"reversal_time_ms" toml:"reversal_time_ms"`
	RandomDirectionTimeMs float64 `mapstructure:"random_direction_time_ms" toml:"random_direction_time_ms"`
	Placement             string  `mapstructure:"placement" toml:"placement"`

	// Staircase
	CorrectStepDB        float64 `mapstructure:"correct_step_db" toml:"correct_step_db"`
	WrongStepDB          float64 `mapstructure:"wrong_step_db" toml:"wrong_step_db"`
	MaxAttempts          int     `mapstructure:"max_attempts" toml:"max_attempts"`
	ReversalPointsTarget int     `mapstructure:"reversal_points_target" toml:"reversal_points_target"`
	ReversalsForMean     int     `mapstructure:"reversals_for_mean" toml:"reversals_for_mean"`

	// Tutorial and feedback
	TrialMaxSteps  int     `mapstructure:"trial_max_steps" toml:"trial_max_steps"`
	FeedbackTimeMs float64 `mapstructure:"feedback_time_ms" toml:"feedback_time_ms"`

	// Seed for the dot RNG; 0 picks one from the clock
	Seed uint64 `mapstructure:"seed" toml:"seed"`
}

// Default returns the stock settings
func Default() Settings {
	return Settings{
		ViewingDistanceMM: 300,
		WindowWidthPx:     1280,
		WindowHeightPx:    800,
		DevicePixelRatio:  1,

		PatchWidthDeg:  10,
		PatchHeightDeg: 14,
		PatchGapDeg:    5,

		NumberOfDots:          300,
		DotRadius:             1,
		DotSpacing:            1,
		DotVelocity:           0.05,
		CoherencePercent:      50,
		KillPercent:           10,
		MaxAnimationTimeMs:    5000,
		DotMaxAliveTimeMs:     85,
		ReversalTimeMs:        572,
		RandomDirectionTimeMs: 572,
		Placement:             PlacementGrid,

		CorrectStepDB:        1,
		WrongStepDB:          3,
		MaxAttempts:          50,
		ReversalPointsTarget: 10,
		ReversalsForMean:     6,

		TrialMaxSteps:  5,
		FeedbackTimeMs: 1000,
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("viewing_distance_mm", d.ViewingDistanceMM)
	v.SetDefault("window_width_px", d.WindowWidthPx)
	v.SetDefault("window_height_px", d.WindowHeightPx)
	v.SetDefault("window_width_mm", d.WindowWidthMM)
	v.SetDefault("window_height_mm", d.WindowHeightMM)
	v.SetDefault("device_pixel_ratio", d.DevicePixelRatio)

	v.SetDefault("patch_width_deg", d.PatchWidthDeg)
	v.SetDefault("patch_height_deg", d.PatchHeightDeg)
	v.SetDefault("patch_gap_deg", d.PatchGapDeg)

	v.SetDefault("number_of_dots", d.NumberOfDots)
	v.SetDefault("dot_radius", d.DotRadius)
	v.SetDefault("dot_spacing", d.DotSpacing)
	v.SetDefault("dot_velocity", d.DotVelocity)
	v.SetDefault("coherence_percent", d.CoherencePercent)
	v.SetDefault("kill_percent", d.KillPercent)
	v.SetDefault("max_animation_time_ms", d.MaxAnimationTimeMs)
	v.SetDefault("dot_max_alive_time_ms", d.DotMaxAliveTimeMs)
	v.SetDefault("reversal_time_ms", d.ReversalTimeMs)
	v.SetDefault("random_direction_time_ms", d.RandomDirectionTimeMs)
	v.SetDefault("placement", d.Placement)

	v.SetDefault("correct_step_db", d.CorrectStepDB)
	v.SetDefault("wrong_step_db", d.WrongStepDB)
	v.SetDefault("max_attempts", d.MaxAttempts)
	v.SetDefault("reversal_points_target", d.ReversalPointsTarget)
	v.SetDefault("reversals_for_mean", d.ReversalsForMean)

	v.SetDefault("trial_max_steps", d.TrialMaxSteps)
	v.SetDefault("feedback_time_ms", d.FeedbackTimeMs)
	v.SetDefault("seed", d.Seed)
}

// Load reads settings from defaults, an optional TOML file and MOTION_*
// environment overrides, derives the physical window size, then validates.
// An empty path skips the file
func Load(path string) (Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, errors.Wrapf(err, "read config %s", path)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, errors.Wrap(err, "decode config")
	}

	s = s.WithPhysicalSize()
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// WithPhysicalSize fills a zero window size in millimeters from the pixel
// size, device pixel ratio and the reference DPI
func (s Settings) WithPhysicalSize() Settings {
	dpr := s.DevicePixelRatio
	if dpr <= 0 {
		dpr = 1
	}
	if s.WindowWidthMM <= 0 {
		s.WindowWidthMM = s.WindowWidthPx / (dpr * parameter.DefaultDPI) * parameter.MMPerInch
	}
	if s.WindowHeightMM <= 0 {
		s.WindowHeightMM = s.WindowHeightPx / (dpr * parameter.DefaultDPI) * parameter.MMPerInch
	}
	return s
}

// Validate rejects values the simulation cannot run with
func (s Settings) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"viewing_distance_mm", s.ViewingDistanceMM},
		{"window_width_px", s.WindowWidthPx},
		{"window_height_px", s.WindowHeightPx},
		{"window_width_mm", s.WindowWidthMM},
		{"window_height_mm", s.WindowHeightMM},
		{"patch_width_deg", s.PatchWidthDeg},
		{"patch_height_deg", s.PatchHeightDeg},
		{"dot_radius", s.DotRadius},
		{"dot_velocity", s.DotVelocity},
		{"max_animation_time_ms", s.MaxAnimationTimeMs},
		{"dot_max_alive_time_ms", s.DotMaxAliveTimeMs},
		{"reversal_time_ms", s.ReversalTimeMs},
		{"random_direction_time_ms", s.RandomDirectionTimeMs},
	}
	for _, p := range positive {
		if !(p.value > 0) {
			return errors.Wrapf(ErrInvalidSettings, "%s must be positive, got %v", p.name, p.value)
		}
	}

	if s.PatchGapDeg < 0 {
		return errors.Wrapf(ErrInvalidSettings, "patch_gap_deg must not be negative, got %v", s.PatchGapDeg)
	}
	if s.DotSpacing < 0 {
		return errors.Wrapf(ErrInvalidSettings, "dot_spacing must not be negative, got %v", s.DotSpacing)
	}
	if s.NumberOfDots < 2 {
		return errors.Wrapf(ErrInvalidSettings, "number_of_dots must be at least 2, got %d", s.NumberOfDots)
	}
	if s.CoherencePercent < 0 || s.CoherencePercent > parameter.CoherenceCeiling {
		return errors.Wrapf(ErrInvalidSettings, "coherence_percent must be within [0,100], got %v", s.CoherencePercent)
	}
	if s.KillPercent <= 0 || s.KillPercent > 100 {
		return errors.Wrapf(ErrInvalidSettings, "kill_percent must be within (0,100], got %v", s.KillPercent)
	}
	if s.Placement != PlacementGrid && s.Placement != PlacementRandom {
		return errors.Wrapf(ErrInvalidSettings, "placement must be %q or %q, got %q", PlacementGrid, PlacementRandom, s.Placement)
	}
	if s.MaxAttempts < 1 {
		return errors.Wrapf(ErrInvalidSettings, "max_attempts must be at least 1, got %d", s.MaxAttempts)
	}
	if s.ReversalPointsTarget < 1 {
		return errors.Wrapf(ErrInvalidSettings, "reversal_points_target must be at least 1, got %d", s.ReversalPointsTarget)
	}
	if s.ReversalsForMean < 1 {
		return errors.Wrapf(ErrInvalidSettings, "reversals_for_mean must be at least 1, got %d", s.ReversalsForMean)
	}
	if s.TrialMaxSteps < 1 {
		return errors.Wrapf(ErrInvalidSettings, "trial_max_steps must be at least 1, got %d", s.TrialMaxSteps)
	}
	if s.FeedbackTimeMs < 0 {
		return errors.Wrapf(ErrInvalidSettings, "feedback_time_ms must not be negative, got %v", s.FeedbackTimeMs)
	}
	return nil
}

// DotsPerSide is the population of each patch
func (s Settings) DotsPerSide() int {
	return s.NumberOfDots / 2
}

// Snapshot encodes the effective settings as TOML for the results record
func (s Settings) Snapshot() (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return "", errors.Wrap(err, "encode settings")
	}
	return buf.String(), nil
}
