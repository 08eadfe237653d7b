package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "motion.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	d := Default()
	if s.NumberOfDots != d.NumberOfDots {
		t.Errorf("Expected %d dots, got %d", d.NumberOfDots, s.NumberOfDots)
	}
	if s.DotVelocity != d.DotVelocity {
		t.Errorf("Expected velocity %v, got %v", d.DotVelocity, s.DotVelocity)
	}
	if s.Placement != PlacementGrid {
		t.Errorf("Expected grid placement, got %q", s.Placement)
	}

	// 1280px at 96 DPI, ratio 1
	wantMM := 1280.0 / 96.0 * 25.4
	if math.Abs(s.WindowWidthMM-wantMM) > 1e-9 {
		t.Errorf("Expected derived width %v mm, got %v", wantMM, s.WindowWidthMM)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	path := writeConfig(t, `
number_of_dots = 20
coherence_percent = 25.5
placement = "random"
window_width_mm = 400
`)
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.NumberOfDots != 20 {
		t.Errorf("Expected 20 dots, got %d", s.NumberOfDots)
	}
	if s.CoherencePercent != 25.5 {
		t.Errorf("Expected coherence 25.5, got %v", s.CoherencePercent)
	}
	if s.Placement != PlacementRandom {
		t.Errorf("Expected random placement, got %q", s.Placement)
	}
	if s.WindowWidthMM != 400 {
		t.Errorf("Expected explicit width 400 mm kept, got %v", s.WindowWidthMM)
	}
	if s.DotRadius != Default().DotRadius {
		t.Errorf("Expected default radius, got %v", s.DotRadius)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("MOTION_MAX_ATTEMPTS", "7")
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.MaxAttempts != 7 {
		t.Errorf("Expected max attempts 7 from env, got %d", s.MaxAttempts)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil {
		t.Fatal("Expected error for missing explicit config file")
	}
}

func TestLoadInvalid(t *testing.T) {
	path := writeConfig(t, "coherence_percent = 150\n")
	_, err := Load(path)
	if !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("Expected ErrInvalidSettings, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
		field  string
	}{
		{"zero radius", func(s *Settings) { s.DotRadius = 0 }, "dot_radius"},
		{"negative distance", func(s *Settings) { s.ViewingDistanceMM = -1 }, "viewing_distance_mm"},
		{"one dot", func(s *Settings) { s.NumberOfDots = 1 }, "number_of_dots"},
		{"coherence below", func(s *Settings) { s.CoherencePercent = -0.1 }, "coherence_percent"},
		{"kill zero", func(s *Settings) { s.KillPercent = 0 }, "kill_percent"},
		{"placement", func(s *Settings) { s.Placement = "spiral" }, "placement"},
		{"mean window", func(s *Settings) { s.ReversalsForMean = 0 }, "reversals_for_mean"},
		{"negative gap", func(s *Settings) { s.PatchGapDeg = -2 }, "patch_gap_deg"},
		{"nan velocity", func(s *Settings) { s.DotVelocity = math.NaN() }, "dot_velocity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default().WithPhysicalSize()
			tt.mutate(&s)
			err := s.Validate()
			if !errors.Is(err, ErrInvalidSettings) {
				t.Fatalf("Expected ErrInvalidSettings, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("Expected error to name %s, got %q", tt.field, err)
			}
		})
	}

	if err := Default().WithPhysicalSize().Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

func TestDotsPerSide(t *testing.T) {
	s := Default()
	s.NumberOfDots = 21
	if got := s.DotsPerSide(); got != 10 {
		t.Errorf("Expected 10 per side, got %d", got)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := Default().WithPhysicalSize()
	s.Seed = 42

	out, err := s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if !strings.Contains(out, "number_of_dots = 300") {
		t.Errorf("Expected snapshot to carry number_of_dots, got:\n%s", out)
	}

	var back Settings
	if _, err := toml.Decode(out, &back); err != nil {
		t.Fatalf("Decode snapshot failed: %v", err)
	}
	if back != s {
		t.Errorf("Expected snapshot to decode to the same settings")
	}
}
