// Package psychophysics converts between visual angle and screen pixels and
// provides the decibel and averaging helpers used by the adaptive staircase.
//
// All functions are pure. res and dim arguments must describe the same screen
// axis: either both widths or both heights.
package psychophysics

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// ErrDomain is matched by every DomainError
var ErrDomain = errors.New("psychophysics: value outside function domain")

// DomainError reports a non-positive input to a logarithmic function
type DomainError struct {
	Func  string
	Value float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("psychophysics: %s: value %g outside domain (must be > 0)", e.Func, e.Value)
}

// Is makes errors.Is(err, ErrDomain) succeed
func (e *DomainError) Is(target error) bool {
	return target == ErrDomain
}

// VisualAngleToPixels converts a visual angle in degrees to pixels at the given
// viewing distance (mm) for a screen axis of resPx pixels spanning dimMM millimeters
func VisualAngleToPixels(degrees, viewDistanceMM, resPx, dimMM float64) float64 {
	return math.Tan(degrees*math.Pi/180/2) * 2 * viewDistanceMM * (resPx / dimMM)
}

// PixelsToVisualAngle is the inverse of VisualAngleToPixels
func PixelsToVisualAngle(pixels, viewDistanceMM, resPx, dimMM float64) float64 {
	return 2 * math.Atan(pixels/(2*viewDistanceMM*(resPx/dimMM))) * 180 / math.Pi
}

// DecibelToFactor converts an amplitude step in dB to a multiplicative factor
func DecibelToFactor(db float64) float64 {
	return math.Pow(10, db/20)
}

// FactorToDecibel converts a multiplicative amplitude factor to dB.
// Non-positive factors yield -Inf or NaN, matching math.Log10
func FactorToDecibel(factor float64) float64 {
	return 20 * math.Log10(factor)
}

// GeometricMean returns exp(mean(ln v)) over the last lastN values.
//
// Boundary behavior:
//   - empty values or lastN < 1: NaN, nil error
//   - lastN greater than len(values): NaN, nil error (not enough reversals)
//   - any non-positive value inside the window: NaN and a *DomainError
func GeometricMean(values []float64, lastN int) (float64, error) {
	if len(values) == 0 || lastN < 1 || lastN > len(values) {
		return math.NaN(), nil
	}

	window := values[len(values)-lastN:]
	for _, v := range window {
		if !(v > 0) {
			return math.NaN(), &DomainError{Func: "GeometricMean", Value: v}
		}
	}

	return stat.GeometricMean(window, nil), nil
}
