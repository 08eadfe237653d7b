package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Velocity returns the velocity vector for a heading (radians) and speed (px/ms)
func Velocity(heading, speed float64) r2.Vec {
	return r2.Vec{X: math.Cos(heading) * speed, Y: math.Sin(heading) * speed}
}

// Integrate performs explicit Euler integration: p = p + v*dt
func Integrate(p, v r2.Vec, dt float64) r2.Vec {
	return r2.Add(p, r2.Scale(dt, v))
}

// ReflectHeadingX mirrors a heading across the vertical axis (horizontal flip)
func ReflectHeadingX(heading float64) float64 {
	return normalizeAngle(math.Pi - heading)
}

// ReflectHeadingY mirrors a heading across the horizontal axis (vertical flip)
func ReflectHeadingY(heading float64) float64 {
	return normalizeAngle(-heading)
}

func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
