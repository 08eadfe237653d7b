package physics

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// WallHit flags which box edges a clamp touched
type WallHit uint8

const (
	WallNone   WallHit = 0
	WallLeft   WallHit = 1 << 0
	WallRight  WallHit = 1 << 1
	WallTop    WallHit = 1 << 2
	WallBottom WallHit = 1 << 3

	WallHorizontal = WallLeft | WallRight
	WallVertical   = WallTop | WallBottom
)

// ClampToBox keeps a circle of the given radius inside box.
// Returns the clamped centre and which walls were touched (within one radius)
func ClampToBox(p r2.Vec, radius float64, box r2.Box) (r2.Vec, WallHit) {
	hit := WallNone
	minX, maxX := box.Min.X+radius, box.Max.X-radius
	minY, maxY := box.Min.Y+radius, box.Max.Y-radius

	if p.X <= minX {
		p.X = minX
		hit |= WallLeft
	} else if p.X >= maxX {
		p.X = maxX
		hit |= WallRight
	}
	if p.Y <= minY {
		p.Y = minY
		hit |= WallTop
	} else if p.Y >= maxY {
		p.Y = maxY
		hit |= WallBottom
	}
	return p, hit
}

// SeparationOffset returns the displacement to apply to a so that it moves half
// of the overlap away from b. Zero when the circles are at least minDist apart.
// Coincident centres separate along the x axis; towardNegative picks the side
// so that the two calls of one pair push in opposite directions
func SeparationOffset(a, b r2.Vec, minDist float64, towardNegative bool) r2.Vec {
	d := r2.Sub(a, b)
	dist := r2.Norm(d)
	if dist >= minDist {
		return r2.Vec{}
	}

	overlap := (minDist - dist) / 2
	if dist == 0 {
		if towardNegative {
			return r2.Vec{X: -overlap}
		}
		return r2.Vec{X: overlap}
	}
	return r2.Scale(overlap/dist, d)
}

// Overlaps reports whether two circles intersect or touch
func Overlaps(a r2.Vec, ra float64, b r2.Vec, rb float64) bool {
	d := r2.Sub(a, b)
	r := ra + rb
	return r2.Dot(d, d) <= r*r
}
