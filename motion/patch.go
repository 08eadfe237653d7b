package motion

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Side identifies one of the two patches
type Side uint8

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideRight {
		return "RIGHT"
	}
	return "LEFT"
}

// Opposite returns the other side
func (s Side) Opposite() Side {
	if s == SideRight {
		return SideLeft
	}
	return SideRight
}

// Patch is a rectangular stimulus region with an outline
type Patch struct {
	Side             Side
	X, Y             float64
	Width, Height    float64
	OutlineThickness float64
	OutlineColor     string
}

// Bounds returns the outer rectangle including the outline
func (p Patch) Bounds() r2.Box {
	return r2.Box{
		Min: r2.Vec{X: p.X, Y: p.Y},
		Max: r2.Vec{X: p.X + p.Width, Y: p.Y + p.Height},
	}
}

// Inner returns the area inside the outline where dots live and are drawn
func (p Patch) Inner() r2.Box {
	t := p.OutlineThickness
	return r2.Box{
		Min: r2.Vec{X: p.X + t, Y: p.Y + t},
		Max: r2.Vec{X: p.X + p.Width - t, Y: p.Y + p.Height - t},
	}
}

// Contains hit-tests a pointer position against the outer rectangle
func (p Patch) Contains(x, y float64) bool {
	return x >= p.X && x <= p.X+p.Width && y >= p.Y && y <= p.Y+p.Height
}
