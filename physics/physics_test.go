package physics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestVelocityAndIntegrate(t *testing.T) {
	v := Velocity(0, 0.05)
	if math.Abs(v.X-0.05) > 1e-12 || math.Abs(v.Y) > 1e-12 {
		t.Fatalf("Expected (0.05, 0), got %v", v)
	}
	p := Integrate(r2.Vec{X: 10, Y: 10}, v, 100)
	if math.Abs(p.X-15) > 1e-9 || p.Y != 10 {
		t.Errorf("Expected (15, 10), got %v", p)
	}
}

func TestReflectHeading(t *testing.T) {
	if h := ReflectHeadingX(0); math.Abs(h-math.Pi) > 1e-12 {
		t.Errorf("Expected right heading to flip to π, got %f", h)
	}
	if h := ReflectHeadingX(math.Pi); math.Abs(h) > 1e-12 && math.Abs(h-2*math.Pi) > 1e-12 {
		t.Errorf("Expected left heading to flip to 0, got %f", h)
	}
	if h := ReflectHeadingY(math.Pi / 2); math.Abs(h-3*math.Pi/2) > 1e-12 {
		t.Errorf("Expected down heading to flip up, got %f", h)
	}
}

func TestClampToBox(t *testing.T) {
	box := r2.Box{Min: r2.Vec{X: 0, Y: 0}, Max: r2.Vec{X: 100, Y: 50}}

	tests := []struct {
		name string
		in   r2.Vec
		want r2.Vec
		hit  WallHit
	}{
		{"inside", r2.Vec{X: 50, Y: 25}, r2.Vec{X: 50, Y: 25}, WallNone},
		{"left", r2.Vec{X: -3, Y: 25}, r2.Vec{X: 2, Y: 25}, WallLeft},
		{"right", r2.Vec{X: 99, Y: 25}, r2.Vec{X: 98, Y: 25}, WallRight},
		{"top", r2.Vec{X: 50, Y: 1}, r2.Vec{X: 50, Y: 2}, WallTop},
		{"bottom corner", r2.Vec{X: 120, Y: 80}, r2.Vec{X: 98, Y: 48}, WallRight | WallBottom},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, hit := ClampToBox(tc.in, 2, box)
			if got != tc.want {
				t.Errorf("Expected %v, got %v", tc.want, got)
			}
			if hit != tc.hit {
				t.Errorf("Expected hit %b, got %b", tc.hit, hit)
			}
		})
	}
}

func TestSeparationOffset(t *testing.T) {
	a := r2.Vec{X: 0, Y: 0}
	b := r2.Vec{X: 2, Y: 0}

	off := SeparationOffset(a, b, 4, false)
	if math.Abs(off.X+1) > 1e-12 || off.Y != 0 {
		t.Errorf("Expected (-1, 0), got %v", off)
	}

	back := SeparationOffset(b, a, 4, true)
	if math.Abs(back.X-1) > 1e-12 {
		t.Errorf("Expected (1, 0) for the partner, got %v", back)
	}

	far := SeparationOffset(a, r2.Vec{X: 10}, 4, false)
	if far != (r2.Vec{}) {
		t.Errorf("Expected no offset for distant circles, got %v", far)
	}
}

func TestSeparationOffsetCoincident(t *testing.T) {
	p := r2.Vec{X: 5, Y: 5}
	neg := SeparationOffset(p, p, 2, true)
	pos := SeparationOffset(p, p, 2, false)
	if neg.X != -1 || pos.X != 1 {
		t.Errorf("Expected opposite unit pushes, got %v and %v", neg, pos)
	}
}

func TestOverlaps(t *testing.T) {
	if !Overlaps(r2.Vec{}, 1, r2.Vec{X: 2}, 1) {
		t.Error("Expected touching circles to overlap")
	}
	if Overlaps(r2.Vec{}, 1, r2.Vec{X: 2.01}, 1) {
		t.Error("Expected separated circles not to overlap")
	}
}
