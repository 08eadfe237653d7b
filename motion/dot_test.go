package motion

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/motion-coherence/vmath"
)

var testTimings = DotTimings{MaxAlive: 100, Reversal: 50, RandomDirection: 30}

func TestCoherentDotReverses(t *testing.T) {
	d := NewDot(1, r2.Vec{X: 10, Y: 10}, 1, 0.1, ModeCoherentRight, testTimings, vmath.NewFastRand(1))

	if v := d.Velocity(); math.Abs(v.X-0.1) > 1e-12 || math.Abs(v.Y) > 1e-12 {
		t.Fatalf("Expected rightward velocity, got %v", v)
	}

	d.Update(49)
	if d.Mode() != ModeCoherentRight {
		t.Errorf("Expected no reversal before timer expires")
	}
	d.Update(1)
	if d.Mode() != ModeCoherentLeft || d.Heading() != math.Pi {
		t.Errorf("Expected reversal to left, got %s heading %v", d.Mode(), d.Heading())
	}
	if d.AliveTimer() != 50 {
		t.Errorf("Expected alive timer 50, got %v", d.AliveTimer())
	}

	d.UpdatePosition(10)
	if p := d.Position(); math.Abs(p.X-9) > 1e-9 || math.Abs(p.Y-10) > 1e-9 {
		t.Errorf("Expected position (9,10), got %v", p)
	}
}

func TestRandomDotRedirects(t *testing.T) {
	d := NewDot(1, r2.Vec{}, 1, 0.1, ModeRandom, testTimings, vmath.NewFastRand(77))
	first := d.Heading()

	changed := false
	for i := 0; i < 10; i++ {
		d.Update(30)
		if d.Heading() != first {
			changed = true
		}
	}
	if !changed {
		t.Errorf("Expected random dot to pick new headings")
	}
	if d.Mode() != ModeRandom {
		t.Errorf("Expected random dot to stay random")
	}
}

func TestExpireAndRespawn(t *testing.T) {
	d := NewDot(1, r2.Vec{}, 1, 0.1, ModeRandom, testTimings, vmath.NewFastRand(1))
	d.Update(100)
	if !d.Expired() {
		t.Fatalf("Expected dot expired after max alive time")
	}
	d.Respawn(r2.Vec{X: 5, Y: 6})
	if d.Expired() || d.Position() != (r2.Vec{X: 5, Y: 6}) {
		t.Errorf("Expected respawn to move dot and restart timer")
	}
}

func TestCollideWithWall(t *testing.T) {
	t.Run("random reflects", func(t *testing.T) {
		d := NewDot(1, r2.Vec{X: 12, Y: 5}, 1, 0.1, ModeRandom, testTimings, vmath.NewFastRand(1))
		d.heading = 0.3 // moving right and down
		d.CollideWithWall(9, 5)
		if d.Position() != (r2.Vec{X: 9, Y: 5}) {
			t.Errorf("Expected clamped position, got %v", d.Position())
		}
		if d.Velocity().X >= 0 {
			t.Errorf("Expected horizontal bounce, got velocity %v", d.Velocity())
		}
		if d.Velocity().Y <= 0 {
			t.Errorf("Expected vertical component kept, got velocity %v", d.Velocity())
		}
	})

	t.Run("coherent keeps heading", func(t *testing.T) {
		d := NewDot(1, r2.Vec{X: 12, Y: 5}, 1, 0.1, ModeCoherentRight, testTimings, vmath.NewFastRand(1))
		d.CollideWithWall(9, 5)
		if d.Position().X != 9 || d.Heading() != 0 {
			t.Errorf("Expected clamp without reflection, got %v heading %v", d.Position(), d.Heading())
		}
	})
}

func TestCollideWithDot(t *testing.T) {
	rng := vmath.NewFastRand(1)
	a := NewDot(1, r2.Vec{X: 10, Y: 10}, 1, 0, ModeCoherentLeft, testTimings, rng)
	b := NewDot(2, r2.Vec{X: 11, Y: 10}, 1, 0, ModeCoherentLeft, testTimings, rng)

	a.CollideWithDot(a)
	if a.Position() != (r2.Vec{X: 10, Y: 10}) {
		t.Errorf("Expected self collision to be a no-op")
	}

	a.CollideWithDot(b)
	b.CollideWithDot(a)
	pa, pb := a.Position(), b.Position()
	if d := vmath.Distance(pa.X, pa.Y, pb.X, pb.Y); d < 2-0.3 {
		t.Errorf("Expected pair pushed apart towards 2, got %v", d)
	}
	if pa.X >= 10 || pb.X <= 11 {
		t.Errorf("Expected opposite pushes, got %v and %v", pa, pb)
	}

	far := NewDot(3, r2.Vec{X: 50, Y: 50}, 1, 0, ModeRandom, testTimings, rng)
	before := far.Position()
	far.CollideWithDot(a)
	if far.Position() != before {
		t.Errorf("Expected distant dots untouched")
	}
}
