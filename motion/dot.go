package motion

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/motion-coherence/physics"
	"github.com/lixenwraith/motion-coherence/vmath"
)

// MotionMode is how a dot steers
type MotionMode uint8

const (
	ModeRandom MotionMode = iota
	ModeCoherentLeft
	ModeCoherentRight
)

func (m MotionMode) String() string {
	switch m {
	case ModeCoherentLeft:
		return "COHERENT_LEFT"
	case ModeCoherentRight:
		return "COHERENT_RIGHT"
	default:
		return "RANDOM"
	}
}

// DotTimings holds the per-dot timer lengths in milliseconds
type DotTimings struct {
	MaxAlive        float64
	Reversal        float64
	RandomDirection float64
}

// Dot is one moving disk. It advances its own timers and position; collisions
// are resolved by the owning World after spatial queries
type Dot struct {
	id      int
	pos     r2.Vec
	radius  float64
	speed   float64
	heading float64
	mode    MotionMode

	timings        DotTimings
	aliveTimer     float64
	reversalTimer  float64
	randomDirTimer float64

	rng *vmath.FastRand
}

// NewDot creates a dot at pos. Coherent modes take the horizontal heading of
// their direction; random dots draw a heading from rng
func NewDot(id int, pos r2.Vec, radius, speed float64, mode MotionMode, timings DotTimings, rng *vmath.FastRand) *Dot {
	d := &Dot{
		id:             id,
		pos:            pos,
		radius:         radius,
		speed:          speed,
		mode:           mode,
		timings:        timings,
		aliveTimer:     timings.MaxAlive,
		reversalTimer:  timings.Reversal,
		randomDirTimer: timings.RandomDirection,
		rng:            rng,
	}

	switch mode {
	case ModeCoherentLeft:
		d.heading = math.Pi
	case ModeCoherentRight:
		d.heading = 0
	default:
		d.heading = rng.Angle()
	}
	return d
}

func (d *Dot) ID() int             { return d.id }
func (d *Dot) Position() r2.Vec    { return d.pos }
func (d *Dot) Radius() float64     { return d.radius }
func (d *Dot) Heading() float64    { return d.heading }
func (d *Dot) Mode() MotionMode    { return d.mode }
func (d *Dot) AliveTimer() float64 { return d.aliveTimer }
func (d *Dot) MaxAliveTime() float64 {
	return d.timings.MaxAlive
}

// IsRandom reports whether the dot steers randomly
func (d *Dot) IsRandom() bool {
	return d.mode == ModeRandom
}

// IsCoherent reports whether the dot carries the motion signal
func (d *Dot) IsCoherent() bool {
	return d.mode != ModeRandom
}

// Velocity returns the current velocity in px/ms
func (d *Dot) Velocity() r2.Vec {
	return physics.Velocity(d.heading, d.speed)
}

// Expired reports whether the alive timer has run out
func (d *Dot) Expired() bool {
	return d.aliveTimer <= 0
}

// Update advances timers. Coherent dots flip horizontal heading when the
// reversal timer runs out; random dots pick a fresh heading when theirs does
func (d *Dot) Update(deltaMs float64) {
	d.aliveTimer -= deltaMs

	if d.IsCoherent() {
		d.reversalTimer -= deltaMs
		if d.reversalTimer <= 0 {
			d.reversalTimer = d.timings.Reversal
			d.flipHorizontal()
		}
		return
	}

	d.randomDirTimer -= deltaMs
	if d.randomDirTimer <= 0 {
		d.randomDirTimer = d.timings.RandomDirection
		d.heading = d.rng.Angle()
	}
}

// UpdatePosition integrates position over deltaMs
func (d *Dot) UpdatePosition(deltaMs float64) {
	d.pos = physics.Integrate(d.pos, d.Velocity(), deltaMs)
}

// CollideWithWall moves the dot to the clamped coordinate. Random dots also
// bounce off the wall they were pushed away from; coherent dots keep heading
func (d *Dot) CollideWithWall(x, y float64) {
	dx := x - d.pos.X
	dy := y - d.pos.Y
	d.pos = r2.Vec{X: x, Y: y}

	if !d.IsRandom() {
		return
	}

	v := d.Velocity()
	if (dx > 0 && v.X < 0) || (dx < 0 && v.X > 0) {
		d.heading = physics.ReflectHeadingX(d.heading)
	}
	if (dy > 0 && v.Y < 0) || (dy < 0 && v.Y > 0) {
		d.heading = physics.ReflectHeadingY(d.heading)
	}
}

// CollideWithDot pushes this dot half of the overlap away from other.
// No-op for self or when the disks do not overlap. The second half is applied
// when the pair is visited from the other side
func (d *Dot) CollideWithDot(other *Dot) {
	if other == nil || other == d {
		return
	}
	offset := physics.SeparationOffset(d.pos, other.pos, d.radius+other.radius, d.id < other.id)
	d.pos = r2.Add(d.pos, offset)
}

// Respawn relocates the dot and restarts its alive timer
func (d *Dot) Respawn(pos r2.Vec) {
	d.pos = pos
	d.aliveTimer = d.timings.MaxAlive
}

func (d *Dot) flipHorizontal() {
	switch d.mode {
	case ModeCoherentLeft:
		d.mode = ModeCoherentRight
		d.heading = 0
	case ModeCoherentRight:
		d.mode = ModeCoherentLeft
		d.heading = math.Pi
	}
}
