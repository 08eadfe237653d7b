package motion

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/motion-coherence/config"
	"github.com/lixenwraith/motion-coherence/parameter"
	"github.com/lixenwraith/motion-coherence/vmath"
)

// ErrPatchCapacity means the requested dots cannot be placed with the
// required separation inside a patch
var ErrPatchCapacity = errors.New("patch cannot hold requested dots")

// PlacementStrategy selects how initial and respawn positions are found
type PlacementStrategy uint8

const (
	// PlacementGrid uses a shuffled lattice of non-overlapping points
	PlacementGrid PlacementStrategy = iota
	// PlacementRandom samples uniformly with a bounded number of rejections
	PlacementRandom
)

func (p PlacementStrategy) String() string {
	if p == PlacementRandom {
		return "random"
	}
	return "grid"
}

// ParsePlacement maps a config name to a strategy, defaulting to grid
func ParsePlacement(name string) PlacementStrategy {
	if name == config.PlacementRandom {
		return PlacementRandom
	}
	return PlacementGrid
}

// buildGrid returns lattice points inside box, inset by radius, step apart
func buildGrid(box r2.Box, radius, step float64) []r2.Vec {
	minX, maxX := box.Min.X+radius, box.Max.X-radius
	minY, maxY := box.Min.Y+radius, box.Max.Y-radius
	if step <= 0 || maxX < minX || maxY < minY {
		return nil
	}

	cols := int(math.Floor((maxX-minX)/step)) + 1
	rows := int(math.Floor((maxY-minY)/step)) + 1
	points := make([]r2.Vec, 0, cols*rows)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			points = append(points, r2.Vec{
				X: minX + float64(col)*step,
				Y: minY + float64(row)*step,
			})
		}
	}
	return points
}

// placer hands out collision-free positions for one patch
type placer struct {
	strategy PlacementStrategy
	box      r2.Box
	radius   float64
	minDist  float64
	grid     []r2.Vec
	cursor   int
	rng      *vmath.FastRand
}

func newPlacer(strategy PlacementStrategy, box r2.Box, radius, spacing float64, rng *vmath.FastRand) *placer {
	minDist := spacing + 2*radius
	p := &placer{
		strategy: strategy,
		box:      box,
		radius:   radius,
		minDist:  minDist,
		rng:      rng,
	}
	if strategy == PlacementGrid {
		p.grid = buildGrid(box, radius, minDist*parameter.DotSpawnSeparationMultiplier)
	}
	return p
}

// capacity is the number of grid points, or -1 when unbounded
func (p *placer) capacity() int {
	if p.strategy == PlacementGrid {
		return len(p.grid)
	}
	return -1
}

// shuffle reorders the grid for a new trial
func (p *placer) shuffle() {
	p.rng.Shuffle(len(p.grid), func(i, j int) {
		p.grid[i], p.grid[j] = p.grid[j], p.grid[i]
	})
	p.cursor = 0
}

// initial returns n separated positions for a fresh population
func (p *placer) initial(n int) ([]r2.Vec, error) {
	if p.strategy == PlacementGrid {
		if n > len(p.grid) {
			return nil, errors.Wrapf(ErrPatchCapacity, "grid holds %d points, need %d", len(p.grid), n)
		}
		p.shuffle()
		out := make([]r2.Vec, n)
		copy(out, p.grid[:n])
		p.cursor = n % len(p.grid)
		return out, nil
	}

	out := make([]r2.Vec, 0, n)
	for i := 0; i < n; i++ {
		pos, ok := p.sample(func(c r2.Vec) bool { return p.clearOf(c, out) })
		if !ok {
			return nil, errors.Wrapf(ErrPatchCapacity, "no free spot for dot %d of %d after %d attempts",
				i+1, n, parameter.MaxPlacementAttempts)
		}
		out = append(out, pos)
	}
	return out, nil
}

// free finds a spot separated from every dot except self
func (p *placer) free(dots []*Dot, self *Dot) (r2.Vec, bool) {
	accept := func(c r2.Vec) bool {
		for _, d := range dots {
			if d == self {
				continue
			}
			if vmath.DistanceSq(c.X, c.Y, d.pos.X, d.pos.Y) < p.minDist*p.minDist {
				return false
			}
		}
		return true
	}

	if p.strategy == PlacementGrid {
		n := len(p.grid)
		for i := 0; i < n; i++ {
			c := p.grid[p.cursor]
			p.cursor = (p.cursor + 1) % n
			if accept(c) {
				return c, true
			}
		}
		return r2.Vec{}, false
	}
	return p.sample(accept)
}

func (p *placer) sample(accept func(r2.Vec) bool) (r2.Vec, bool) {
	minX, maxX := p.box.Min.X+p.radius, p.box.Max.X-p.radius
	minY, maxY := p.box.Min.Y+p.radius, p.box.Max.Y-p.radius
	if maxX < minX || maxY < minY {
		return r2.Vec{}, false
	}
	for attempt := 0; attempt < parameter.MaxPlacementAttempts; attempt++ {
		c := r2.Vec{X: p.rng.Range(minX, maxX), Y: p.rng.Range(minY, maxY)}
		if accept(c) {
			return c, true
		}
	}
	return r2.Vec{}, false
}

func (p *placer) clearOf(c r2.Vec, placed []r2.Vec) bool {
	for _, q := range placed {
		if vmath.DistanceSq(c.X, c.Y, q.X, q.Y) < p.minDist*p.minDist {
			return false
		}
	}
	return true
}
