// Package quadtree partitions a rectangle recursively to narrow collision
// candidate sets for circular bodies.
//
// Retrieve returns candidates only; callers confirm real contacts with a
// distance check. A body straddling a quadrant split stays in the parent node
// so every quadrant beneath it sees it, and a straddling query descends into
// every child it overlaps, so no true contact between the indexed positions
// is ever missed. Bodies moved after insertion are only found where they were.
package quadtree

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Body is anything with a centre and a radius
type Body interface {
	Position() r2.Vec
	Radius() float64
}

// Quadrant indices into QuadTree.nodes
const (
	quadNE = iota
	quadNW
	quadSW
	quadSE
	noQuadrant = -1
)

// QuadTree is one node of the tree; the root is level 0
type QuadTree struct {
	level      int
	maxObjects int
	maxLevels  int
	bounds     r2.Box
	objects    []Body
	nodes      [4]*QuadTree
	split      bool
}

// New creates a root node covering bounds
func New(bounds r2.Box, maxObjects, maxLevels int) *QuadTree {
	return newNode(0, bounds, maxObjects, maxLevels)
}

func newNode(level int, bounds r2.Box, maxObjects, maxLevels int) *QuadTree {
	if maxObjects < 1 {
		maxObjects = 1
	}
	return &QuadTree{
		level:      level,
		maxObjects: maxObjects,
		maxLevels:  maxLevels,
		bounds:     bounds,
	}
}

// Bounds returns the region covered by this node
func (qt *QuadTree) Bounds() r2.Box {
	return qt.bounds
}

// Level returns the depth of this node (root = 0)
func (qt *QuadTree) Level() int {
	return qt.level
}

// Clear drops all objects and children. Child nodes are kept allocated and
// reused by the next subdivision
func (qt *QuadTree) Clear() {
	for i := range qt.objects {
		qt.objects[i] = nil
	}
	qt.objects = qt.objects[:0]
	if qt.split {
		for _, n := range qt.nodes {
			n.Clear()
		}
	}
	qt.split = false
}

// Insert stores b in the deepest node whose bounds fully contain it.
// Returns false, storing nothing, if b lies entirely outside the root bounds
func (qt *QuadTree) Insert(b Body) bool {
	box := bodyBox(b)
	if qt.level == 0 && !intersects(qt.bounds, box) {
		return false
	}
	qt.insert(b, box)
	return true
}

func (qt *QuadTree) insert(b Body, box r2.Box) {
	if qt.split {
		if idx := qt.index(box); idx != noQuadrant {
			qt.nodes[idx].insert(b, box)
			return
		}
	}

	qt.objects = append(qt.objects, b)

	if len(qt.objects) > qt.maxObjects && qt.level < qt.maxLevels {
		if !qt.split {
			qt.subdivide()
		}

		// Redistribute: keep straddlers here, push the rest down
		kept := qt.objects[:0]
		for _, o := range qt.objects {
			ob := bodyBox(o)
			if idx := qt.index(ob); idx != noQuadrant {
				qt.nodes[idx].insert(o, ob)
			} else {
				kept = append(kept, o)
			}
		}
		for i := len(kept); i < len(qt.objects); i++ {
			qt.objects[i] = nil
		}
		qt.objects = kept
	}
}

// Retrieve appends every body that may overlap b to out and returns it.
// A query entirely outside the root yields no candidates. b itself is included
// when it has been inserted; callers skip self-matches
func (qt *QuadTree) Retrieve(out []Body, b Body) []Body {
	box := bodyBox(b)
	if qt.level == 0 && !intersects(qt.bounds, box) {
		return out
	}
	return qt.retrieve(out, box)
}

func (qt *QuadTree) retrieve(out []Body, box r2.Box) []Body {
	if qt.split {
		if idx := qt.index(box); idx != noQuadrant {
			out = qt.nodes[idx].retrieve(out, box)
		} else {
			for _, n := range qt.nodes {
				if intersects(n.bounds, box) {
					out = n.retrieve(out, box)
				}
			}
		}
	}
	return append(out, qt.objects...)
}

// Len returns the total number of stored bodies in this subtree
func (qt *QuadTree) Len() int {
	n := len(qt.objects)
	if qt.split {
		for _, c := range qt.nodes {
			n += c.Len()
		}
	}
	return n
}

func (qt *QuadTree) subdivide() {
	min, max := qt.bounds.Min, qt.bounds.Max
	mid := r2.Vec{X: (min.X + max.X) / 2, Y: (min.Y + max.Y) / 2}

	quads := [4]r2.Box{
		quadNE: {Min: r2.Vec{X: mid.X, Y: min.Y}, Max: r2.Vec{X: max.X, Y: mid.Y}},
		quadNW: {Min: min, Max: mid},
		quadSW: {Min: r2.Vec{X: min.X, Y: mid.Y}, Max: r2.Vec{X: mid.X, Y: max.Y}},
		quadSE: {Min: mid, Max: max},
	}

	for i, q := range quads {
		if qt.nodes[i] == nil {
			qt.nodes[i] = newNode(qt.level+1, q, qt.maxObjects, qt.maxLevels)
		} else {
			// Reused node from a previous tick; bounds never change
			qt.nodes[i].bounds = q
		}
	}
	qt.split = true
}

// index returns the quadrant fully containing box, or noQuadrant
func (qt *QuadTree) index(box r2.Box) int {
	for i, n := range qt.nodes {
		if n != nil && contains(n.bounds, box) {
			return i
		}
	}
	return noQuadrant
}

func bodyBox(b Body) r2.Box {
	p, r := b.Position(), b.Radius()
	return r2.Box{
		Min: r2.Vec{X: p.X - r, Y: p.Y - r},
		Max: r2.Vec{X: p.X + r, Y: p.Y + r},
	}
}

func contains(outer, inner r2.Box) bool {
	return inner.Min.X >= outer.Min.X && inner.Max.X <= outer.Max.X &&
		inner.Min.Y >= outer.Min.Y && inner.Max.Y <= outer.Max.Y
}

func intersects(a, b r2.Box) bool {
	return a.Min.X <= b.Max.X && b.Min.X <= a.Max.X &&
		a.Min.Y <= b.Max.Y && b.Min.Y <= a.Max.Y
}
