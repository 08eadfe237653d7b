package quadtree

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/motion-coherence/physics"
	"github.com/lixenwraith/motion-coherence/vmath"
)

type disk struct {
	pos r2.Vec
	r   float64
}

func (d *disk) Position() r2.Vec { return d.pos }
func (d *disk) Radius() float64  { return d.r }

func testBounds() r2.Box {
	return r2.Box{Min: r2.Vec{X: 0, Y: 0}, Max: r2.Vec{X: 400, Y: 200}}
}

func containsBody(list []Body, b Body) bool {
	for _, o := range list {
		if o == b {
			return true
		}
	}
	return false
}

func TestInsertSubdivides(t *testing.T) {
	qt := New(testBounds(), 4, 5)
	for i := 0; i < 20; i++ {
		qt.Insert(&disk{pos: r2.Vec{X: float64(10 + i*18), Y: 50}, r: 1})
	}

	if !qt.split {
		t.Fatal("Expected root to subdivide after exceeding capacity")
	}
	if qt.Len() != 20 {
		t.Errorf("Expected 20 stored bodies, got %d", qt.Len())
	}
}

func TestMaxLevelsStopsSubdivision(t *testing.T) {
	qt := New(testBounds(), 1, 0)
	for i := 0; i < 10; i++ {
		qt.Insert(&disk{pos: r2.Vec{X: 5, Y: 5}, r: 1})
	}
	if qt.split {
		t.Error("Expected no subdivision with maxLevels 0")
	}
	if len(qt.objects) != 10 {
		t.Errorf("Expected all bodies in root, got %d", len(qt.objects))
	}
}

func TestRetrieveNeverMissesContacts(t *testing.T) {
	rng := vmath.NewFastRand(1234)
	qt := New(testBounds(), 4, 5)

	bodies := make([]*disk, 300)
	for i := range bodies {
		bodies[i] = &disk{
			pos: r2.Vec{X: rng.Range(0, 400), Y: rng.Range(0, 200)},
			r:   rng.Range(0.5, 6),
		}
		qt.Insert(bodies[i])
	}

	for _, a := range bodies {
		candidates := qt.Retrieve(nil, a)
		for _, b := range bodies {
			if a == b {
				continue
			}
			if physics.Overlaps(a.pos, a.r, b.pos, b.r) && !containsBody(candidates, b) {
				t.Fatalf("Missed contact between %v and %v", a.pos, b.pos)
			}
		}
	}
}

func TestStraddlingBodyVisibleFromAllQuadrants(t *testing.T) {
	qt := New(testBounds(), 1, 5)
	// Fill quadrants to force a split
	qt.Insert(&disk{pos: r2.Vec{X: 50, Y: 50}, r: 1})
	qt.Insert(&disk{pos: r2.Vec{X: 350, Y: 50}, r: 1})
	qt.Insert(&disk{pos: r2.Vec{X: 50, Y: 150}, r: 1})
	qt.Insert(&disk{pos: r2.Vec{X: 350, Y: 150}, r: 1})

	center := &disk{pos: r2.Vec{X: 200, Y: 100}, r: 5}
	qt.Insert(center)

	probes := []*disk{
		{pos: r2.Vec{X: 196, Y: 96}, r: 1},
		{pos: r2.Vec{X: 204, Y: 96}, r: 1},
		{pos: r2.Vec{X: 196, Y: 104}, r: 1},
		{pos: r2.Vec{X: 204, Y: 104}, r: 1},
	}
	for _, p := range probes {
		if !containsBody(qt.Retrieve(nil, p), center) {
			t.Errorf("Expected straddling body to be returned for probe at %v", p.pos)
		}
	}
}

func TestStraddlingQueryDescendsChildren(t *testing.T) {
	qt := New(testBounds(), 1, 5)
	inNW := &disk{pos: r2.Vec{X: 198, Y: 98}, r: 1}
	inSE := &disk{pos: r2.Vec{X: 202, Y: 102}, r: 1}
	qt.Insert(inNW)
	qt.Insert(inSE)
	qt.Insert(&disk{pos: r2.Vec{X: 10, Y: 190}, r: 1})

	query := &disk{pos: r2.Vec{X: 200, Y: 100}, r: 4}
	got := qt.Retrieve(nil, query)
	if !containsBody(got, inNW) || !containsBody(got, inSE) {
		t.Errorf("Expected both neighbours across the split, got %d candidates", len(got))
	}
}

func TestOutOfBoundsBodies(t *testing.T) {
	qt := New(testBounds(), 4, 5)
	outside := &disk{pos: r2.Vec{X: -50, Y: -50}, r: 1}

	if qt.Insert(outside) {
		t.Error("Expected insert outside bounds to be rejected")
	}
	if qt.Len() != 0 {
		t.Errorf("Expected empty tree, got %d", qt.Len())
	}

	qt.Insert(&disk{pos: r2.Vec{X: 10, Y: 10}, r: 1})
	if got := qt.Retrieve(nil, outside); len(got) != 0 {
		t.Errorf("Expected no candidates for out-of-bounds query, got %d", len(got))
	}
}

func TestClearReusesNodes(t *testing.T) {
	qt := New(testBounds(), 2, 5)
	for i := 0; i < 10; i++ {
		qt.Insert(&disk{pos: r2.Vec{X: float64(20 * (i + 1)), Y: 20}, r: 1})
	}
	ne := qt.nodes[quadNE]

	qt.Clear()
	if qt.Len() != 0 {
		t.Fatalf("Expected empty tree after clear, got %d", qt.Len())
	}
	if qt.split {
		t.Error("Expected root to be unsplit after clear")
	}

	for i := 0; i < 10; i++ {
		qt.Insert(&disk{pos: r2.Vec{X: float64(20 * (i + 1)), Y: 20}, r: 1})
	}
	if qt.nodes[quadNE] != ne {
		t.Error("Expected child node to be reused after clear")
	}
	if qt.Len() != 10 {
		t.Errorf("Expected 10 bodies after refill, got %d", qt.Len())
	}
}
