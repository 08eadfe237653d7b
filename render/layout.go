package render

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// CellAspect is the height-to-width ratio of a terminal cell
const CellAspect = 2.0

// Layout maps world pixels onto terminal cells, preserving aspect and
// centring the world box inside the available area
type Layout struct {
	Origin         r2.Vec // world point at cell (OffX, OffY)
	ScaleX, ScaleY float64
	OffX, OffY     int
}

// FitLayout fits box into a cols x rows area starting at row top
func FitLayout(box r2.Box, cols, rows, top int) Layout {
	bw := box.Max.X - box.Min.X
	bh := box.Max.Y - box.Min.Y
	if bw <= 0 || bh <= 0 || cols <= 0 || rows <= 0 {
		return Layout{Origin: box.Min, ScaleX: 1, ScaleY: 1 / CellAspect, OffY: top}
	}

	s := math.Min(float64(cols)/bw, float64(rows)*CellAspect/bh)
	sx, sy := s, s/CellAspect
	usedW := int(math.Ceil(bw * sx))
	usedH := int(math.Ceil(bh * sy))

	return Layout{
		Origin: box.Min,
		ScaleX: sx,
		ScaleY: sy,
		OffX:   (cols - usedW) / 2,
		OffY:   top + (rows-usedH)/2,
	}
}

// ToCell maps a world point to a cell
func (l Layout) ToCell(p r2.Vec) (int, int) {
	x := int(math.Floor((p.X-l.Origin.X)*l.ScaleX)) + l.OffX
	y := int(math.Floor((p.Y-l.Origin.Y)*l.ScaleY)) + l.OffY
	return x, y
}

// ToWorld maps a cell centre back to world coordinates
func (l Layout) ToWorld(x, y int) r2.Vec {
	return r2.Vec{
		X: (float64(x-l.OffX)+0.5)/l.ScaleX + l.Origin.X,
		Y: (float64(y-l.OffY)+0.5)/l.ScaleY + l.Origin.Y,
	}
}
