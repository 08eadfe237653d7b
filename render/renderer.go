// Package render draws the motion world, prompts and results onto a
// character-cell surface
package render

import (
	"fmt"
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/motion-coherence/motion"
	"github.com/lixenwraith/motion-coherence/parameter"
	"github.com/lixenwraith/motion-coherence/staircase"
	"github.com/lixenwraith/motion-coherence/status"
)

// Surface is the subset of tcell.Screen the renderer draws through
type Surface interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (int, int)
}

// Renderer keeps the layout of the current world and draws frames. The
// layout is read by the input goroutine for hit tests
type Renderer struct {
	theme Theme
	world *motion.World

	mu     sync.RWMutex
	layout Layout
	cols   int
	rows   int
}

func NewRenderer(theme Theme) *Renderer {
	return &Renderer{theme: theme}
}

// SetWorld attaches a world; the layout is recomputed on the next Fit
func (r *Renderer) SetWorld(w *motion.World) {
	r.mu.Lock()
	r.world = w
	r.cols, r.rows = 0, 0
	r.mu.Unlock()
}

// Fit recomputes the layout when the surface size changed
func (r *Renderer) Fit(cols, rows int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.world == nil || (cols == r.cols && rows == r.rows) {
		return
	}
	r.cols, r.rows = cols, rows
	avail := rows - parameter.HeaderRows - parameter.FooterRows
	r.layout = FitLayout(r.world.Bounds(), cols, avail, parameter.HeaderRows)
}

func (r *Renderer) Layout() Layout {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.layout
}

// PatchAtCell resolves a terminal cell to the patch drawn there. Patch
// geometry is fixed after world construction, so only the layout is locked
func (r *Renderer) PatchAtCell(x, y int) (motion.Side, bool) {
	r.mu.RLock()
	w, l := r.world, r.layout
	r.mu.RUnlock()
	if w == nil {
		return 0, false
	}
	p := l.ToWorld(x, y)
	return w.PatchAt(p.X, p.Y)
}

func (r *Renderer) base() tcell.Style {
	return tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Text)
}

// TooSmall reports whether the surface cannot hold the world view
func TooSmall(s Surface) bool {
	w, h := s.Size()
	return w < parameter.MinCols || h < parameter.MinRows
}

// DrawWorld renders both patches, their labels and, while running, the dots
func (r *Renderer) DrawWorld(s Surface) {
	fill(s, r.base())
	if TooSmall(s) {
		w, h := s.Size()
		drawCentered(s, w/2, h/2, "Terminal too small", w, r.base())
		return
	}
	if r.world == nil {
		return
	}
	r.Fit(s.Size())

	layout := r.Layout()
	state := r.world.State()
	for _, side := range []motion.Side{motion.SideLeft, motion.SideRight} {
		r.drawPatch(s, layout, side, r.outlineColor(side, state))
	}

	if state == motion.StateRunning {
		dotStyle := r.base().Foreground(r.theme.Dot)
		for _, side := range []motion.Side{motion.SideLeft, motion.SideRight} {
			for _, d := range r.world.Dots(side) {
				x, y := layout.ToCell(d.Position())
				s.SetContent(x, y, parameter.GlyphDot, nil, dotStyle)
			}
		}
	}

	w, _ := s.Size()
	switch state {
	case motion.StateIdle:
		drawCentered(s, w/2, 0, "Press SPACE to start", w, r.base())
	case motion.StatePaused:
		drawCentered(s, w/2, 0, "Which patch had coherent motion? Press 1 or 2", w, r.base())
	case motion.StateRunning:
		drawCentered(s, w/2, 0, "Watch both patches", w, r.base())
	case motion.StateTrialCorrect:
		drawCentered(s, w/2, 0, "Correct", w, r.base().Foreground(r.theme.Correct))
	case motion.StateTrialIncorrect:
		drawCentered(s, w/2, 0, "Incorrect", w, r.base().Foreground(r.theme.Incorrect))
	}
}

// outlineColor picks the feedback colour for a patch in the given state
func (r *Renderer) outlineColor(side motion.Side, state motion.State) tcell.Color {
	coherent := r.world.CoherentSide()
	switch state {
	case motion.StatePatchSelected:
		return r.theme.Selected
	case motion.StateTrialCorrect, motion.StateTrialIncorrect:
		if side == coherent {
			return r.theme.Correct
		}
		return r.theme.Incorrect
	}
	return r.theme.Outline
}

func (r *Renderer) drawPatch(s Surface, layout Layout, side motion.Side, color tcell.Color) {
	b := r.world.Patch(side).Bounds()
	x0, y0 := layout.ToCell(b.Min)
	x1, y1 := layout.ToCell(r2.Vec{X: b.Max.X - 1, Y: b.Max.Y - 1})
	style := r.base().Foreground(color)

	for x := x0 + 1; x < x1; x++ {
		s.SetContent(x, y0, parameter.GlyphHLine, nil, style)
		s.SetContent(x, y1, parameter.GlyphHLine, nil, style)
	}
	for y := y0 + 1; y < y1; y++ {
		s.SetContent(x0, y, parameter.GlyphVLine, nil, style)
		s.SetContent(x1, y, parameter.GlyphVLine, nil, style)
	}
	s.SetContent(x0, y0, parameter.GlyphCornerTL, nil, style)
	s.SetContent(x1, y0, parameter.GlyphCornerTR, nil, style)
	s.SetContent(x0, y1, parameter.GlyphCornerBL, nil, style)
	s.SetContent(x1, y1, parameter.GlyphCornerBR, nil, style)

	label := "1"
	if side == motion.SideRight {
		label = "2"
	}
	drawCentered(s, (x0+x1)/2, y1+1, label, x1-x0, r.base())
}

// DrawIntro renders the instructions screen
func (r *Renderer) DrawIntro(s Surface, tutorial bool) {
	fill(s, r.base())
	w, h := s.Size()
	lines := []string{
		"Motion Coherence Test",
		"",
		"Two patches of moving dots will appear.",
		"In one patch some dots move together left or right.",
		"When the dots stop, choose that patch with 1 / 2,",
		"the arrow keys, or by clicking it.",
		"",
	}
	if tutorial {
		lines = append(lines, "Tutorial: feedback is shown after every answer.")
	}
	lines = append(lines, "", "Press SPACE to begin, Q to quit")

	top := (h - len(lines)) / 2
	for i, l := range lines {
		style := r.base()
		if i == 0 {
			style = style.Bold(true)
		}
		drawCentered(s, w/2, top+i, l, w, style)
	}
}

// DrawResults renders the outcome of a completed run
func (r *Renderer) DrawResults(s Surface, res staircase.TestResults) {
	fill(s, r.base())
	w, h := s.Size()

	threshold := "n/a"
	if !math.IsNaN(res.Threshold) {
		threshold = fmt.Sprintf("%.1f%%", res.Threshold)
	}
	lines := []string{
		"Results",
		"",
		fmt.Sprintf("Threshold:        %s", threshold),
		fmt.Sprintf("Lowest coherence: %.1f%%", res.LowestCoherency),
		fmt.Sprintf("Classification:   %s", res.Classification()),
		fmt.Sprintf("Trials:           %d (%d correct, %d incorrect)",
			len(res.Trials), res.CorrectCount, res.IncorrectCount),
		fmt.Sprintf("Reversals:        %d", len(res.ReversalValues)),
		"",
		"Press Q to quit",
	}

	top := (h - len(lines)) / 2
	for i, l := range lines {
		style := r.base()
		if i == 0 {
			style = style.Bold(true)
		}
		drawCentered(s, w/2, top+i, l, w, style)
	}
}

// DrawStatus renders the metric snapshot on the bottom row
func (r *Renderer) DrawStatus(s Surface, reg *status.Registry) {
	_, h := s.Size()
	y := h - 1
	style := tcell.StyleDefault.Background(r.theme.StatusBg).Foreground(r.theme.StatusText)
	fillRow(s, y, style)

	x := 1
	for _, e := range reg.Snapshot() {
		x = drawText(s, x, y, e.Key+" "+e.Value, style)
		x += 2
	}
}
