// Package input turns terminal events into queued participant intents
package input

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/motion-coherence/engine"
	"github.com/lixenwraith/motion-coherence/event"
	"github.com/lixenwraith/motion-coherence/motion"
	"github.com/lixenwraith/motion-coherence/parameter"
	"github.com/lixenwraith/motion-coherence/staircase"
)

// HitTester resolves a terminal cell to a patch
type HitTester interface {
	PatchAtCell(x, y int) (motion.Side, bool)
}

type keyID struct {
	key tcell.Key
	r   rune
}

// Mapper converts tcell events. Terminals deliver a held key as a stream of
// presses, so a repeat of the same key inside the debounce window is dropped;
// mouse selections fire on the button-down edge only
type Mapper struct {
	clock    engine.TimeProvider
	hit      HitTester
	keys     *KeyTable
	debounce time.Duration

	lastKey keyID
	lastAt  time.Time
	hasLast bool
	buttons tcell.ButtonMask
}

func NewMapper(clock engine.TimeProvider, hit HitTester) *Mapper {
	return &Mapper{
		clock:    clock,
		hit:      hit,
		keys:     DefaultKeyTable(),
		debounce: parameter.ResponseDebounce,
	}
}

// SetHitTester swaps the hit tester, e.g. when the layout changes
func (m *Mapper) SetHitTester(hit HitTester) {
	m.hit = hit
}

// Map returns the intent for ev, or false when ev carries none
func (m *Mapper) Map(ev tcell.Event) (event.InputEvent, bool) {
	now := m.clock.Now()

	switch e := ev.(type) {
	case *tcell.EventKey:
		return m.mapKey(e, now)
	case *tcell.EventMouse:
		return m.mapMouse(e, now)
	case *tcell.EventResize:
		w, h := e.Size()
		return event.InputEvent{Type: event.EventResize, X: w, Y: h, At: now}, true
	}
	return event.InputEvent{}, false
}

func (m *Mapper) mapKey(e *tcell.EventKey, now time.Time) (event.InputEvent, bool) {
	b, ok := m.keys.Lookup(e)
	if !ok {
		return event.InputEvent{}, false
	}

	id := keyID{key: e.Key()}
	if e.Key() == tcell.KeyRune {
		id.r = e.Rune()
	}
	if b.Debounce && m.hasLast && id == m.lastKey && now.Sub(m.lastAt) < m.debounce {
		m.lastAt = now // a held key keeps extending the window
		return event.InputEvent{}, false
	}
	m.lastKey = id
	m.lastAt = now
	m.hasLast = true

	return event.InputEvent{
		Type:   b.Type,
		Side:   b.Side,
		Method: staircase.InputKeyboard,
		At:     now,
	}, true
}

func (m *Mapper) mapMouse(e *tcell.EventMouse, now time.Time) (event.InputEvent, bool) {
	prev := m.buttons
	m.buttons = e.Buttons()

	pressed := m.buttons&tcell.Button1 != 0 && prev&tcell.Button1 == 0
	if !pressed || m.hit == nil {
		return event.InputEvent{}, false
	}

	x, y := e.Position()
	side, ok := m.hit.PatchAtCell(x, y)
	if !ok {
		return event.InputEvent{}, false
	}
	return event.InputEvent{
		Type:   event.EventSelect,
		Side:   side,
		Method: staircase.InputMouse,
		X:      x,
		Y:      y,
		At:     now,
	}, true
}
