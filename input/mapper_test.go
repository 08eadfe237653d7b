package input

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/motion-coherence/engine"
	"github.com/lixenwraith/motion-coherence/event"
	"github.com/lixenwraith/motion-coherence/motion"
	"github.com/lixenwraith/motion-coherence/staircase"
)

// halfHit puts the left patch on columns below 40, the right one above
type halfHit struct{}

func (halfHit) PatchAtCell(x, y int) (motion.Side, bool) {
	switch {
	case x >= 10 && x < 40:
		return motion.SideLeft, true
	case x >= 50 && x < 80:
		return motion.SideRight, true
	}
	return motion.SideLeft, false
}

func newTestMapper() (*Mapper, *engine.MockTimeProvider) {
	clock := engine.NewMockTimeProvider(time.Unix(1000, 0))
	return NewMapper(clock, halfHit{}), clock
}

func TestKeyBindings(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		typ  event.EventType
		side motion.Side
	}{
		{"left arrow", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), event.EventSelect, motion.SideLeft},
		{"right arrow", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), event.EventSelect, motion.SideRight},
		{"digit one", tcell.NewEventKey(tcell.KeyRune, '1', tcell.ModNone), event.EventSelect, motion.SideLeft},
		{"digit two", tcell.NewEventKey(tcell.KeyRune, '2', tcell.ModNone), event.EventSelect, motion.SideRight},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), event.EventStart, motion.SideLeft},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), event.EventContinue, motion.SideLeft},
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), event.EventQuit, motion.SideLeft},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), event.EventQuit, motion.SideLeft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestMapper()
			got, ok := m.Map(tt.ev)
			if !ok {
				t.Fatalf("Expected %s to map", tt.name)
			}
			if got.Type != tt.typ || got.Side != tt.side {
				t.Errorf("Expected %s/%s, got %s/%s", tt.typ, tt.side, got.Type, got.Side)
			}
			if got.Type == event.EventSelect && got.Method != staircase.InputKeyboard {
				t.Errorf("Expected keyboard method, got %s", got.Method)
			}
		})
	}

	m, _ := newTestMapper()
	if _, ok := m.Map(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)); ok {
		t.Errorf("Expected unbound key to be ignored")
	}
}

func TestKeyRepeatDebounced(t *testing.T) {
	m, clock := newTestMapper()
	press := func() bool {
		_, ok := m.Map(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
		return ok
	}

	if !press() {
		t.Fatal("Expected first press accepted")
	}
	// Held key: auto-repeat every 30ms never gets through
	for i := 0; i < 10; i++ {
		clock.Advance(30 * time.Millisecond)
		if press() {
			t.Fatalf("Expected repeat %d suppressed", i)
		}
	}

	// A different key is independent
	if _, ok := m.Map(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone)); !ok {
		t.Errorf("Expected other key accepted")
	}

	clock.Advance(200 * time.Millisecond)
	if !press() {
		t.Errorf("Expected new press after release accepted")
	}
}

func TestQuitNotDebounced(t *testing.T) {
	m, _ := newTestMapper()
	q := tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)
	m.Map(q)
	if _, ok := m.Map(q); !ok {
		t.Errorf("Expected repeated quit to pass")
	}
}

func TestMouseSelectsOnPress(t *testing.T) {
	m, clock := newTestMapper()

	got, ok := m.Map(tcell.NewEventMouse(60, 5, tcell.Button1, tcell.ModNone))
	if !ok || got.Type != event.EventSelect || got.Side != motion.SideRight {
		t.Fatalf("Expected right selection, got %+v ok=%v", got, ok)
	}
	if got.Method != staircase.InputMouse || !got.At.Equal(clock.Now()) {
		t.Errorf("Expected mouse method stamped now, got %+v", got)
	}

	// Drag with button held is not a new press
	if _, ok := m.Map(tcell.NewEventMouse(20, 5, tcell.Button1, tcell.ModNone)); ok {
		t.Errorf("Expected held button ignored")
	}
	m.Map(tcell.NewEventMouse(20, 5, tcell.ButtonNone, tcell.ModNone))
	got, ok = m.Map(tcell.NewEventMouse(20, 5, tcell.Button1, tcell.ModNone))
	if !ok || got.Side != motion.SideLeft {
		t.Errorf("Expected left selection after release, got %+v", got)
	}

	m.Map(tcell.NewEventMouse(45, 5, tcell.ButtonNone, tcell.ModNone))
	if _, ok := m.Map(tcell.NewEventMouse(45, 5, tcell.Button1, tcell.ModNone)); ok {
		t.Errorf("Expected click in gap ignored")
	}
}

func TestResize(t *testing.T) {
	m, _ := newTestMapper()
	got, ok := m.Map(tcell.NewEventResize(120, 40))
	if !ok || got.Type != event.EventResize || got.X != 120 || got.Y != 40 {
		t.Errorf("Expected resize 120x40, got %+v", got)
	}
}
