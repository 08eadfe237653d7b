package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/motion-coherence/event"
	"github.com/lixenwraith/motion-coherence/motion"
	"github.com/lixenwraith/motion-coherence/parameter"
)

// Binding is what a key produces
type Binding struct {
	Type     event.EventType
	Side     motion.Side
	Debounce bool // repeats within the debounce window are ignored
}

// KeyTable maps special keys and runes to bindings
type KeyTable struct {
	Keys  map[tcell.Key]Binding
	Runes map[rune]Binding
}

// DefaultKeyTable binds arrows and 1/2 to patch selection, space to start,
// enter to continue, q/Esc/Ctrl-C to quit
func DefaultKeyTable() *KeyTable {
	left := Binding{Type: event.EventSelect, Side: motion.SideLeft, Debounce: true}
	right := Binding{Type: event.EventSelect, Side: motion.SideRight, Debounce: true}
	start := Binding{Type: event.EventStart, Debounce: true}
	cont := Binding{Type: event.EventContinue, Debounce: true}
	quit := Binding{Type: event.EventQuit}

	return &KeyTable{
		Keys: map[tcell.Key]Binding{
			tcell.KeyLeft:   left,
			tcell.KeyRight:  right,
			tcell.KeyEnter:  cont,
			tcell.KeyEscape: quit,
			tcell.KeyCtrlC:  quit,
		},
		Runes: map[rune]Binding{
			parameter.KeySelectLeft:  left,
			parameter.KeySelectRight: right,
			parameter.KeyStart:       start,
			parameter.KeyQuit:        quit,
		},
	}
}

// Lookup resolves a key event to a binding
func (kt *KeyTable) Lookup(ev *tcell.EventKey) (Binding, bool) {
	if ev.Key() == tcell.KeyRune {
		b, ok := kt.Runes[ev.Rune()]
		return b, ok
	}
	b, ok := kt.Keys[ev.Key()]
	return b, ok
}
