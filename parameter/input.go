package parameter

import "time"

// Input Handling
const (
	// ResponseDebounce suppresses auto-repeated key events belonging to one physical press
	ResponseDebounce = 120 * time.Millisecond
)

// Key bindings (rune keys; arrows are handled by key code)
const (
	KeySelectLeft  = '1'
	KeySelectRight = '2'
	KeyStart       = ' '
	KeyQuit        = 'q'
)
