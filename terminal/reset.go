// Package terminal restores a sane terminal after the UI exits abnormally
package terminal

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
)

var (
	csiRIS           = []byte("\x1bc") // Reset to Initial State
	csiSGR0          = []byte("\x1b[0m")
	csiCursorShow    = []byte("\x1b[?25h")
	csiAltScreenExit = []byte("\x1b[?1049l")
	csiAutoWrapOn    = []byte("\x1b[?7h")

	csiMouseMotionOff = []byte("\x1b[?1003l")
	csiMouseDragOff   = []byte("\x1b[?1002l")
	csiMouseClickOff  = []byte("\x1b[?1000l")
	csiMouseSGROff    = []byte("\x1b[?1006l")
)

// EmergencyReset writes the escape sequences that undo mouse tracking, the
// alternate screen and hidden cursor, then restores cooked tty mode. Usable
// from a recover handler after the screen library lost control
func EmergencyReset(w io.Writer) {
	w.Write(csiMouseMotionOff)
	w.Write(csiMouseDragOff)
	w.Write(csiMouseClickOff)
	w.Write(csiMouseSGROff)

	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)
	w.Write(csiSGR0)
	w.Write(csiAutoWrapOn)
	w.Write(csiRIS)

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios; best effort
	resetTerminalMode()
}

// CrashReport resets the terminal and prints r with a stack trace to errOut.
// Uses \r\n so output stays aligned if the tty is still raw
func CrashReport(out, errOut io.Writer, what string, r any) {
	EmergencyReset(out)
	fmt.Fprintf(errOut, "\r\n\x1b[31m%s CRASHED: %v\x1b[0m\r\n", what, r)
	fmt.Fprintf(errOut, "Stack Trace:\r\n%s\r\n", debug.Stack())
}
