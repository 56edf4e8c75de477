package tuitest

import (
	"fmt"
	"time"
)

var (
	// KeyEnter sends a carriage return to the PTY.
	KeyEnter = []byte{'\r'}
	// KeyCtrlC requests the program to terminate.
	KeyCtrlC = []byte{3}
	// KeyEsc closes the lightbox or leaves the contact form.
	KeyEsc = []byte{27}
	// KeyTab moves to the next section or form field.
	KeyTab = []byte{'\t'}
	// KeyLeft and KeyRight are the arrow keys in normal cursor mode.
	KeyLeft  = []byte("\x1b[D")
	KeyRight = []byte("\x1b[C")
	KeyDown  = []byte("\x1b[B")
	KeyUp    = []byte("\x1b[A")
)

// SGR mouse reports use 1-based coordinates; x and y here are 0-based cells.

// MousePress encodes a left button press at x, y.
func MousePress(x, y int) []byte {
	return []byte(fmt.Sprintf("\x1b[<0;%d;%dM", x+1, y+1))
}

// MouseRelease encodes a left button release at x, y.
func MouseRelease(x, y int) []byte {
	return []byte(fmt.Sprintf("\x1b[<0;%d;%dm", x+1, y+1))
}

// MouseWheelDown encodes one wheel notch at x, y.
func MouseWheelDown(x, y int) []byte {
	return []byte(fmt.Sprintf("\x1b[<65;%d;%dM", x+1, y+1))
}

// Click returns the steps for a press and release at the same cell.
func Click(x, y int) []Step {
	return []Step{
		{Input: MousePress(x, y)},
		{Delay: 20 * time.Millisecond, Input: MouseRelease(x, y)},
	}
}

// Swipe returns the steps for pressing at x, y and releasing dx cells away.
func Swipe(x, y, dx int) []Step {
	return []Step{
		{Input: MousePress(x, y)},
		{Delay: 20 * time.Millisecond, Input: MouseRelease(x+dx, y)},
	}
}

// Keys turns each string into one step, spaced by delay.
func Keys(delay time.Duration, keys ...string) []Step {
	steps := make([]Step, 0, len(keys))
	for _, k := range keys {
		steps = append(steps, Step{Delay: delay, Input: []byte(k)})
	}
	return steps
}
