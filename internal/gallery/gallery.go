package gallery

import "fmt"

// State is the presentation mode of a gallery.
type State int

const (
	Inline State = iota
	Fullscreen
)

func (s State) String() string {
	switch s {
	case Fullscreen:
		return "fullscreen"
	default:
		return "inline"
	}
}

// Key identifies the keys a fullscreen gallery reacts to.
type Key int

const (
	KeyLeft Key = iota
	KeyRight
	KeyEscape
)

// DefaultDragThreshold is the minimum horizontal displacement that counts as
// a swipe when the host does not configure its own.
const DefaultDragThreshold = 50

// ScrollLock suspends page scrolling. Acquire returns the function that
// restores it.
type ScrollLock interface {
	Acquire() (release func())
}

// Option customizes a Controller.
type Option func(*Controller)

// WithDragThreshold overrides DefaultDragThreshold. Non-positive values are
// ignored.
func WithDragThreshold(threshold int) Option {
	return func(c *Controller) {
		if threshold > 0 {
			c.threshold = threshold
		}
	}
}

// WithScrollLock makes the controller hold lock for as long as it is
// fullscreen.
func WithScrollLock(lock ScrollLock) Option {
	return func(c *Controller) {
		c.lock = lock
	}
}

// Controller owns an ordered set of image references, the cursor into it and
// the inline/fullscreen state. All methods are synchronous and never fail;
// input that does not apply is ignored.
type Controller struct {
	images    []string
	cursor    int
	state     State
	threshold int
	lock      ScrollLock
	release   func()
}

// New returns an inline controller positioned on the first image.
func New(images []string, opts ...Option) *Controller {
	c := &Controller{
		images:    append([]string(nil), images...),
		threshold: DefaultDragThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Len() int {
	return len(c.images)
}

func (c *Controller) Cursor() int {
	return c.cursor
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) IsOpen() bool {
	return c.state == Fullscreen
}

func (c *Controller) DragThreshold() int {
	return c.threshold
}

// Images returns a copy of the image references.
func (c *Controller) Images() []string {
	return append([]string(nil), c.images...)
}

// Current returns the reference under the cursor, or false for an empty
// gallery.
func (c *Controller) Current() (string, bool) {
	if len(c.images) == 0 {
		return "", false
	}
	return c.images[c.cursor], true
}

// Navigable reports whether navigation controls should be shown.
func (c *Controller) Navigable() bool {
	return len(c.images) > 1
}

// Indicator renders the one-based "i / N" position, or an empty string when
// there is nothing to navigate.
func (c *Controller) Indicator() string {
	if !c.Navigable() {
		return ""
	}
	return fmt.Sprintf("%d / %d", c.cursor+1, len(c.images))
}

func (c *Controller) Next() {
	if !c.Navigable() {
		return
	}
	c.cursor = (c.cursor + 1) % len(c.images)
}

func (c *Controller) Previous() {
	if !c.Navigable() {
		return
	}
	c.cursor = (c.cursor - 1 + len(c.images)) % len(c.images)
}

// JumpTo moves the cursor to index. Out-of-range indices are ignored and
// reported with false.
func (c *Controller) JumpTo(index int) bool {
	if index < 0 || index >= len(c.images) {
		return false
	}
	c.cursor = index
	return true
}

// Open switches to fullscreen and takes the scroll lock. An empty gallery
// has nothing to show and stays inline.
func (c *Controller) Open() bool {
	if c.state == Fullscreen || len(c.images) == 0 {
		return false
	}
	c.state = Fullscreen
	if c.lock != nil {
		c.release = c.lock.Acquire()
	}
	return true
}

// Close returns to the inline view. Every dismissal path (close button,
// backdrop, Escape) ends here so the scroll lock is released exactly once.
func (c *Controller) Close() bool {
	if c.state != Fullscreen {
		return false
	}
	c.state = Inline
	c.releaseLock()
	return true
}

// Release is called when the host discards the controller. It drops the
// scroll lock if the overlay is still showing.
func (c *Controller) Release() {
	c.Close()
}

func (c *Controller) releaseLock() {
	if c.release == nil {
		return
	}
	release := c.release
	c.release = nil
	release()
}

// Drag interprets a finished horizontal drag of dx units. A displacement of
// at least the threshold is a swipe: leftwards advances, rightwards goes
// back. Shorter drags change nothing and return false.
func (c *Controller) Drag(dx int) bool {
	if abs(dx) < c.threshold {
		return false
	}
	if dx < 0 {
		c.Next()
	} else {
		c.Previous()
	}
	return true
}

// Tap handles a pointer release that was not a swipe. Tapping the inline
// image opens the overlay; tapping the fullscreen image does nothing.
func (c *Controller) Tap() bool {
	if c.state == Inline {
		return c.Open()
	}
	return false
}

// Pointer dispatches a pointer release with total horizontal displacement dx.
func (c *Controller) Pointer(dx int) {
	if !c.Drag(dx) {
		c.Tap()
	}
}

// HandleKey applies a key press. Keys are only honoured while fullscreen.
func (c *Controller) HandleKey(key Key) bool {
	if c.state != Fullscreen {
		return false
	}
	switch key {
	case KeyLeft:
		c.Previous()
	case KeyRight:
		c.Next()
	case KeyEscape:
		c.Close()
	default:
		return false
	}
	return true
}

// Replace swaps the image set, keeping the cursor when it is still in range
// and clamping it to the last image otherwise.
func (c *Controller) Replace(images []string) {
	c.images = append([]string(nil), images...)
	switch {
	case len(c.images) == 0:
		c.cursor = 0
		c.Close()
	case c.cursor >= len(c.images):
		c.cursor = len(c.images) - 1
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
