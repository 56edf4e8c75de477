// Package reveal latches sections as visible the first time they scroll into
// view.
package reveal

import "sort"

// Latch flips from hidden to visible once and stays there.
type Latch struct {
	visible bool
}

// Observe records a visibility sample and reports whether this call flipped
// the latch.
func (l *Latch) Observe(inView bool) bool {
	if l.visible || !inView {
		return false
	}
	l.visible = true
	return true
}

func (l *Latch) Visible() bool {
	return l.visible
}

// Span is a half-open line range [Top, Bottom).
type Span struct {
	Top    int
	Bottom int
}

func (s Span) intersects(top, bottom int) bool {
	return s.Top < bottom && top < s.Bottom
}

// Tracker owns one latch per keyed span.
type Tracker struct {
	margin  int
	spans   map[string]Span
	latches map[string]*Latch
}

// NewTracker returns a tracker that shrinks the bottom of the observed window
// by margin lines, so a section must be that far into view before it counts.
func NewTracker(margin int) *Tracker {
	if margin < 0 {
		margin = 0
	}
	return &Tracker{
		margin:  margin,
		spans:   map[string]Span{},
		latches: map[string]*Latch{},
	}
}

// SetSpans replaces the tracked layout. Latches of keys that survive keep
// their state.
func (t *Tracker) SetSpans(spans map[string]Span) {
	t.spans = make(map[string]Span, len(spans))
	for key, span := range spans {
		t.spans[key] = span
		if _, ok := t.latches[key]; !ok {
			t.latches[key] = &Latch{}
		}
	}
}

// Observe samples the window [top, bottom) and returns the keys that became
// visible during this call, sorted.
func (t *Tracker) Observe(top, bottom int) []string {
	limit := bottom - t.margin
	if limit <= top {
		limit = top + 1
	}
	var revealed []string
	for key, span := range t.spans {
		if t.latches[key].Observe(span.intersects(top, limit)) {
			revealed = append(revealed, key)
		}
	}
	sort.Strings(revealed)
	return revealed
}

// Visible reports whether key has been revealed. Unknown keys are visible so
// content outside the tracked layout is never hidden.
func (t *Tracker) Visible(key string) bool {
	latch, ok := t.latches[key]
	if !ok {
		return true
	}
	return latch.Visible()
}

// RevealAll latches every tracked key.
func (t *Tracker) RevealAll() {
	for _, latch := range t.latches {
		latch.Observe(true)
	}
}

// Reset forgets all latches.
func (t *Tracker) Reset() {
	t.latches = map[string]*Latch{}
	for key := range t.spans {
		t.latches[key] = &Latch{}
	}
}
