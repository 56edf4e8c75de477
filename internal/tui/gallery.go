package tui

import (
	"fmt"
	goimage "image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/csheth/folio/internal/gallery"
	"github.com/csheth/folio/internal/media"
)

// pageScrollLock freezes the page viewport while any gallery holds it.
type pageScrollLock struct {
	holders int
}

func (l *pageScrollLock) Acquire() func() {
	l.holders++
	released := false
	return func() {
		if released {
			return
		}
		released = true
		l.holders--
	}
}

func (l *pageScrollLock) Locked() bool {
	return l.holders > 0
}

var _ gallery.ScrollLock = (*pageScrollLock)(nil)

type imageEntry struct {
	img goimage.Image
	err error
}

type renderKey struct {
	ref  string
	cols int
	rows int
}

// imageStore holds decoded images and their rendered cell art.
type imageStore struct {
	images   map[string]imageEntry
	rendered map[renderKey][]string
}

func newImageStore() *imageStore {
	return &imageStore{
		images:   map[string]imageEntry{},
		rendered: map[renderKey][]string{},
	}
}

func (s *imageStore) Add(results map[string]media.Result) {
	for ref, res := range results {
		s.images[ref] = imageEntry{img: res.Image, err: res.Err}
		for key := range s.rendered {
			if key.ref == ref {
				delete(s.rendered, key)
			}
		}
	}
}

func (s *imageStore) Missing(refs []string) []string {
	var out []string
	for _, ref := range refs {
		if _, ok := s.images[ref]; !ok {
			out = append(out, ref)
		}
	}
	return out
}

// Lines renders ref into exactly rows lines of cols cells.
func (s *imageStore) Lines(ref string, cols, rows int) []string {
	key := renderKey{ref: ref, cols: cols, rows: rows}
	if lines, ok := s.rendered[key]; ok {
		return lines
	}
	entry, ok := s.images[ref]
	var lines []string
	switch {
	case ref == "":
		lines = media.Placeholder("no images", cols, rows)
	case !ok:
		return padBox(media.Placeholder("loading…", cols, rows), cols, rows)
	case entry.err != nil || entry.img == nil:
		lines = media.Placeholder("image unavailable", cols, rows)
	default:
		lines = media.RenderHalfBlock(entry.img, cols, rows)
	}
	lines = padBox(lines, cols, rows)
	s.rendered[key] = lines
	return lines
}

// padBox centres lines inside a cols x rows box so layouts never shift when
// an image finishes loading.
func padBox(lines []string, cols, rows int) []string {
	if len(lines) > rows {
		lines = lines[:rows]
	}
	out := make([]string, 0, rows)
	top := (rows - len(lines)) / 2
	blank := strings.Repeat(" ", cols)
	for i := 0; i < top; i++ {
		out = append(out, blank)
	}
	for _, line := range lines {
		w := lipgloss.Width(line)
		if w >= cols {
			out = append(out, line)
			continue
		}
		left := (cols - w) / 2
		out = append(out, strings.Repeat(" ", left)+line+strings.Repeat(" ", cols-w-left))
	}
	for len(out) < rows {
		out = append(out, blank)
	}
	return out
}

const (
	prevButtonLabel = "‹ prev"
	nextButtonLabel = "next ›"
	buttonGap       = "   "
)

// galleryControls renders the inline button row and returns the column
// ranges of both buttons relative to the row start.
func galleryControls(ctrl *gallery.Controller, focused bool) (string, [2]int, [2]int) {
	if !ctrl.Navigable() {
		switch {
		case ctrl.Len() == 0:
			return helperStyle.Render("No screenshots yet."), [2]int{}, [2]int{}
		case focused:
			return helperStyle.Render("enter to expand"), [2]int{}, [2]int{}
		default:
			return helperStyle.Render("click to expand"), [2]int{}, [2]int{}
		}
	}
	prev := [2]int{0, runewidth.StringWidth(prevButtonLabel)}
	counter := ctrl.Indicator()
	nextStart := prev[1] + len(buttonGap) + runewidth.StringWidth(counter) + len(buttonGap)
	next := [2]int{nextStart, nextStart + runewidth.StringWidth(nextButtonLabel)}
	style := buttonStyle
	if focused {
		style = buttonFocusedStyle
	}
	row := style.Render(prevButtonLabel) + buttonGap +
		counterStyle.Render(counter) + buttonGap +
		style.Render(nextButtonLabel)
	return row, prev, next
}

// overlayView renders the fullscreen lightbox for the project at idx and
// records its clickable regions in screen coordinates.
func (m *model) overlayView(idx int) string {
	ctrl := m.galleries[idx]
	project := m.portfolio.Projects[idx]
	width, height := m.layout.windowWidth, m.layout.windowHeight
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	m.overlayRegions = m.overlayRegions[:0]

	closeLabel := "[x]"
	closeLeft := width - runewidth.StringWidth(closeLabel) - 1
	chipWidth := closeLeft - 2
	if chipWidth < 4 {
		chipWidth = 4
	}
	chip := overlayChipStyle.Render(runewidth.Truncate(project.Title, chipWidth-2, "…"))
	gap := closeLeft - lipgloss.Width(chip)
	if gap < 1 {
		gap = 1
	}
	header := chip + strings.Repeat(" ", gap) + overlayCloseStyle.Render(closeLabel)
	m.overlayRegions = append(m.overlayRegions, hitRegion{
		kind: regionOverlayClose, project: idx,
		top: 0, bottom: 1, left: closeLeft, right: closeLeft + runewidth.StringWidth(closeLabel),
	})

	rows := height - overlayChrome
	if rows < 3 {
		rows = 3
	}
	cols := width - 4
	if cols < 10 {
		cols = 10
	}
	ref, _ := ctrl.Current()
	art := m.images.Lines(ref, cols, rows)
	left := (width - cols) / 2
	indent := strings.Repeat(" ", left)
	body := make([]string, len(art))
	for i, line := range art {
		body[i] = indent + line
	}
	m.overlayRegions = append(m.overlayRegions, hitRegion{
		kind: regionOverlayImage, project: idx,
		top: 2, bottom: 2 + len(art), left: left, right: left + cols,
	})

	footer := []string{}
	if indicator := ctrl.Indicator(); indicator != "" {
		footer = append(footer, lipgloss.PlaceHorizontal(width, lipgloss.Center, counterStyle.Render(indicator)))
	}
	hint := "esc or click outside to close"
	if ctrl.Navigable() {
		hint = "←/→ or drag to browse • " + hint
	}
	footer = append(footer, lipgloss.PlaceHorizontal(width, lipgloss.Center, helperStyle.Render(hint)))

	lines := append([]string{header, ""}, body...)
	lines = append(lines, footer...)
	return overlayBackdropStyle.Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func describeGallery(ctrl *gallery.Controller) string {
	if ctrl.Len() == 0 {
		return "no images"
	}
	if !ctrl.Navigable() {
		return "1 image"
	}
	return fmt.Sprintf("image %s", ctrl.Indicator())
}
