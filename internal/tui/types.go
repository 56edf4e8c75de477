package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/folio/internal/content"
	"github.com/csheth/folio/internal/media"
	"github.com/csheth/folio/internal/resume"
)

type stage int

const (
	stageDisplay stage = iota
	stagePalette
	stageContact
)

const (
	minViewportWidth = 40
	headerHeight     = 2
	footerHeight     = 2

	inlineImageRows = 10
	inlineImageCols = 36
	overlayChrome   = 5
	resumeWordLimit = 220
)

type regionKind int

const (
	regionImage regionKind = iota
	regionPrev
	regionNext
	regionOverlayClose
	regionOverlayImage
)

// hitRegion is a clickable rectangle. Page regions use content lines, overlay
// regions use screen rows.
type hitRegion struct {
	kind    regionKind
	project int
	top     int
	bottom  int
	left    int
	right   int
}

func (r hitRegion) contains(x, y int) bool {
	return y >= r.top && y < r.bottom && x >= r.left && x < r.right
}

type navRegion struct {
	id    string
	left  int
	right int
}

// pressOrigin remembers where a mouse drag started.
type pressOrigin struct {
	kind    regionKind
	project int
	x       int
	// backdrop presses close the overlay on release.
	backdrop bool
}

type imagesLoadedMsg struct {
	results map[string]media.Result
	err     error
}

type contactResultMsg struct {
	err error
}

type contactResetMsg struct {
	seq int
}

type resumeLoadedMsg struct {
	doc *resume.Document
	err error
}

type contentReloadedMsg struct {
	portfolio *content.Portfolio
	err       error
}

// ContentReloaded wraps a watcher callback result as a message for the
// running program.
func ContentReloaded(p *content.Portfolio, err error) tea.Msg {
	return contentReloadedMsg{portfolio: p, err: err}
}
