package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/csheth/folio/internal/contact"
	"github.com/csheth/folio/internal/content"
	"github.com/csheth/folio/internal/gallery"
	"github.com/csheth/folio/internal/media"
	"github.com/csheth/folio/internal/resume"
	"github.com/csheth/folio/internal/reveal"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Portfolio *content.Portfolio
	Loader    *media.Loader
	Contact   *contact.Client
	Logger    *zap.Logger

	// Images are decoded images available before the program starts.
	Images map[string]media.Result

	ResumePath    string
	ResumeFetcher resume.Fetcher

	DragThreshold int
	RevealMargin  int
	// DisableReveal draws every section in full instead of dimming the ones
	// not yet scrolled into view.
	DisableReveal bool
	PreloadLimit  int
	MarkdownStyle string
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	return newModel(config)
}

func newModel(config Config) *model {
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	if config.Portfolio == nil {
		config.Portfolio = &content.Portfolio{}
	}
	if config.DragThreshold <= 0 {
		config.DragThreshold = gallery.DefaultDragThreshold
	}

	paletteInput := textinput.New()
	paletteInput.Placeholder = "Filter projects and sections…"
	paletteInput.CharLimit = 80
	paletteInput.Width = 50

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	layout := newPageLayout()
	vp := viewport.New(layout.viewportWidth, layout.viewportHeight)
	vp.MouseWheelEnabled = true

	m := &model{
		config:         config,
		logger:         config.Logger,
		stage:          stageDisplay,
		layout:         layout,
		viewport:       vp,
		spinner:        spin,
		paletteInput:   paletteInput,
		contact:        newContactForm(),
		jobs:           newJobBus(config.Logger),
		activeJobs:     map[string]jobSnapshot{},
		lock:           &pageScrollLock{},
		images:         newImageStore(),
		markdown:       newMarkdownRenderer(config.MarkdownStyle),
		reveals:        reveal.NewTracker(config.RevealMargin),
		focusedProject: 0,
		viewportDirty:  true,
		resumeLoading:  strings.TrimSpace(config.ResumePath) != "",
	}
	m.images.Add(config.Images)
	m.applyPortfolio(config.Portfolio)
	m.infoMessage = "Scroll with ↑/↓, press ? for keys."
	return m
}

type model struct {
	config Config
	logger *zap.Logger
	stage  stage
	layout pageLayout

	viewport     viewport.Model
	spinner      spinner.Model
	paletteInput textinput.Model
	contact      contactForm

	jobs       *jobBus
	activeJobs map[string]jobSnapshot

	portfolio      *content.Portfolio
	galleries      []*gallery.Controller
	focusedProject int
	lock           *pageScrollLock
	images         *imageStore
	markdown       *markdownRenderer
	reveals        *reveal.Tracker

	resume        *resume.Document
	resumeErr     error
	resumeLoading bool

	page           pageView
	viewportDirty  bool
	overlayRegions []hitRegion
	navRegions     []navRegion
	hoverNav       string
	press          *pressOrigin

	paletteEntries []paletteEntry
	paletteMatches []paletteEntry
	paletteCursor  int

	infoMessage  string
	errorMessage string
	helpVisible  bool
}

func (m *model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if cmd := m.preloadCmd(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.resumeLoading {
		cmds = append(cmds, m.jobs.Start(jobKindResume, loadResumeJob(m.config.ResumePath, m.config.ResumeFetcher)))
	}
	if len(cmds) > 0 {
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	m.refreshViewportIfDirty()
	return next, cmd
}

func (m *model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.viewport.Width = m.layout.viewportWidth
		m.viewport.Height = m.layout.viewportHeight
		m.markViewportDirty()
		return m, nil
	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			m.markViewportDirty()
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.releaseGalleries()
			return m, tea.Quit
		}
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	case jobSignalMsg:
		m.activeJobs[msg.Snapshot.ID] = msg.Snapshot
		return m, nil
	case jobResultEnvelope:
		delete(m.activeJobs, msg.Snapshot.ID)
		if msg.Payload == nil {
			return m, nil
		}
		return m.update(msg.Payload)
	case imagesLoadedMsg:
		m.images.Add(msg.results)
		failed := 0
		for _, res := range msg.results {
			if res.Err != nil {
				failed++
			}
		}
		if failed > 0 {
			m.infoMessage = fmt.Sprintf("%d image(s) could not be loaded.", failed)
		}
		m.markViewportDirty()
		return m, nil
	case resumeLoadedMsg:
		m.resumeLoading = false
		m.resume = msg.doc
		m.resumeErr = msg.err
		m.markViewportDirty()
		return m, nil
	case contactResultMsg:
		return m, m.finishContact(msg.err)
	case contactResetMsg:
		if msg.seq == m.contact.seq && !m.contact.Busy() {
			m.contact.status = contact.StatusIdle
			m.contact.notice = ""
			m.markViewportDirty()
		}
		return m, nil
	case contentReloadedMsg:
		if msg.err != nil {
			m.errorMessage = "Content reload failed: " + msg.err.Error()
			return m, nil
		}
		m.errorMessage = ""
		m.applyPortfolio(msg.portfolio)
		m.infoMessage = "Content reloaded."
		return m, m.preloadCmd()
	}
	return m, nil
}

func (m *model) busy() bool {
	return len(m.activeJobs) > 0 || m.contact.Busy() || m.resumeLoading
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	// An open lightbox owns the keyboard.
	if idx := m.openGallery(); idx >= 0 {
		m.handleOverlayKey(idx, key)
		return m, nil
	}
	switch m.stage {
	case stagePalette:
		return m.handlePaletteKey(key)
	case stageContact:
		return m.handleContactKey(key)
	default:
		return m.handleDisplayKey(key)
	}
}

func (m *model) handleOverlayKey(idx int, key tea.KeyMsg) {
	ctrl := m.galleries[idx]
	switch key.String() {
	case "left", "h":
		ctrl.HandleKey(gallery.KeyLeft)
	case "right", "l":
		ctrl.HandleKey(gallery.KeyRight)
	case "esc", "q":
		ctrl.HandleKey(gallery.KeyEscape)
		m.press = nil
		m.markViewportDirty()
	}
}

func (m *model) handleDisplayKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q":
		m.releaseGalleries()
		return m, tea.Quit
	case "esc":
		m.helpVisible = false
		m.errorMessage = ""
	case "?":
		m.helpVisible = !m.helpVisible
	case "up", "k":
		m.scrollBy(-1)
	case "down", "j":
		m.scrollBy(1)
	case "pgup", "b":
		m.scrollBy(-m.viewport.Height)
	case "pgdown", "f", " ":
		m.scrollBy(m.viewport.Height)
	case "g", "home":
		m.scrollTo(0)
	case "G", "end":
		m.scrollTo(m.page.lineCount)
	case "tab":
		m.jumpToRelativeSection(1)
	case "shift+tab":
		m.jumpToRelativeSection(-1)
	case "]":
		m.cycleProject(1)
	case "[":
		m.cycleProject(-1)
	case ">", ".":
		if ctrl := m.focusedGallery(); ctrl != nil {
			ctrl.Next()
			m.markViewportDirty()
		}
	case "<", ",":
		if ctrl := m.focusedGallery(); ctrl != nil {
			ctrl.Previous()
			m.markViewportDirty()
		}
	case "enter", "o":
		m.openFocused()
	case "/":
		m.openPalette()
		return m, textinput.Blink
	case "c":
		m.jumpToSection(content.SectionContact)
		m.stage = stageContact
		m.markViewportDirty()
		return m, m.contact.Focus()
	default:
		if n := key.String(); len(n) == 1 && n[0] >= '1' && n[0] <= '9' {
			m.jumpToNav(int(n[0] - '1'))
		}
	}
	return m, nil
}

func (m *model) handlePaletteKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.closePalette()
		return m, nil
	case tea.KeyEnter:
		m.applyPaletteSelection()
		return m, nil
	case tea.KeyUp, tea.KeyCtrlP:
		m.movePaletteCursor(-1)
		return m, nil
	case tea.KeyDown, tea.KeyCtrlN, tea.KeyTab:
		m.movePaletteCursor(1)
		return m, nil
	}
	var cmd tea.Cmd
	m.paletteInput, cmd = m.paletteInput.Update(key)
	m.refreshPaletteMatches()
	return m, cmd
}

func (m *model) handleContactKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.stage = stageDisplay
		m.contact.Blur()
		m.markViewportDirty()
		return m, nil
	case "tab", "down":
		if key.String() == "down" && m.contact.focus == fieldMessage {
			break
		}
		m.markViewportDirty()
		return m, m.contact.Cycle(1)
	case "shift+tab", "up":
		if key.String() == "up" && m.contact.focus == fieldMessage {
			break
		}
		m.markViewportDirty()
		return m, m.contact.Cycle(-1)
	case "ctrl+s":
		return m, m.submitContact()
	case "enter":
		if m.contact.focus != fieldMessage {
			m.markViewportDirty()
			return m, m.contact.Cycle(1)
		}
	}
	cmd := m.contact.Update(key)
	m.markViewportDirty()
	return m, cmd
}

func (m *model) submitContact() tea.Cmd {
	if m.contact.Busy() {
		return nil
	}
	form := m.contact.Form()
	m.contact.seq++
	if err := form.Validate(); err != nil {
		m.contact.status = contact.StatusError
		m.contact.notice = "Please check the form: " + err.Error() + "."
		m.markViewportDirty()
		return contactResetCmd(m.contact.seq)
	}
	m.contact.status = contact.StatusSubmitting
	m.contact.notice = ""
	m.markViewportDirty()
	return tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindContact, submitContactJob(m.config.Contact, form)))
}

func (m *model) finishContact(err error) tea.Cmd {
	m.contact.seq++
	if err != nil {
		m.logger.Warn("contact form failed", zap.Error(err))
		m.contact.status = contact.StatusError
		m.contact.notice = contactErrorText(err)
	} else {
		m.contact.status = contact.StatusSuccess
		m.contact.notice = "Message sent! I'll get back to you soon."
		m.contact.Clear()
	}
	m.markViewportDirty()
	return contactResetCmd(m.contact.seq)
}

// handleMouse routes presses and releases to the gallery under the pointer.
func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if idx := m.openGallery(); idx >= 0 {
		m.handleOverlayMouse(idx, msg)
		return nil
	}
	if m.stage == stagePalette {
		return nil
	}
	if tea.MouseEvent(msg).IsWheel() {
		if m.lock.Locked() {
			return nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		m.observeReveal()
		return cmd
	}
	if msg.Y < headerHeight {
		m.handleNavMouse(msg)
		return nil
	}
	m.hoverNav = ""
	if m.helpVisible {
		return nil
	}
	line := msg.Y - headerHeight + m.viewport.YOffset
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		region, ok := m.pageRegionAt(msg.X, line)
		if !ok {
			m.press = nil
			return nil
		}
		switch region.kind {
		case regionPrev:
			m.focusProject(region.project)
			m.galleries[region.project].Previous()
			m.markViewportDirty()
		case regionNext:
			m.focusProject(region.project)
			m.galleries[region.project].Next()
			m.markViewportDirty()
		case regionImage:
			m.press = &pressOrigin{kind: regionImage, project: region.project, x: msg.X}
		}
	case tea.MouseActionRelease:
		press := m.press
		m.press = nil
		if press == nil || press.backdrop || press.kind != regionImage {
			return nil
		}
		m.focusProject(press.project)
		m.galleries[press.project].Pointer(msg.X - press.x)
		m.markViewportDirty()
	}
	return nil
}

func (m *model) handleOverlayMouse(idx int, msg tea.MouseMsg) {
	ctrl := m.galleries[idx]
	if tea.MouseEvent(msg).IsWheel() {
		return
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		region, ok := m.overlayRegionAt(msg.X, msg.Y)
		switch {
		case ok && region.kind == regionOverlayClose:
			m.press = nil
			ctrl.Close()
			m.markViewportDirty()
		case ok && region.kind == regionOverlayImage:
			m.press = &pressOrigin{kind: regionOverlayImage, project: idx, x: msg.X}
		default:
			m.press = &pressOrigin{project: idx, x: msg.X, backdrop: true}
		}
	case tea.MouseActionRelease:
		press := m.press
		m.press = nil
		if press == nil || press.project != idx {
			return
		}
		dx := msg.X - press.x
		if press.backdrop {
			if abs(dx) < ctrl.DragThreshold() {
				ctrl.Close()
				m.markViewportDirty()
			}
			return
		}
		ctrl.Pointer(dx)
	}
}

func (m *model) handleNavMouse(msg tea.MouseMsg) {
	if msg.Y != 0 {
		m.hoverNav = ""
		return
	}
	hovered := ""
	for _, region := range m.navRegions {
		if msg.X >= region.left && msg.X < region.right {
			hovered = region.id
			break
		}
	}
	m.hoverNav = hovered
	if hovered != "" && msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		m.jumpToSection(hovered)
	}
}

func (m *model) pageRegionAt(x, line int) (hitRegion, bool) {
	for _, region := range m.page.regions {
		if region.contains(x, line) {
			return region, true
		}
	}
	return hitRegion{}, false
}

func (m *model) overlayRegionAt(x, y int) (hitRegion, bool) {
	for _, region := range m.overlayRegions {
		if region.contains(x, y) {
			return region, true
		}
	}
	return hitRegion{}, false
}

// openGallery returns the index of the fullscreen gallery, or -1.
func (m *model) openGallery() int {
	for idx, ctrl := range m.galleries {
		if ctrl.IsOpen() {
			return idx
		}
	}
	return -1
}

func (m *model) focusedGallery() *gallery.Controller {
	if m.focusedProject < 0 || m.focusedProject >= len(m.galleries) {
		return nil
	}
	return m.galleries[m.focusedProject]
}

func (m *model) focusProject(idx int) {
	if idx < 0 || idx >= len(m.galleries) || idx == m.focusedProject {
		return
	}
	m.focusedProject = idx
	m.markViewportDirty()
}

func (m *model) cycleProject(delta int) {
	if len(m.galleries) == 0 {
		m.infoMessage = "No projects to browse."
		return
	}
	next := (m.focusedProject + delta + len(m.galleries)) % len(m.galleries)
	m.focusProject(next)
	m.scrollToProject(next)
	m.infoMessage = fmt.Sprintf("Focused %s.", m.portfolio.Projects[next].Title)
}

func (m *model) openFocused() {
	ctrl := m.focusedGallery()
	if ctrl == nil {
		m.infoMessage = "No projects to open."
		return
	}
	if !ctrl.Open() {
		m.infoMessage = "This project has no screenshots yet."
		return
	}
	m.press = nil
	m.markViewportDirty()
}

func (m *model) releaseGalleries() {
	for _, ctrl := range m.galleries {
		ctrl.Release()
	}
}

// applyPortfolio swaps in new content. Galleries of projects that survive
// keep their cursor, clamped to the new image count, and every overlay is
// closed.
func (m *model) applyPortfolio(p *content.Portfolio) {
	existing := map[string]*gallery.Controller{}
	if m.portfolio != nil {
		for idx, project := range m.portfolio.Projects {
			if idx < len(m.galleries) {
				existing[project.ID] = m.galleries[idx]
			}
		}
	}
	galleries := make([]*gallery.Controller, len(p.Projects))
	for idx, project := range p.Projects {
		if ctrl, ok := existing[project.ID]; ok {
			ctrl.Close()
			ctrl.Replace(project.ImageRefs())
			galleries[idx] = ctrl
			delete(existing, project.ID)
			continue
		}
		galleries[idx] = gallery.New(project.ImageRefs(),
			gallery.WithDragThreshold(m.config.DragThreshold),
			gallery.WithScrollLock(m.lock))
	}
	for _, ctrl := range existing {
		ctrl.Release()
	}
	m.portfolio = p
	m.galleries = galleries
	if m.focusedProject >= len(galleries) {
		m.focusedProject = len(galleries) - 1
	}
	if m.focusedProject < 0 {
		m.focusedProject = 0
	}
	if m.config.Loader != nil && p.Assets != nil {
		m.config.Loader = m.config.Loader.WithAssets(p.Assets)
	}
	m.press = nil
	m.reveals.Reset()
	m.markViewportDirty()
}

func (m *model) imageRefs() []string {
	var refs []string
	for _, ctrl := range m.galleries {
		refs = append(refs, ctrl.Images()...)
	}
	return refs
}

func (m *model) preloadCmd() tea.Cmd {
	if m.config.Loader == nil {
		return nil
	}
	missing := m.images.Missing(m.imageRefs())
	if len(missing) == 0 {
		return nil
	}
	return m.jobs.Start(jobKindPreload, preloadImagesJob(m.config.Loader, missing, m.config.PreloadLimit))
}

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}

func (m *model) refreshViewportIfDirty() {
	if m.viewportDirty {
		m.refreshViewport()
	}
}

// refreshViewport rebuilds the page. Revealing a section never changes line
// counts, so a second pass is only needed to draw newly revealed sections.
func (m *model) refreshViewport() {
	m.viewportDirty = false
	for pass := 0; pass < 2; pass++ {
		m.page = m.buildPage()
		m.viewport.SetContent(m.page.content)
		m.viewport.SetYOffset(m.clampYOffset(m.viewport.YOffset))
		m.reveals.SetSpans(m.page.spans)
		if m.config.DisableReveal {
			m.reveals.RevealAll()
		}
		m.reveals.Observe(m.viewport.YOffset, m.viewport.YOffset+m.viewport.Height)
		if !m.revealChanged() {
			return
		}
	}
}

func (m *model) revealChanged() bool {
	for id := range m.page.spans {
		if m.page.hidden[id] == m.reveals.Visible(id) {
			return true
		}
	}
	return false
}

// observeReveal latches sections scrolled into view and redraws if any
// flipped.
func (m *model) observeReveal() {
	if revealed := m.reveals.Observe(m.viewport.YOffset, m.viewport.YOffset+m.viewport.Height); len(revealed) > 0 {
		m.logger.Debug("sections revealed", zap.Strings("sections", revealed))
		m.markViewportDirty()
	}
}

func (m *model) clampYOffset(offset int) int {
	maxOffset := m.page.lineCount - m.viewport.Height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset < 0 {
		return 0
	}
	if offset > maxOffset {
		return maxOffset
	}
	return offset
}

// scrollBy and scrollTo are the only ways keys move the page; both respect
// the lightbox scroll lock.
func (m *model) scrollBy(delta int) {
	m.scrollTo(m.viewport.YOffset + delta)
}

func (m *model) scrollTo(line int) {
	if m.lock.Locked() {
		return
	}
	m.refreshViewportIfDirty()
	m.viewport.SetYOffset(m.clampYOffset(line))
	m.observeReveal()
}

func (m *model) jumpToSection(id string) {
	m.refreshViewportIfDirty()
	line, ok := m.page.anchors[id]
	if !ok {
		m.infoMessage = "Section unavailable."
		return
	}
	m.scrollTo(line)
	m.infoMessage = fmt.Sprintf("Jumped to %s.", m.sectionTitle(id))
}

func (m *model) jumpToNav(idx int) {
	links := m.portfolio.Navigation
	if idx < 0 || idx >= len(links) {
		return
	}
	m.jumpToSection(links[idx].ID)
}

func (m *model) jumpToRelativeSection(delta int) {
	ids := m.sectionIDs()
	if len(ids) == 0 {
		return
	}
	current := m.activeSection()
	pos := 0
	for i, id := range ids {
		if id == current {
			pos = i
			break
		}
	}
	pos += delta
	if pos < 0 {
		pos = 0
	}
	if pos >= len(ids) {
		pos = len(ids) - 1
	}
	m.jumpToSection(ids[pos])
}

func (m *model) scrollToProject(idx int) {
	m.refreshViewportIfDirty()
	if idx < 0 || idx >= len(m.page.projectLines) {
		return
	}
	m.scrollTo(m.page.projectLines[idx])
}

// activeSection is the last section whose anchor is at or above the top of
// the viewport.
func (m *model) activeSection() string {
	active := ""
	for _, id := range m.sectionIDs() {
		line, ok := m.page.anchors[id]
		if !ok {
			continue
		}
		if line <= m.viewport.YOffset+1 || active == "" {
			active = id
		}
	}
	if m.viewport.AtBottom() && m.page.lineCount > m.viewport.Height {
		ids := m.sectionIDs()
		if len(ids) > 0 {
			active = ids[len(ids)-1]
		}
	}
	return active
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
