package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"github.com/csheth/folio/internal/content"
)

func (m *model) View() string {
	m.refreshViewportIfDirty()
	if idx := m.openGallery(); idx >= 0 {
		return m.overlayView(idx)
	}
	body := m.viewport.View()
	switch {
	case m.stage == stagePalette:
		body = m.framed(m.viewPalette())
	case m.helpVisible:
		body = m.framed(m.keyLegendView())
	}
	return strings.Join([]string{m.headerView(), body, m.footerView()}, "\n")
}

// framed pads body to the viewport height so the footer never moves.
func (m *model) framed(body string) string {
	return lipgloss.NewStyle().Height(m.viewport.Height).MaxHeight(m.viewport.Height).Render(body)
}

// headerView draws the nav bar and records where each label sits.
func (m *model) headerView() string {
	width := m.layout.windowWidth
	active := m.activeSection()
	name := brandStyle.Render(m.portfolio.Site.Name)
	col := lipgloss.Width(name) + 2
	parts := []string{name, " "}
	m.navRegions = m.navRegions[:0]
	for _, link := range m.portfolio.Navigation {
		style := navStyle
		switch {
		case link.ID == m.hoverNav:
			style = navHoverStyle
		case link.ID == active:
			style = navActiveStyle
		}
		label := style.Render(link.Label)
		w := lipgloss.Width(label)
		if col+w > width {
			break
		}
		m.navRegions = append(m.navRegions, navRegion{id: link.ID, left: col, right: col + w})
		parts = append(parts, " ", label)
		col += w + 1
	}
	bar := truncate.String(strings.Join(parts, ""), uint(max(width, 1)))
	return bar + "\n" + ruleStyle.Render(strings.Repeat("─", max(width, 1)))
}

func (m *model) footerView() string {
	stats := []string{fmt.Sprintf("%d%%", int(m.viewport.ScrollPercent()*100))}
	if ctrl := m.focusedGallery(); ctrl != nil {
		title := runewidth.Truncate(m.portfolio.Projects[m.focusedProject].Title, 28, "…")
		stats = append(stats, fmt.Sprintf("▸ %s · %s", title, describeGallery(ctrl)))
	}
	stats = append(stats, m.jobStatusBadges()...)
	status := statusBarStyle.Render(strings.Join(stats, "  •  "))

	message := helperStyle.Render(m.infoMessage)
	if m.errorMessage != "" {
		message = errorStyle.Render(m.errorMessage)
	}
	line := truncate.String(status+" "+message, uint(max(m.layout.windowWidth, 1)))
	hints := "↑/↓ scroll • [/] project • </> image • enter expand • / jump • c contact • ? keys • q quit"
	if m.stage == stageContact {
		hints = "tab next field • ctrl+s send • esc done"
	}
	return line + "\n" + helperStyle.Render(truncate.String(hints, uint(max(m.layout.windowWidth, 1))))
}

func (m *model) jobStatusBadges() []string {
	if len(m.activeJobs) == 0 {
		return nil
	}
	kinds := make([]string, 0, len(m.activeJobs))
	for _, snapshot := range m.activeJobs {
		kinds = append(kinds, string(snapshot.Kind))
	}
	sort.Strings(kinds)
	return []string{fmt.Sprintf("%s %s", m.spinner.View(), strings.Join(kinds, ", "))}
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) keyLegendView() string {
	hints := []keyHint{
		{"↑/↓", "Scroll"},
		{"tab", "Next section"},
		{"1-9", "Nav links"},
		{"[/]", "Focus project"},
		{"</>", "Prev/next image"},
		{"enter", "Expand image"},
		{"←/→", "Browse expanded"},
		{"esc", "Close expanded"},
		{"/", "Jump palette"},
		{"c", "Contact form"},
		{"g/G", "Top or bottom"},
		{"q", "Quit"},
	}
	rows := []string{sectionHeaderStyle.Render("Keys")}
	const columns = 3
	for i := 0; i < len(hints); i += columns {
		end := min(i+columns, len(hints))
		var cells []string
		for _, hint := range hints[i:end] {
			key := keyStyle.Render(hint.Key)
			desc := keyDescStyle.Width(18).Render(" " + hint.Description)
			cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, key, desc))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	rows = append(rows, "", helperStyle.Render("Drag an image sideways to swipe. Click it to expand; click outside or [x] to close."))
	return legendBoxStyle.Render(strings.Join(rows, "\n"))
}

// Render draws the whole page once, fully revealed, for non-interactive
// output. Sections start visible because no latch has been created yet.
func Render(config Config, width int) string {
	m := newModel(config)
	m.layout.Update(width, m.layout.windowHeight)
	m.viewport.Width = m.layout.viewportWidth
	return m.buildPage().content
}

func accentColor(accent content.Accent) lipgloss.Color {
	switch accent {
	case content.AccentPurple:
		return purpleColor
	case content.AccentPink:
		return pinkColor
	case content.AccentGradient:
		return gradientColor
	default:
		return cyanColor
	}
}

func accentStyle(accent content.Accent) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(accentColor(accent))
}

var (
	cyanColor     = lipgloss.Color("#22d3ee")
	purpleColor   = lipgloss.Color("#a78bfa")
	pinkColor     = lipgloss.Color("#f472b6")
	gradientColor = lipgloss.Color("#818cf8")

	sectionHeaderStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	subtitleStyle          = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("147"))
	errorStyle             = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	successStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("#a3be8c"))
	helperStyle            = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	hiddenStyle            = lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("238"))
	ruleStyle              = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	linkStyle              = lipgloss.NewStyle().Underline(true).Foreground(cyanColor)
	tagStyle               = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#334155")).Padding(0, 1)
	projectTitleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e2e8f0"))
	projectFocusedStyle    = lipgloss.NewStyle().Bold(true).Foreground(cyanColor).Underline(true)
	buttonStyle            = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	buttonFocusedStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(cyanColor)
	counterStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("#cbd5e1"))
	yearStyle              = lipgloss.NewStyle().Bold(true).Foreground(purpleColor)
	timelineStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#475569"))
	quoteStyle             = lipgloss.NewStyle().Italic(true).Border(lipgloss.ThickBorder(), false, false, false, true).PaddingLeft(1)
	fieldLabelStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	fieldFocusedLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(cyanColor)

	heroAccentColor        = lipgloss.Color("#22d3ee")
	heroEmberColor         = lipgloss.Color("#0b1120")
	heroTextColor          = lipgloss.Color("#f8fafc")
	heroSecondaryTextColor = lipgloss.Color("#a78bfa")

	heroTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(heroAccentColor)
	heroBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(heroAccentColor).Foreground(heroTextColor).Background(heroEmberColor).Padding(1, 2)
	taglineStyle   = lipgloss.NewStyle().Foreground(heroSecondaryTextColor).Italic(true)

	brandStyle     = lipgloss.NewStyle().Bold(true).Foreground(heroAccentColor)
	navStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8")).Padding(0, 1)
	navActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(cyanColor).Padding(0, 1)
	navHoverStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(purpleColor).Padding(0, 1)

	statusBarStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	keyStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	legendBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(1, 2)
	currentLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6"))

	overlayChipStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(cyanColor).Padding(0, 1)
	overlayCloseStyle    = lipgloss.NewStyle().Bold(true).Foreground(pinkColor)
	overlayBackdropStyle = lipgloss.NewStyle()
)
