package tui

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/csheth/folio/internal/content"
)

type paletteEntry struct {
	label   string
	detail  string
	section string
	// project is -1 for section entries.
	project int
}

func (m *model) buildPaletteEntries() []paletteEntry {
	var entries []paletteEntry
	for idx, project := range m.portfolio.Projects {
		entries = append(entries, paletteEntry{
			label:   project.Title,
			detail:  strings.Join(project.Tags, ", "),
			section: content.SectionProjects,
			project: idx,
		})
	}
	for _, id := range m.sectionIDs() {
		entries = append(entries, paletteEntry{
			label:   m.sectionTitle(id),
			detail:  "section",
			section: id,
			project: -1,
		})
	}
	return entries
}

// filterPalette ranks entries by fuzzy match against the query. An empty
// query keeps page order.
func filterPalette(entries []paletteEntry, query string) []paletteEntry {
	query = strings.TrimSpace(query)
	if query == "" {
		return append([]paletteEntry(nil), entries...)
	}
	labels := make([]string, len(entries))
	for i, entry := range entries {
		labels[i] = entry.label
	}
	matches := fuzzy.Find(query, labels)
	out := make([]paletteEntry, len(matches))
	for i, match := range matches {
		out[i] = entries[match.Index]
	}
	return out
}

func (m *model) openPalette() {
	m.stage = stagePalette
	m.paletteEntries = m.buildPaletteEntries()
	m.paletteInput.SetValue("")
	m.paletteInput.Focus()
	m.paletteMatches = filterPalette(m.paletteEntries, "")
	m.paletteCursor = 0
}

func (m *model) closePalette() {
	m.stage = stageDisplay
	m.paletteInput.Blur()
	m.paletteInput.SetValue("")
}

func (m *model) refreshPaletteMatches() {
	m.paletteMatches = filterPalette(m.paletteEntries, m.paletteInput.Value())
	if m.paletteCursor >= len(m.paletteMatches) {
		m.paletteCursor = len(m.paletteMatches) - 1
	}
	if m.paletteCursor < 0 {
		m.paletteCursor = 0
	}
}

func (m *model) movePaletteCursor(delta int) {
	if len(m.paletteMatches) == 0 {
		return
	}
	m.paletteCursor = (m.paletteCursor + delta + len(m.paletteMatches)) % len(m.paletteMatches)
}

func (m *model) applyPaletteSelection() {
	if len(m.paletteMatches) == 0 {
		m.closePalette()
		m.infoMessage = "Nothing matches that filter."
		return
	}
	entry := m.paletteMatches[m.paletteCursor]
	m.closePalette()
	if entry.project >= 0 {
		m.focusProject(entry.project)
		m.scrollToProject(entry.project)
		m.infoMessage = fmt.Sprintf("Focused %s.", entry.label)
		return
	}
	m.jumpToSection(entry.section)
}

func (m *model) viewPalette() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render("Jump to"))
	b.WriteRune('\n')
	b.WriteString(m.paletteInput.View())
	b.WriteRune('\n')
	b.WriteString(helperStyle.Render("Type to filter, ↑/↓ to choose, Enter to jump, Esc to cancel."))
	b.WriteRune('\n')
	b.WriteRune('\n')
	if len(m.paletteMatches) == 0 {
		b.WriteString(helperStyle.Render("No projects or sections match this filter."))
		return b.String()
	}
	for idx, entry := range m.paletteMatches {
		label := "  " + entry.label
		if idx == m.paletteCursor {
			label = currentLineStyle.Render("▸ " + entry.label)
		}
		b.WriteString(label)
		if entry.detail != "" {
			b.WriteString(helperStyle.Render("   " + entry.detail))
		}
		b.WriteRune('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
