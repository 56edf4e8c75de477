package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/folio/internal/content"
	"github.com/csheth/folio/internal/reveal"
)

type pageLayout struct {
	windowWidth    int
	windowHeight   int
	viewportWidth  int
	viewportHeight int
}

func newPageLayout() pageLayout {
	return pageLayout{
		windowWidth:    80,
		windowHeight:   24,
		viewportWidth:  80,
		viewportHeight: 24 - headerHeight - footerHeight,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	l.viewportWidth = width
	if l.viewportWidth < minViewportWidth {
		l.viewportWidth = minViewportWidth
	}
	l.viewportHeight = height - headerHeight - footerHeight
	if l.viewportHeight < 4 {
		l.viewportHeight = 4
	}
}

// pageView is one rendering of the scrolling page.
type pageView struct {
	content      string
	lineCount    int
	anchors      map[string]int
	spans        map[string]reveal.Span
	projectLines []int
	regions      []hitRegion
	// hidden records which sections were drawn dimmed.
	hidden map[string]bool
}

type contentBuilder struct {
	builder strings.Builder
	lines   int
}

func (cb *contentBuilder) WriteString(s string) {
	cb.builder.WriteString(s)
	cb.lines += strings.Count(s, "\n")
}

func (cb *contentBuilder) WriteRune(r rune) {
	cb.builder.WriteRune(r)
	if r == '\n' {
		cb.lines++
	}
}

// WriteLine writes s followed by a newline.
func (cb *contentBuilder) WriteLine(s string) {
	cb.WriteString(s)
	cb.WriteRune('\n')
}

func (cb *contentBuilder) String() string {
	return cb.builder.String()
}

func (cb *contentBuilder) Line() int {
	return cb.lines
}

// sectionIDs lists the sections that have something to show, in page order.
func (m *model) sectionIDs() []string {
	p := m.portfolio
	ids := make([]string, 0, len(content.SectionOrder))
	for _, id := range content.SectionOrder {
		switch id {
		case content.SectionAbout:
			if strings.TrimSpace(p.About) == "" && len(p.Principles) == 0 {
				continue
			}
		case content.SectionStack:
			if len(p.Stack) == 0 {
				continue
			}
		case content.SectionProcess:
			if len(p.Process) == 0 {
				continue
			}
		case content.SectionProjects:
			if len(p.Projects) == 0 {
				continue
			}
		case content.SectionWork:
			if len(p.Experience) == 0 {
				continue
			}
		case content.SectionTestimonials:
			if len(p.Testimonials) == 0 {
				continue
			}
		case content.SectionResume:
			if strings.TrimSpace(m.config.ResumePath) == "" {
				continue
			}
		}
		ids = append(ids, id)
	}
	return ids
}

func (m *model) buildPage() pageView {
	view := pageView{
		anchors:      map[string]int{},
		spans:        map[string]reveal.Span{},
		projectLines: make([]int, len(m.portfolio.Projects)),
		hidden:       map[string]bool{},
	}
	cb := &contentBuilder{}
	for _, id := range m.sectionIDs() {
		start := cb.Line()
		section := &contentBuilder{}
		regions := m.writeSection(section, id, &view)
		text := strings.TrimRight(section.String(), "\n")
		if !m.reveals.Visible(id) {
			text = dimLines(text)
			view.hidden[id] = true
			regions = nil
		}
		cb.WriteLine(text)
		view.anchors[id] = start
		view.spans[id] = reveal.Span{Top: start, Bottom: cb.Line()}
		for _, r := range regions {
			r.top += start
			r.bottom += start
			view.regions = append(view.regions, r)
		}
		if id == content.SectionProjects {
			for i := range view.projectLines {
				view.projectLines[i] += start
			}
		}
		cb.WriteRune('\n')
	}
	m.writeFooter(cb)
	view.content = strings.TrimRight(cb.String(), "\n")
	view.lineCount = strings.Count(view.content, "\n") + 1
	return view
}

// writeSection renders one section and returns its clickable regions with
// lines relative to the section start.
func (m *model) writeSection(cb *contentBuilder, id string, view *pageView) []hitRegion {
	if id != content.SectionIntro {
		cb.WriteLine(sectionHeaderStyle.Render(m.sectionTitle(id)))
		cb.WriteLine(ruleStyle.Render(strings.Repeat("─", min(m.wrapWidth(0), 48))))
	}
	switch id {
	case content.SectionIntro:
		m.writeIntro(cb)
	case content.SectionAbout:
		m.writeAbout(cb)
	case content.SectionStack:
		m.writeStack(cb)
	case content.SectionProcess:
		m.writeProcess(cb)
	case content.SectionProjects:
		return m.writeProjects(cb, view)
	case content.SectionWork:
		m.writeWork(cb)
	case content.SectionTestimonials:
		m.writeTestimonials(cb)
	case content.SectionResume:
		m.writeResume(cb)
	case content.SectionContact:
		m.writeContact(cb)
	}
	return nil
}

func (m *model) sectionTitle(id string) string {
	for _, link := range m.portfolio.Navigation {
		if link.ID == id && link.Label != "" {
			return link.Label
		}
	}
	switch id {
	case content.SectionAbout:
		return "About"
	case content.SectionStack:
		return "Tech Stack"
	case content.SectionProcess:
		return "How I Work"
	case content.SectionProjects:
		return "Projects"
	case content.SectionWork:
		return "Experience"
	case content.SectionTestimonials:
		return "Testimonials"
	case content.SectionResume:
		return "Résumé"
	case content.SectionContact:
		return "Contact"
	default:
		return id
	}
}

func (m *model) writeIntro(cb *contentBuilder) {
	site := m.portfolio.Site
	cb.WriteRune('\n')
	cb.WriteLine(heroBoxStyle.Render(heroTitleStyle.Render(site.Name) + "\n" + subtitleStyle.Render(site.Title)))
	if site.Tagline != "" {
		cb.WriteLine(taglineStyle.Render(wordwrap.String(site.Tagline, m.wrapWidth(2))))
	}
	if site.Description != "" {
		cb.WriteRune('\n')
		cb.WriteLine(wordwrap.String(site.Description, m.wrapWidth(2)))
	}
	if links := m.socialLine(); links != "" {
		cb.WriteRune('\n')
		cb.WriteLine(links)
	}
}

func (m *model) socialLine() string {
	var parts []string
	for _, link := range m.portfolio.Social {
		parts = append(parts, linkStyle.Render(link.Label)+helperStyle.Render(" "+link.Href))
	}
	if m.portfolio.Site.Email != "" {
		parts = append(parts, linkStyle.Render("Email")+helperStyle.Render(" "+m.portfolio.Site.Email))
	}
	return strings.Join(parts, "   ")
}

func (m *model) writeAbout(cb *contentBuilder) {
	if about := strings.TrimSpace(m.portfolio.About); about != "" {
		cb.WriteLine(m.markdown.Render(about, m.wrapWidth(0)))
	}
	if len(m.portfolio.Principles) == 0 {
		return
	}
	cb.WriteRune('\n')
	cb.WriteLine(subtitleStyle.Render("Key principles"))
	wrap := m.wrapWidth(6)
	for _, principle := range m.portfolio.Principles {
		icon := principle.Icon
		if icon == "" {
			icon = "•"
		}
		cb.WriteLine(" " + icon + " " + accentStyle(principle.Accent).Render(principle.Title))
		if principle.Description != "" {
			cb.WriteLine(indent.String(wordwrap.String(principle.Description, wrap), 4))
		}
	}
}

func (m *model) writeStack(cb *contentBuilder) {
	wrap := m.wrapWidth(4)
	for i, category := range m.portfolio.Stack {
		if i > 0 {
			cb.WriteRune('\n')
		}
		cb.WriteLine(accentStyle(category.Accent).Render(category.Title))
		cb.WriteLine(indent.String(wordwrap.String(strings.Join(category.Skills, " · "), wrap), 2))
	}
}

func (m *model) writeProcess(cb *contentBuilder) {
	wrap := m.wrapWidth(6)
	for _, step := range m.portfolio.Process {
		number := step.Number
		if number == "" {
			number = "--"
		}
		cb.WriteLine(accentStyle(step.Accent).Render(number) + "  " + subtitleStyle.Render(step.Title))
		if step.Description != "" {
			cb.WriteLine(indent.String(wordwrap.String(step.Description, wrap), 4))
		}
	}
}

// writeProjects renders every project card. Image boxes sit beside the text
// on wide terminals and below it otherwise.
func (m *model) writeProjects(cb *contentBuilder, view *pageView) []hitRegion {
	var regions []hitRegion
	cols, rows := inlineImageCols, inlineImageRows
	textWidth := m.wrapWidth(0) - cols - 4
	sideBySide := textWidth >= 30

	for idx, project := range m.portfolio.Projects {
		if idx > 0 {
			cb.WriteRune('\n')
		}
		view.projectLines[idx] = cb.Line()
		ctrl := m.galleries[idx]
		focused := idx == m.focusedProject

		textBlock := m.projectText(project, focused, textWidth, sideBySide)
		ref, _ := ctrl.Current()
		art := m.images.Lines(ref, cols, rows)
		controls, prev, next := galleryControls(ctrl, focused)
		imageBlock := strings.Join(append(append([]string{}, art...), controls), "\n")

		top := cb.Line()
		imageTop, imageLeft := top, 2
		if sideBySide {
			left, right := imageBlock, lipgloss.NewStyle().Width(textWidth).Render(textBlock)
			imageLeft = 0
			if project.Direction == "right" {
				left, right = right, imageBlock
				imageLeft = textWidth + 4
			}
			cb.WriteLine(lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right))
		} else {
			cb.WriteLine(textBlock)
			cb.WriteRune('\n')
			imageTop = cb.Line()
			cb.WriteLine(indent.String(imageBlock, 2))
		}

		regions = append(regions, hitRegion{
			kind: regionImage, project: idx,
			top: imageTop, bottom: imageTop + len(art),
			left: imageLeft, right: imageLeft + cols,
		})
		if ctrl.Navigable() {
			row := imageTop + len(art)
			regions = append(regions,
				hitRegion{kind: regionPrev, project: idx, top: row, bottom: row + 1, left: imageLeft + prev[0], right: imageLeft + prev[1]},
				hitRegion{kind: regionNext, project: idx, top: row, bottom: row + 1, left: imageLeft + next[0], right: imageLeft + next[1]},
			)
		}
	}
	return regions
}

func (m *model) projectText(project content.Project, focused bool, width int, sideBySide bool) string {
	if !sideBySide {
		width = m.wrapWidth(0)
	}
	marker := "  "
	titleStyle := projectTitleStyle
	if focused {
		marker = "▸ "
		titleStyle = projectFocusedStyle
	}
	lines := []string{marker + titleStyle.Render(project.Title)}
	if len(project.Tags) > 0 {
		tags := make([]string, len(project.Tags))
		for i, tag := range project.Tags {
			tags[i] = tagStyle.Render(tag)
		}
		lines = append(lines, "  "+wordwrap.String(strings.Join(tags, " "), width-2))
	}
	if desc := strings.TrimSpace(project.Description); desc != "" {
		lines = append(lines, m.markdown.Render(desc, width))
	}
	return strings.Join(lines, "\n")
}

func (m *model) writeWork(cb *contentBuilder) {
	wrap := m.wrapWidth(8)
	for i, job := range m.portfolio.Experience {
		if i > 0 {
			cb.WriteLine(timelineStyle.Render("  │"))
		}
		heading := yearStyle.Render(job.Year) + timelineStyle.Render(" ● ") + subtitleStyle.Render(job.Title)
		if job.Company != "" {
			heading += helperStyle.Render(" @ " + job.Company)
		}
		cb.WriteLine(heading)
		if job.Description != "" {
			cb.WriteLine(indent.String(wordwrap.String(job.Description, wrap), 6))
		}
		if len(job.Tags) > 0 {
			cb.WriteLine(indent.String(helperStyle.Render(strings.Join(job.Tags, " · ")), 6))
		}
	}
}

func (m *model) writeTestimonials(cb *contentBuilder) {
	wrap := m.wrapWidth(6)
	for i, t := range m.portfolio.Testimonials {
		if i > 0 {
			cb.WriteRune('\n')
		}
		quote := quoteStyle.BorderForeground(accentColor(t.Accent)).Render(wordwrap.String("“"+t.Quote+"”", wrap))
		cb.WriteLine(quote)
		attribution := "— " + t.Author
		if t.Role != "" || t.Company != "" {
			attribution += ", " + strings.TrimSpace(strings.Join(nonEmpty(t.Role, t.Company), " at "))
		}
		cb.WriteLine(helperStyle.Render("  " + attribution))
	}
}

func (m *model) writeResume(cb *contentBuilder) {
	switch {
	case m.resumeLoading:
		cb.WriteLine(helperStyle.Render(fmt.Sprintf("%s Reading résumé…", m.spinner.View())))
	case m.resumeErr != nil:
		cb.WriteLine(errorStyle.Render("Résumé unavailable: " + m.resumeErr.Error()))
	case m.resume != nil:
		cb.WriteLine(helperStyle.Render(fmt.Sprintf("%s · %d page(s)", m.resume.Source, m.resume.Pages)))
		cb.WriteLine(wordwrap.String(m.resume.Excerpt(resumeWordLimit), m.wrapWidth(2)))
	default:
		cb.WriteLine(helperStyle.Render("Résumé not loaded."))
	}
}

func (m *model) writeFooter(cb *contentBuilder) {
	cb.WriteLine(ruleStyle.Render(strings.Repeat("─", m.wrapWidth(0))))
	footer := m.portfolio.Site.Footer
	if footer == "" {
		footer = m.portfolio.Site.Name
	}
	cb.WriteLine(helperStyle.Render(footer))
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func stripANSI(text string) string {
	return ansi.Strip(text)
}

// dimLines redraws text faint, keeping its line count so spans and anchors
// stay valid once the section is revealed.
func dimLines(text string) string {
	lines := strings.Split(stripANSI(text), "\n")
	for i, line := range lines {
		lines[i] = hiddenStyle.Render(line)
	}
	return strings.Join(lines, "\n")
}

func (m *model) wrapWidth(padding int) int {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	if padding < 0 {
		padding = 0
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}
