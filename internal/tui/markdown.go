package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wordwrap"
)

// markdownRenderer renders markdown through glamour, caching results by
// source and width. Render failures fall back to wrapped plain text.
type markdownRenderer struct {
	style     string
	renderers map[int]*glamour.TermRenderer
	cache     map[string]string
}

func newMarkdownRenderer(style string) *markdownRenderer {
	if strings.TrimSpace(style) == "" {
		style = "dark"
	}
	return &markdownRenderer{
		style:     style,
		renderers: map[int]*glamour.TermRenderer{},
		cache:     map[string]string{},
	}
}

func (r *markdownRenderer) Render(md string, width int) string {
	if md == "" {
		return ""
	}
	key := fmt.Sprintf("%d:%s", width, md)
	if cached, ok := r.cache[key]; ok {
		return cached
	}
	renderer, err := r.renderer(width)
	if err != nil {
		return wordwrap.String(md, width)
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		return wordwrap.String(md, width)
	}
	rendered = strings.Trim(rendered, "\n")
	r.cache[key] = rendered
	return rendered
}

func (r *markdownRenderer) renderer(width int) (*glamour.TermRenderer, error) {
	if renderer, ok := r.renderers[width]; ok {
		return renderer, nil
	}
	styleOpt := glamour.WithStandardStyle(r.style)
	if r.style == "auto" {
		styleOpt = glamour.WithAutoStyle()
	}
	renderer, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return nil, err
	}
	r.renderers[width] = renderer
	return renderer, nil
}
