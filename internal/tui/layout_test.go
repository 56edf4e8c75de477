package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/folio/internal/content"
	"github.com/csheth/folio/internal/gallery"
)

func TestPageLayoutUpdate(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantViewportW int
		wantViewportH int
	}{
		{name: "regular", width: 100, height: 30, wantViewportW: 100, wantViewportH: 26},
		{name: "narrow", width: 20, height: 30, wantViewportW: minViewportWidth, wantViewportH: 26},
		{name: "short", width: 80, height: 5, wantViewportW: 80, wantViewportH: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := newPageLayout()
			layout.Update(tt.width, tt.height)
			if layout.viewportWidth != tt.wantViewportW || layout.viewportHeight != tt.wantViewportH {
				t.Fatalf("got %dx%d, want %dx%d", layout.viewportWidth, layout.viewportHeight, tt.wantViewportW, tt.wantViewportH)
			}
		})
	}
}

func TestContentBuilderCountsLines(t *testing.T) {
	cb := &contentBuilder{}
	cb.WriteLine("one")
	cb.WriteString("two\nthree")
	cb.WriteRune('\n')
	if cb.Line() != 3 {
		t.Fatalf("expected 3 lines, got %d", cb.Line())
	}
}

func TestBuildPageAnchorsFollowSectionOrder(t *testing.T) {
	m := newTestModel(t)
	ids := m.sectionIDs()
	if len(ids) == 0 {
		t.Fatal("default content should have sections")
	}
	prev := -1
	for _, id := range ids {
		line, ok := m.page.anchors[id]
		if !ok {
			t.Fatalf("missing anchor for %s", id)
		}
		if line <= prev {
			t.Fatalf("anchor %s at %d is not after %d", id, line, prev)
		}
		span := m.page.spans[id]
		if span.Top != line || span.Bottom <= span.Top {
			t.Fatalf("bad span for %s: %+v", id, span)
		}
		prev = line
	}
	if got := strings.Count(m.page.content, "\n"); got != m.page.lineCount-1 && got != m.page.lineCount {
		t.Fatalf("line count %d does not match content (%d newlines)", m.page.lineCount, got)
	}
}

func TestHiddenSectionsKeepTheirHeight(t *testing.T) {
	m := newTestModel(t)
	before := m.page.lineCount
	anchors := map[string]int{}
	for id, line := range m.page.anchors {
		anchors[id] = line
	}
	revealEverything(m)
	if m.page.lineCount != before {
		t.Fatalf("revealing changed the page height: %d -> %d", before, m.page.lineCount)
	}
	for id, line := range anchors {
		if m.page.anchors[id] != line {
			t.Fatalf("anchor %s moved from %d to %d", id, line, m.page.anchors[id])
		}
	}
}

func TestHiddenSectionsHaveNoRegions(t *testing.T) {
	m := newTestModel(t)
	if !m.page.hidden[content.SectionProjects] {
		t.Skip("projects section is already in view at this size")
	}
	if len(m.page.regions) != 0 {
		t.Fatalf("dimmed projects should not be clickable, got %d regions", len(m.page.regions))
	}
	revealEverything(m)
	if len(m.page.regions) == 0 {
		t.Fatal("revealed projects should record image regions")
	}
}

func TestProjectRegionsMatchGalleries(t *testing.T) {
	m := newTestModel(t)
	revealEverything(m)
	counts := map[regionKind]int{}
	for _, region := range m.page.regions {
		counts[region.kind]++
		if region.right-region.left <= 0 || region.bottom-region.top <= 0 {
			t.Fatalf("empty region %+v", region)
		}
	}
	if counts[regionImage] != len(m.galleries) {
		t.Fatalf("expected one image region per project, got %d", counts[regionImage])
	}
	navigable := 0
	for _, ctrl := range m.galleries {
		if ctrl.Navigable() {
			navigable++
		}
	}
	if counts[regionPrev] != navigable || counts[regionNext] != navigable {
		t.Fatalf("expected buttons only for navigable galleries: %+v", counts)
	}
}

func TestGalleryControls(t *testing.T) {
	row, prev, next := galleryControls(gallery.New([]string{"a", "b", "c"}), false)
	if !strings.Contains(row, "1 / 3") {
		t.Fatalf("controls should show the counter, got %q", row)
	}
	if prev[0] != 0 || next[1] != lipgloss.Width(row) {
		t.Fatalf("button ranges %v %v do not span the row of width %d", prev, next, lipgloss.Width(row))
	}
	if lipgloss.Width(row) > inlineImageCols {
		t.Fatalf("controls wider than the image box: %d", lipgloss.Width(row))
	}

	row, prev, _ = galleryControls(gallery.New([]string{"a"}), true)
	if strings.Contains(row, "/") || prev != [2]int{} {
		t.Fatalf("single image galleries have no buttons, got %q", row)
	}
	row, _, _ = galleryControls(gallery.New(nil), false)
	if !strings.Contains(row, "No screenshots") {
		t.Fatalf("unexpected empty gallery row %q", row)
	}
}

func TestImageStoreLinesAreBoxed(t *testing.T) {
	store := newImageStore()
	lines := store.Lines("missing.png", 12, 4)
	if len(lines) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(lines))
	}
	for _, line := range lines {
		if w := lipgloss.Width(line); w != 12 {
			t.Fatalf("row width %d, want 12: %q", w, line)
		}
	}
	if got := store.Missing([]string{"missing.png"}); len(got) != 1 {
		t.Fatalf("unloaded refs should be missing, got %v", got)
	}
}

func TestRenderIncludesEverySection(t *testing.T) {
	portfolio, err := content.Default()
	if err != nil {
		t.Fatalf("default content: %v", err)
	}
	out := Render(Config{Portfolio: portfolio, MarkdownStyle: "notty"}, 100)
	for _, want := range []string{"Avery Lin", "Device Monitoring & Order Dashboard", "Multi-Branch Location & Usage Map"} {
		if !strings.Contains(stripANSI(out), want) {
			t.Fatalf("render is missing %q", want)
		}
	}
}

func TestStripANSI(t *testing.T) {
	styled := lipgloss.NewStyle().Bold(true).Render("hello")
	if got := stripANSI(styled); got != "hello" {
		t.Fatalf("got %q", got)
	}
	link := "\x1b]8;;https://example.com\x07link\x1b]8;;\x07"
	if got := stripANSI(link); got != "link" {
		t.Fatalf("hyperlinks should lose their OSC wrapper, got %q", got)
	}
}
