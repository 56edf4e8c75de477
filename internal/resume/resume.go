package resume

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoResume is returned when no resume document is configured.
var ErrNoResume = errors.New("no resume configured")

var extraneousWhitespace = regexp.MustCompile(`\s+`)

// Fetcher turns a remote URL into a local file path.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Document is the plain-text rendition of a resume PDF.
type Document struct {
	Source string
	Pages  int
	Text   string
}

// Load resolves ref, downloading it through fetcher when it is a URL, and
// extracts its text.
func Load(ctx context.Context, ref string, fetcher Fetcher) (*Document, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrNoResume
	}
	path := ref
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		if fetcher == nil {
			return nil, fmt.Errorf("remote resume %s needs a fetcher", ref)
		}
		local, err := fetcher.Fetch(ctx, ref)
		if err != nil {
			return nil, err
		}
		path = local
	}
	doc, err := Extract(path)
	if err != nil {
		return nil, err
	}
	doc.Source = ref
	return doc, nil
}

// Extract reads the PDF at path and returns its text with whitespace
// collapsed.
func Extract(path string) (*Document, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer file.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("failed to extract pdf text: %w", err)
	}
	var builder strings.Builder
	if _, err := io.Copy(&builder, content); err != nil {
		return nil, err
	}
	return &Document{
		Source: path,
		Pages:  reader.NumPage(),
		Text:   Collapse(builder.String()),
	}, nil
}

// Collapse folds runs of whitespace into single spaces.
func Collapse(s string) string {
	return strings.TrimSpace(extraneousWhitespace.ReplaceAllString(s, " "))
}

// Excerpt returns at most limit words of the text, marking truncation.
func (d *Document) Excerpt(limit int) string {
	if d == nil {
		return ""
	}
	words := strings.Fields(d.Text)
	if limit <= 0 || len(words) <= limit {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:limit], " ") + " …"
}
