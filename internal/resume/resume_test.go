package resume

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	path string
	err  error
	urls []string
}

func (s *stubFetcher) Fetch(_ context.Context, url string) (string, error) {
	s.urls = append(s.urls, url)
	return s.path, s.err
}

func TestLoadWithoutRef(t *testing.T) {
	_, err := Load(context.Background(), "  ", nil)
	assert.ErrorIs(t, err, ErrNoResume)
}

func TestExtractMissingFile(t *testing.T) {
	_, err := Extract(filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open pdf")
}

func TestExtractRejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.pdf")
	require.NoError(t, os.WriteFile(path, []byte("plain text, not a pdf"), 0o644))
	_, err := Extract(path)
	assert.Error(t, err)
}

func TestLoadRemoteUsesFetcher(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("offline")}
	_, err := Load(context.Background(), "https://example.com/cv.pdf", fetcher)
	assert.EqualError(t, err, "offline")
	assert.Equal(t, []string{"https://example.com/cv.pdf"}, fetcher.urls)

	_, err = Load(context.Background(), "https://example.com/cv.pdf", nil)
	assert.Error(t, err)
}

func TestCollapseAndExcerpt(t *testing.T) {
	assert.Equal(t, "a b c", Collapse("  a\n\tb   c \n"))

	doc := &Document{Text: "one two three four five"}
	assert.Equal(t, "one two …", doc.Excerpt(2))
	assert.Equal(t, "one two three four five", doc.Excerpt(0))
	assert.Equal(t, "one two three four five", doc.Excerpt(10))

	var empty *Document
	assert.Equal(t, "", empty.Excerpt(3))
}
