package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("FOLIO_CACHE_DIR", t.TempDir())
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateBuiltInContent(t *testing.T) {
	out, err := execute(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Avery Lin: 3 projects, 6 images")
}

func TestValidateReportsBrokenImages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portfolio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`site:
  name: Broken
navigation:
  - id: projects
    label: Projects
projects:
  - id: one
    title: One
    images:
      - shots/*.png
  - id: two
    title: Two
    images:
      - missing.png
`), 0o644))

	out, err := execute(t, "validate", "--content", path)
	require.Error(t, err)
	assert.Contains(t, out, "image glob matches nothing: one: shots/*.png")
	assert.Contains(t, out, "image missing.png")
}

func TestRenderPrintsPage(t *testing.T) {
	out, err := execute(t, "render", "--width", "90")
	require.NoError(t, err)
	assert.Contains(t, out, "Avery Lin")
	assert.Contains(t, out, "Device Monitoring & Order Dashboard")
}

func TestConfigPrintsEffectiveSettings(t *testing.T) {
	t.Setenv("FOLIO_GALLERY_DRAG_THRESHOLD", "9")
	out, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "drag_threshold: 9")
	assert.True(t, strings.Contains(out, "mouse: true"), out)
}

func TestInvalidConfigIsRejected(t *testing.T) {
	t.Setenv("FOLIO_LOG_LEVEL", "loud")
	_, err := execute(t, "config")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}
