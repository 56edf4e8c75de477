package tuitest

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponderAnswersQueriesInOrder(t *testing.T) {
	var out bytes.Buffer
	r := newTerminalResponder(&out)
	r.Process([]byte("hello\x1b]11;?\x07 and \x1b"))
	r.Process([]byte("[6n"))
	assert.Equal(t, "\x1b]11;rgb:0000/0000/0000\x07\x1b[1;1R", out.String())
}

func TestParseFramesSplitsOnClear(t *testing.T) {
	raw := []byte("\x1b[2J\x1b[Hfirst  \r\nline\x1b[2J\x1b[H\x1b[1msecond\x1b[0m\n\n")
	frames := parseFrames(raw)
	if assert.Len(t, frames, 2) {
		assert.Equal(t, "first\nline", frames[0].Plain)
		assert.Equal(t, "second", frames[1].Plain)
	}
	rec := &Recording{Frames: frames}
	last, ok := rec.FinalFrame()
	assert.True(t, ok)
	assert.Equal(t, 1, last.Index)
	found, ok := rec.FrameContaining("line")
	assert.True(t, ok)
	assert.Equal(t, 0, found.Index)
}

func TestParseFramesDropsHyperlinks(t *testing.T) {
	raw := []byte("\x1b[2J\x1b[H\x1b]8;;https://example.com\x1b\\resume\x1b]8;;\x1b\\ \x1b[?25l")
	frames := parseFrames(raw)
	if assert.Len(t, frames, 1) {
		assert.Equal(t, "resume", frames[0].Plain)
	}
}

func TestMouseEncoding(t *testing.T) {
	assert.Equal(t, "\x1b[<0;1;1M", string(MousePress(0, 0)))
	assert.Equal(t, "\x1b[<0;11;4m", string(MouseRelease(10, 3)))
	assert.Equal(t, "\x1b[<65;51;16M", string(MouseWheelDown(50, 15)))
	steps := Swipe(20, 5, -8)
	if assert.Len(t, steps, 2) {
		assert.Equal(t, "\x1b[<0;13;6m", string(steps[1].Input))
	}
}

func TestBuildEnvDropsFolioOverrides(t *testing.T) {
	t.Setenv("FOLIO_CONTACT_ENDPOINT", "https://example.com")
	env := buildEnv([]string{"FOLIO_LOG_LEVEL=debug"})
	assert.NotContains(t, env, "FOLIO_CONTACT_ENDPOINT=https://example.com")
	assert.Contains(t, env, "FOLIO_LOG_LEVEL=debug")
	assert.Contains(t, env, "FOLIO_CONTENT_WATCH=false")
}
