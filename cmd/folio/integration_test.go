package main

import (
	"context"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/csheth/folio/internal/tuitest"
)

func TestLightboxOpensAndClosesInTerminal(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary and drives a PTY")
	}
	t.Parallel()

	cmdDir := moduleDir(t)
	binary := buildBinary(t, cmdDir)

	steps := []tuitest.Step{{Delay: time.Second}}
	steps = append(steps, tuitest.Keys(200*time.Millisecond, "]", "[")...)
	steps = append(steps,
		tuitest.Step{Delay: 300 * time.Millisecond, Input: tuitest.KeyEnter},
		// Wheel notches over the open lightbox must not scroll the page or
		// steal focus from it.
		tuitest.Step{Delay: 200 * time.Millisecond, Input: tuitest.MouseWheelDown(50, 15)},
		tuitest.Step{Delay: 50 * time.Millisecond, Input: tuitest.MouseWheelDown(50, 15)},
		tuitest.Step{Delay: 300 * time.Millisecond, Input: tuitest.KeyRight},
		tuitest.Step{Delay: 300 * time.Millisecond},
		tuitest.Step{Input: tuitest.KeyEsc},
		tuitest.Step{Delay: 300 * time.Millisecond, Input: []byte("q")},
	)

	rec, err := tuitest.Run(context.Background(), tuitest.Config{
		Command: []string{binary, "--no-alt-screen", "--config", filepath.Join(t.TempDir(), "none.yaml")},
		Dir:     cmdDir,
		Env:     []string{"FOLIO_CACHE_DIR=" + t.TempDir()},
		Width:   100,
		Height:  30,
		Steps:   steps,
		Timeout: 10 * time.Second,
	})
	if err != nil {
		t.Fatalf("run CLI: %v", err)
	}

	if _, ok := rec.FrameContaining("2 / 3"); !ok {
		t.Fatalf("lightbox never showed the second screenshot; final frame:\n%s", finalPlain(rec))
	}
	if _, ok := rec.FrameContaining("[x]"); !ok {
		t.Fatal("lightbox close button never drawn")
	}
	frame, ok := rec.FinalFrame()
	if !ok {
		t.Fatal("no frames captured")
	}
	if !containsAll(frame.Plain, "Avery Lin", "Projects") {
		t.Fatalf("expected the page after closing the lightbox:\n%s", frame.Plain)
	}
}

func finalPlain(rec *tuitest.Recording) string {
	frame, _ := rec.FinalFrame()
	return frame.Plain
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}

func moduleDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	return filepath.Dir(file)
}

func buildBinary(t *testing.T, cmdDir string) string {
	t.Helper()
	name := "folio-integration"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	binPath := filepath.Join(t.TempDir(), name)
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = cmdDir
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build CLI: %v\n%s", err, output)
	}
	return binPath
}
