package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Gallery.DragThreshold != 6 {
		t.Errorf("expected default drag threshold 6, got %d", cfg.Gallery.DragThreshold)
	}
	if cfg.Reveal.Margin != 2 {
		t.Errorf("expected default reveal margin 2, got %d", cfg.Reveal.Margin)
	}
	if !cfg.Reveal.Enabled {
		t.Error("reveal should default on")
	}
	if !cfg.UI.Mouse || !cfg.UI.AltScreen {
		t.Error("mouse and alt screen should default on")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Contact.Timeout != 15*time.Second {
		t.Errorf("timeout: got %s", cfg.Contact.Timeout)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.yaml")

	original := DefaultConfig()
	original.Content.Path = "site/portfolio.yaml"
	original.Contact.Endpoint = "https://formspree.io/f/abc"
	original.Contact.Timeout = 3 * time.Second
	original.Gallery.DragThreshold = 9
	original.UI.Mouse = false

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Content.Path != original.Content.Path {
		t.Errorf("content.path: got %q, want %q", loaded.Content.Path, original.Content.Path)
	}
	if loaded.Contact.Endpoint != original.Contact.Endpoint {
		t.Errorf("contact.endpoint: got %q", loaded.Contact.Endpoint)
	}
	if loaded.Contact.Timeout != 3*time.Second {
		t.Errorf("contact.timeout: got %s", loaded.Contact.Timeout)
	}
	if loaded.Gallery.DragThreshold != 9 {
		t.Errorf("gallery.drag_threshold: got %d", loaded.Gallery.DragThreshold)
	}
	if loaded.UI.Mouse {
		t.Error("ui.mouse should round-trip as false")
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.yaml")
	if err := os.WriteFile(path, []byte("reveal:\n  margin: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Reveal.Margin != 5 {
		t.Errorf("margin: got %d", cfg.Reveal.Margin)
	}
	if cfg.Gallery.DragThreshold != 6 {
		t.Errorf("unset keys should keep defaults, got drag threshold %d", cfg.Gallery.DragThreshold)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FOLIO_GALLERY_DRAG_THRESHOLD", "12")
	t.Setenv("FOLIO_CONTACT_ENDPOINT", "https://example.com/f")
	t.Setenv("FOLIO_UI_ALT_SCREEN", "false")
	t.Setenv("FOLIO_REVEAL_ENABLED", "false")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Gallery.DragThreshold != 12 {
		t.Errorf("drag threshold: got %d", cfg.Gallery.DragThreshold)
	}
	if cfg.Contact.Endpoint != "https://example.com/f" {
		t.Errorf("endpoint: got %q", cfg.Contact.Endpoint)
	}
	if cfg.Reveal.Enabled {
		t.Error("reveal should be disabled by env")
	}
	if cfg.UI.AltScreen {
		t.Error("alt screen should be disabled by env")
	}
}

func TestEnvKey(t *testing.T) {
	cases := map[string]string{
		"FOLIO_LOG_PATH":               "log.path",
		"FOLIO_GALLERY_DRAG_THRESHOLD": "gallery.drag_threshold",
		"FOLIO_DEBUG":                  "debug",
	}
	for in, want := range cases {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero threshold", func(c *Config) { c.Gallery.DragThreshold = 0 }},
		{"negative margin", func(c *Config) { c.Reveal.Margin = -1 }},
		{"bad endpoint", func(c *Config) { c.Contact.Endpoint = "formspree.io/f/x" }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"negative preload", func(c *Config) { c.Gallery.PreloadLimit = -2 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
