package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "folio.yaml"

const envPrefix = "FOLIO_"

// Config is the top-level folio configuration, corresponding to folio.yaml.
type Config struct {
	Content ContentConfig `yaml:"content" koanf:"content"`
	Contact ContactConfig `yaml:"contact" koanf:"contact"`
	Gallery GalleryConfig `yaml:"gallery" koanf:"gallery"`
	Reveal  RevealConfig  `yaml:"reveal" koanf:"reveal"`
	Resume  ResumeConfig  `yaml:"resume" koanf:"resume"`
	Cache   CacheConfig   `yaml:"cache" koanf:"cache"`
	Log     LogConfig     `yaml:"log" koanf:"log"`
	UI      UIConfig      `yaml:"ui" koanf:"ui"`
}

type ContentConfig struct {
	// Path to a portfolio YAML file. Empty means the embedded sample.
	Path  string `yaml:"path" koanf:"path"`
	Watch bool   `yaml:"watch" koanf:"watch"`
}

type ContactConfig struct {
	Endpoint string        `yaml:"endpoint" koanf:"endpoint"`
	Timeout  time.Duration `yaml:"timeout" koanf:"timeout"`
}

type GalleryConfig struct {
	// DragThreshold is in terminal columns.
	DragThreshold int `yaml:"drag_threshold" koanf:"drag_threshold"`
	PreloadLimit  int `yaml:"preload_limit" koanf:"preload_limit"`
}

type RevealConfig struct {
	// Margin is how many rows past the viewport bottom a section must
	// reach before it counts as visible.
	Margin int `yaml:"margin" koanf:"margin"`
	// Enabled false draws every section in full from the start.
	Enabled bool `yaml:"enabled" koanf:"enabled"`
}

type ResumeConfig struct {
	Path string `yaml:"path" koanf:"path"`
}

type CacheConfig struct {
	Dir string `yaml:"dir" koanf:"dir"`
}

type LogConfig struct {
	Path  string `yaml:"path" koanf:"path"`
	Level string `yaml:"level" koanf:"level"`
}

type UIConfig struct {
	AltScreen     bool   `yaml:"alt_screen" koanf:"alt_screen"`
	Mouse         bool   `yaml:"mouse" koanf:"mouse"`
	MarkdownStyle string `yaml:"markdown_style" koanf:"markdown_style"`
}

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() *Config {
	return &Config{
		Content: ContentConfig{Watch: true},
		Contact: ContactConfig{Timeout: 15 * time.Second},
		Gallery: GalleryConfig{DragThreshold: 6, PreloadLimit: 4},
		Reveal:  RevealConfig{Margin: 2, Enabled: true},
		Log:     LogConfig{Level: "info"},
		UI:      UIConfig{AltScreen: true, Mouse: true, MarkdownStyle: "dark"},
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (FOLIO_*). A missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	// FOLIO_GALLERY_DRAG_THRESHOLD -> gallery.drag_threshold
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	section, rest, ok := strings.Cut(key, "_")
	if !ok {
		return key
	}
	return section + "." + rest
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := c.YAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// YAML renders the configuration as folio.yaml content.
func (c *Config) YAML() ([]byte, error) {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshalling config: %w", err)
	}
	return data, nil
}

var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Gallery.DragThreshold <= 0 {
		return fmt.Errorf("gallery.drag_threshold must be positive")
	}
	if c.Gallery.PreloadLimit < 0 {
		return fmt.Errorf("gallery.preload_limit must be non-negative")
	}
	if c.Reveal.Margin < 0 {
		return fmt.Errorf("reveal.margin must be non-negative")
	}
	if c.Contact.Timeout < 0 {
		return fmt.Errorf("contact.timeout must be non-negative")
	}
	if c.Contact.Endpoint != "" &&
		!strings.HasPrefix(c.Contact.Endpoint, "https://") &&
		!strings.HasPrefix(c.Contact.Endpoint, "http://") {
		return fmt.Errorf("invalid contact.endpoint %q: must be an http(s) URL", c.Contact.Endpoint)
	}
	if c.Log.Level != "" && !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log.level %q: must be one of debug, info, warn, error", c.Log.Level)
	}
	return nil
}
