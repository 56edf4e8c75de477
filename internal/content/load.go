package content

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml assets/*.png
var embedded embed.FS

var (
	ErrDuplicateProject = errors.New("duplicate project id")
	ErrUnknownSection   = errors.New("navigation references unknown section")
)

// Load reads a portfolio from a YAML file. An empty path loads the built-in
// portfolio. Image globs are expanded before returning.
func Load(path string) (*Portfolio, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content %s: %w", path, err)
	}
	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("resolving content dir: %w", err)
	}
	return parse(raw, dir, os.DirFS(dir))
}

// Default returns the embedded portfolio.
func Default() (*Portfolio, error) {
	raw, err := embedded.ReadFile("default.yaml")
	if err != nil {
		return nil, err
	}
	return parse(raw, "", embedded)
}

func parse(raw []byte, dir string, assets fs.FS) (*Portfolio, error) {
	var p Portfolio
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parsing content: %w", err)
	}
	p.BaseDir = dir
	p.Assets = assets
	if err := p.ExpandImages(); err != nil {
		return nil, err
	}
	return &p, nil
}

// ExpandImages replaces glob entries in every project's image list with the
// sorted files they match. Remote URLs and plain paths are kept as written.
func (p *Portfolio) ExpandImages() error {
	for i := range p.Projects {
		project := &p.Projects[i]
		if len(project.Images) == 0 {
			continue
		}
		expanded := make([]string, 0, len(project.Images))
		for _, ref := range project.Images {
			matches, err := p.expand(ref)
			if err != nil {
				return fmt.Errorf("project %s: expanding %q: %w", project.ID, ref, err)
			}
			expanded = append(expanded, matches...)
		}
		project.Images = expanded
	}
	return nil
}

func (p *Portfolio) expand(ref string) ([]string, error) {
	if IsRemote(ref) || !hasGlobMeta(ref) {
		return []string{ref}, nil
	}
	var (
		matches []string
		err     error
	)
	switch {
	case filepath.IsAbs(ref):
		matches, err = doublestar.FilepathGlob(ref)
	case p.Assets != nil:
		matches, err = doublestar.Glob(p.Assets, filepath.ToSlash(ref))
	default:
		matches, err = doublestar.FilepathGlob(filepath.Join(p.BaseDir, ref))
	}
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// UnmatchedGlobs lists image globs that expand to nothing. It re-reads the
// raw references, so call it on a freshly parsed file.
func UnmatchedGlobs(path string) ([]string, error) {
	var raw []byte
	var err error
	var p *Portfolio
	if strings.TrimSpace(path) == "" {
		raw, err = embedded.ReadFile("default.yaml")
		p = &Portfolio{Assets: embedded}
	} else {
		raw, err = os.ReadFile(path)
		dir, _ := filepath.Abs(filepath.Dir(path))
		p = &Portfolio{BaseDir: dir, Assets: os.DirFS(dir)}
	}
	if err != nil {
		return nil, err
	}
	var doc Portfolio
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing content: %w", err)
	}
	var unmatched []string
	for _, project := range doc.Projects {
		for _, ref := range project.Images {
			if IsRemote(ref) || !hasGlobMeta(ref) {
				continue
			}
			matches, err := p.expand(ref)
			if err != nil {
				return nil, err
			}
			if len(matches) == 0 {
				unmatched = append(unmatched, fmt.Sprintf("%s: %s", project.ID, ref))
			}
		}
	}
	return unmatched, nil
}

// IsRemote reports whether ref is an http(s) URL.
func IsRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

func hasGlobMeta(ref string) bool {
	return strings.ContainsAny(ref, "*?[{")
}

var validAccents = map[Accent]bool{
	"":             true,
	AccentCyan:     true,
	AccentPurple:   true,
	AccentPink:     true,
	AccentGradient: true,
}

// Validate checks the portfolio for mistakes that would break the page.
func (p *Portfolio) Validate() error {
	if strings.TrimSpace(p.Site.Name) == "" {
		return fmt.Errorf("site.name is required")
	}
	seen := map[string]bool{}
	for _, project := range p.Projects {
		if project.ID == "" {
			return fmt.Errorf("project %q has no id", project.Title)
		}
		if seen[project.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateProject, project.ID)
		}
		seen[project.ID] = true
		if project.Direction != "" && project.Direction != "left" && project.Direction != "right" {
			return fmt.Errorf("project %s: direction must be left or right", project.ID)
		}
	}
	sections := map[string]bool{}
	for _, id := range SectionOrder {
		sections[id] = true
	}
	for _, link := range p.Navigation {
		if !sections[link.ID] {
			return fmt.Errorf("%w: %s", ErrUnknownSection, link.ID)
		}
	}
	for _, category := range p.Stack {
		if !validAccents[category.Accent] {
			return fmt.Errorf("stack %q: unknown accent %q", category.Title, category.Accent)
		}
	}
	for _, step := range p.Process {
		if !validAccents[step.Accent] {
			return fmt.Errorf("process %q: unknown accent %q", step.Title, step.Accent)
		}
	}
	for _, principle := range p.Principles {
		if !validAccents[principle.Accent] {
			return fmt.Errorf("principle %q: unknown accent %q", principle.Title, principle.Accent)
		}
	}
	for _, testimonial := range p.Testimonials {
		if !validAccents[testimonial.Accent] {
			return fmt.Errorf("testimonial %s: unknown accent %q", testimonial.ID, testimonial.Accent)
		}
	}
	return nil
}
