package content

import "io/fs"

// Accent names the highlight colour used for a card.
type Accent string

const (
	AccentCyan     Accent = "cyan"
	AccentPurple   Accent = "purple"
	AccentPink     Accent = "pink"
	AccentGradient Accent = "gradient"
)

// Section ids, in page order.
const (
	SectionIntro        = "intro"
	SectionAbout        = "about"
	SectionStack        = "stack"
	SectionProcess      = "process"
	SectionProjects     = "projects"
	SectionWork         = "work"
	SectionTestimonials = "testimonials"
	SectionResume       = "resume"
	SectionContact      = "contact"
)

// SectionOrder lists every section the page can render.
var SectionOrder = []string{
	SectionIntro,
	SectionAbout,
	SectionStack,
	SectionProcess,
	SectionProjects,
	SectionWork,
	SectionTestimonials,
	SectionResume,
	SectionContact,
}

type Site struct {
	Name        string `yaml:"name"`
	Title       string `yaml:"title"`
	Email       string `yaml:"email"`
	Tagline     string `yaml:"tagline"`
	Description string `yaml:"description"`
	Footer      string `yaml:"footer"`
}

type NavLink struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}

type SocialLink struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

type TechCategory struct {
	Title  string   `yaml:"title"`
	Skills []string `yaml:"skills"`
	Accent Accent   `yaml:"accent"`
}

type Principle struct {
	Icon        string `yaml:"icon"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Accent      Accent `yaml:"accent"`
}

type ProcessStep struct {
	Number      string `yaml:"number"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Accent      Accent `yaml:"accent"`
}

// Project is one entry of the project gallery. Description is markdown.
type Project struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	Images      []string `yaml:"images"`
	ImageURL    string   `yaml:"image_url"`
	Direction   string   `yaml:"direction"`
}

// ImageRefs returns the gallery images: the images list when present,
// otherwise the single image_url, otherwise nothing.
func (p Project) ImageRefs() []string {
	if len(p.Images) > 0 {
		return append([]string(nil), p.Images...)
	}
	if p.ImageURL != "" {
		return []string{p.ImageURL}
	}
	return nil
}

type WorkExperience struct {
	Year        string   `yaml:"year"`
	Title       string   `yaml:"title"`
	Company     string   `yaml:"company"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
}

type Testimonial struct {
	ID      string `yaml:"id"`
	Quote   string `yaml:"quote"`
	Author  string `yaml:"author"`
	Role    string `yaml:"role"`
	Company string `yaml:"company"`
	Accent  Accent `yaml:"accent"`
}

// Portfolio is the whole page content.
type Portfolio struct {
	Site         Site             `yaml:"site"`
	About        string           `yaml:"about"`
	Navigation   []NavLink        `yaml:"navigation"`
	Social       []SocialLink     `yaml:"social"`
	Stack        []TechCategory   `yaml:"stack"`
	Principles   []Principle      `yaml:"principles"`
	Process      []ProcessStep    `yaml:"process"`
	Projects     []Project        `yaml:"projects"`
	Experience   []WorkExperience `yaml:"experience"`
	Testimonials []Testimonial    `yaml:"testimonials"`

	// BaseDir resolves relative image paths. It is the directory of the
	// loaded file, or empty for the embedded default.
	BaseDir string `yaml:"-"`
	// Assets is the filesystem relative image references are read from.
	Assets fs.FS `yaml:"-"`
}

// Project looks a project up by id.
func (p *Portfolio) Project(id string) (Project, bool) {
	for _, project := range p.Projects {
		if project.ID == id {
			return project, true
		}
	}
	return Project{}, false
}

// ProjectTitles lists project titles in page order.
func (p *Portfolio) ProjectTitles() []string {
	titles := make([]string, len(p.Projects))
	for i, project := range p.Projects {
		titles[i] = project.Title
	}
	return titles
}
