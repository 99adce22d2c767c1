package content

import (
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// Profile is the biography shown on the home page.
type Profile struct {
	Name      string          `yaml:"name"`
	Headline  string          `yaml:"headline"`
	Summary   string          `yaml:"summary"`
	Bio       []string        `yaml:"bio"`
	Education []TimelineItem  `yaml:"education"`
	Career    []TimelineItem  `yaml:"career"`
	Skills    []SkillCategory `yaml:"skills"`
}

// TimelineItem is one entry of the education or career timeline.
type TimelineItem struct {
	Date        string   `yaml:"date"`
	Title       string   `yaml:"title"`
	Role        string   `yaml:"role"`
	Description string   `yaml:"description"`
	Details     []string `yaml:"details"`
}

type SkillCategory struct {
	Title  string   `yaml:"title"`
	Skills []string `yaml:"skills"`
}

// LoadProfile reads a YAML profile from fsys.
func LoadProfile(fsys fs.FS, name string) (Profile, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Profile{}, fmt.Errorf("reading %s: %w", name, err)
	}
	var p Profile
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Profile{}, fmt.Errorf("parsing %s: %w", name, err)
	}
	if p.Name == "" {
		return Profile{}, fmt.Errorf("%s: profile has no name", name)
	}
	return p, nil
}

// DefaultProfile loads the profile compiled into the binary.
func DefaultProfile() (Profile, error) {
	return LoadProfile(dataFS, "data/profile.yaml")
}
