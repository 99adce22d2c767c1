package content

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

var (
	// ErrNotFound is returned when a project identifier is not in the store.
	ErrNotFound = errors.New("project not found")
	// ErrInvalid is returned when the project list breaks a store invariant.
	ErrInvalid = errors.New("invalid project list")
)

// Store is the read-only list of projects. It is built once and never
// mutated, so it is safe for concurrent use without locking.
type Store struct {
	projects []Project
	index    map[string]int
}

// CategoryStat counts the projects in one category.
type CategoryStat struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type projectFile struct {
	Projects []Project `yaml:"projects"`
}

// NewStore validates projects and wraps them in a Store.
func NewStore(projects []Project) (*Store, error) {
	s := &Store{
		projects: make([]Project, len(projects)),
		index:    make(map[string]int, len(projects)),
	}
	for i, p := range projects {
		s.projects[i] = p.Clone()
	}

	for i, p := range s.projects {
		if strings.TrimSpace(p.ID) == "" {
			return nil, fmt.Errorf("%w: project at position %d has no id", ErrInvalid, i)
		}
		if strings.TrimSpace(p.Title) == "" {
			return nil, fmt.Errorf("%w: project %q has no title", ErrInvalid, p.ID)
		}
		if prev, ok := s.index[p.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate id %q at positions %d and %d", ErrInvalid, p.ID, prev, i)
		}
		s.index[p.ID] = i
	}
	return s, nil
}

// Load reads a YAML project list from fsys.
func Load(fsys fs.FS, name string) (*Store, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	var f projectFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return NewStore(f.Projects)
}

// Default loads the project list compiled into the binary.
func Default() (*Store, error) {
	return Load(dataFS, "data/projects.yaml")
}

// Len returns the number of projects.
func (s *Store) Len() int { return len(s.projects) }

// All returns every project in defined order. Projects are deep copies;
// changing them never reaches the store.
func (s *Store) All() []Project {
	out := make([]Project, len(s.projects))
	for i, p := range s.projects {
		out[i] = p.Clone()
	}
	return out
}

// Index returns the position of id, or -1.
func (s *Store) Index(id string) int {
	if i, ok := s.index[id]; ok {
		return i
	}
	return -1
}

// Get looks up a project by id.
func (s *Store) Get(id string) (Project, error) {
	i := s.Index(id)
	if i < 0 {
		return Project{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return s.projects[i].Clone(), nil
}

// Next returns the project after id, wrapping from the last to the first.
func (s *Store) Next(id string) (Project, error) {
	return s.step(id, 1)
}

// Prev returns the project before id, wrapping from the first to the last.
func (s *Store) Prev(id string) (Project, error) {
	return s.step(id, -1)
}

func (s *Store) step(id string, delta int) (Project, error) {
	i := s.Index(id)
	if i < 0 {
		return Project{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	n := len(s.projects)
	return s.projects[((i+delta)%n+n)%n].Clone(), nil
}

// Featured returns the highlighted projects in defined order.
func (s *Store) Featured() []Project {
	return s.partition(true)
}

// Archived returns the projects that are not highlighted.
func (s *Store) Archived() []Project {
	return s.partition(false)
}

func (s *Store) partition(highlight bool) []Project {
	var out []Project
	for _, p := range s.projects {
		if p.Highlight == highlight {
			out = append(out, p.Clone())
		}
	}
	return out
}

// CategoryStats counts projects per category, largest first. Ties are
// ordered by name so the result is stable.
func (s *Store) CategoryStats() []CategoryStat {
	counts := make(map[string]int)
	for _, p := range s.projects {
		counts[p.Category]++
	}
	stats := make([]CategoryStat, 0, len(counts))
	for name, n := range counts {
		stats = append(stats, CategoryStat{Name: name, Count: n})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Name < stats[j].Name
	})
	return stats
}
