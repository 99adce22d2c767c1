package content

import (
	"slices"
	"strings"
)

// Kind selects the vocabulary a project detail page is written in.
type Kind string

const (
	KindEngineering Kind = "engineering"
	KindResearch    Kind = "research"
)

// Project is a single case study shown on the site.
type Project struct {
	ID        string      `yaml:"id" json:"id"`
	Title     string      `yaml:"title" json:"title"`
	Category  string      `yaml:"category" json:"category"`
	Highlight bool        `yaml:"highlight" json:"highlight"`
	Kind      Kind        `yaml:"kind" json:"kind,omitempty"`
	OneLiner  string      `yaml:"one_liner" json:"oneLiner"`
	Tags      []string    `yaml:"tags" json:"tags"`
	Image     string      `yaml:"image" json:"image,omitempty"`
	Gallery   []string    `yaml:"gallery" json:"gallery,omitempty"`
	Stats     []Stat      `yaml:"stats" json:"stats,omitempty"`
	Period    string      `yaml:"period" json:"period,omitempty"`
	Role      string      `yaml:"role" json:"role,omitempty"`
	Links     Links       `yaml:"links" json:"links"`
	TechStack []TechGroup `yaml:"tech_stack" json:"techStack,omitempty"`
	Detail    Detail      `yaml:"detail" json:"detail"`
}

type Stat struct {
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value" json:"value"`
}

type Links struct {
	GitHub string `yaml:"github" json:"github,omitempty"`
	Demo   string `yaml:"demo" json:"demo,omitempty"`
	Paper  string `yaml:"paper" json:"paper,omitempty"`
}

// TechGroup is one labelled row of the tech stack table.
type TechGroup struct {
	Category string   `yaml:"category" json:"category"`
	Skills   []string `yaml:"skills" json:"skills"`
}

// Detail holds the long-form narrative of a project. Any field may be
// blank; blank fields are not rendered.
type Detail struct {
	Background   string       `yaml:"background" json:"background,omitempty"`
	Problem      string       `yaml:"problem" json:"problem,omitempty"`
	Solution     string       `yaml:"solution" json:"solution,omitempty"`
	Architecture Architecture `yaml:"architecture" json:"architecture"`
	Features     []string     `yaml:"features" json:"features,omitempty"`
	Impact       string       `yaml:"impact" json:"impact,omitempty"`
	Review       string       `yaml:"review" json:"review,omitempty"`
	Challenges   string       `yaml:"challenges" json:"challenges,omitempty"`
	DeepDives    []DeepDive   `yaml:"deep_dives" json:"deepDives,omitempty"`
}

// Architecture pairs a mermaid flowchart with prose describing it.
type Architecture struct {
	Diagram     string `yaml:"diagram" json:"diagram,omitempty"`
	Description string `yaml:"description" json:"description,omitempty"`
}

type DeepDive struct {
	Title       string `yaml:"title" json:"title"`
	Content     string `yaml:"content" json:"content"`
	CodeSnippet string `yaml:"code_snippet" json:"codeSnippet,omitempty"`
}

// Clone returns a copy of p that shares no slices with it.
func (p Project) Clone() Project {
	p.Tags = slices.Clone(p.Tags)
	p.Gallery = slices.Clone(p.Gallery)
	p.Stats = slices.Clone(p.Stats)
	p.TechStack = slices.Clone(p.TechStack)
	for i := range p.TechStack {
		p.TechStack[i].Skills = slices.Clone(p.TechStack[i].Skills)
	}
	p.Detail.Features = slices.Clone(p.Detail.Features)
	p.Detail.DeepDives = slices.Clone(p.Detail.DeepDives)
	return p
}

// IsResearch reports whether the project reads as a study rather than a build.
func (p Project) IsResearch() bool {
	return p.Kind == KindResearch
}

// HasDiagram reports whether the project carries diagram source.
func (p Project) HasDiagram() bool {
	return strings.TrimSpace(p.Detail.Architecture.Diagram) != ""
}

// Skills flattens the tech stack into one list, in table order.
func (p Project) Skills() []string {
	var skills []string
	for _, g := range p.TechStack {
		skills = append(skills, g.Skills...)
	}
	return skills
}

// SearchText is the text free-text search runs against: title, tagline,
// tags and tech stack skills separated by spaces.
func (p Project) SearchText() string {
	parts := make([]string, 0, 2+len(p.Tags)+4)
	parts = append(parts, p.Title, p.OneLiner)
	parts = append(parts, p.Tags...)
	parts = append(parts, p.Skills()...)
	return strings.Join(parts, " ")
}
