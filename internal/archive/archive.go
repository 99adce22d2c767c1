// Package archive filters the project list for the archive browser.
//
// Filtering is by category group and free-text search. Neither mutates
// its input; callers always get a fresh slice.
package archive

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/hashjamm/portfolio/internal/content"
)

// Group is a filter label shown in the archive browser.
type Group string

const (
	All         Group = "All"
	Engineering Group = "Engineering"
	DataAI      Group = "Data & AI"
)

var groupCategories = map[Group][]string{
	Engineering: {"Data Engineering", "Backend API", "App Dev", "System Design", "Automation"},
	DataAI:      {"AI Model", "Analytics", "Causal Inference", "IoT Data", "Research & Eng"},
}

// FilterCount is a group label with the number of projects it selects.
type FilterCount struct {
	Group Group `json:"group"`
	Count int   `json:"count"`
}

// Groups returns the filter labels in display order.
func Groups() []Group {
	return []Group{All, Engineering, DataAI}
}

// ParseGroup maps a query value to a group. Blank values select All.
// Unknown values also select All and report ok=false.
func ParseGroup(s string) (Group, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == string(All) {
		return All, true
	}
	if _, ok := groupCategories[Group(s)]; ok {
		return Group(s), true
	}
	return All, false
}

// Categories returns the project categories a group covers. All returns nil.
func (g Group) Categories() []string {
	return groupCategories[g]
}

// InGroup reports whether p belongs to g.
func InGroup(p content.Project, g Group) bool {
	if g == All {
		return true
	}
	for _, c := range groupCategories[g] {
		if c == p.Category {
			return true
		}
	}
	return false
}

// Matches reports whether query is a case-insensitive substring of the
// project's search text. A blank query matches everything; otherwise the
// query is used as typed, surrounding spaces included.
func Matches(p content.Project, query string) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}
	fold := cases.Fold()
	return strings.Contains(fold.String(p.SearchText()), fold.String(query))
}

// Filter returns the projects in g that match query, in input order.
func Filter(projects []content.Project, g Group, query string) []content.Project {
	out := make([]content.Project, 0, len(projects))
	for _, p := range projects {
		if InGroup(p, g) && Matches(p, query) {
			out = append(out, p)
		}
	}
	return out
}

// Counts returns, for every group, the size of its unsearched subset.
func Counts(projects []content.Project) []FilterCount {
	groups := Groups()
	counts := make([]FilterCount, len(groups))
	for i, g := range groups {
		counts[i] = FilterCount{Group: g, Count: len(Filter(projects, g, ""))}
	}
	return counts
}
