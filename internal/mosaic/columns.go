// Package mosaic models the horizontally scrolling project mosaic: how
// projects are grouped into columns and how drag, wheel and button input
// move the strip.
package mosaic

import "github.com/hashjamm/portfolio/internal/content"

// ColumnKind distinguishes a full-height card from a pair of stacked cards.
type ColumnKind string

const (
	Hero    ColumnKind = "hero"
	Stacked ColumnKind = "stacked"
)

// DefaultPattern is one hero column followed by two stacked columns.
var DefaultPattern = []int{1, 2, 2}

// Column is one vertical slot of the mosaic.
type Column struct {
	Index    int               `json:"index"`
	Kind     ColumnKind        `json:"kind"`
	Projects []content.Project `json:"projects"`
}

// Group splits projects into columns whose sizes follow pattern, repeating
// it until the list runs out. The last column takes whatever remains. A
// nil or invalid pattern falls back to DefaultPattern.
func Group(projects []content.Project, pattern []int) []Column {
	if !validPattern(pattern) {
		pattern = DefaultPattern
	}
	var cols []Column
	for i, step := 0, 0; i < len(projects); step++ {
		size := pattern[step%len(pattern)]
		end := min(i+size, len(projects))

		kind := Stacked
		if size == 1 {
			kind = Hero
		}
		cols = append(cols, Column{
			Index:    len(cols),
			Kind:     kind,
			Projects: projects[i:end:end],
		})
		i = end
	}
	return cols
}

func validPattern(pattern []int) bool {
	if len(pattern) == 0 {
		return false
	}
	for _, n := range pattern {
		if n < 1 || n > 2 {
			return false
		}
	}
	return true
}
