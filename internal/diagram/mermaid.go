// Package diagram checks mermaid diagram source before it reaches the
// browser, so a malformed diagram becomes an inline message instead of a
// broken page.
package diagram

import (
	"fmt"
	"strings"
	"unicode"
)

// SyntaxError locates a problem in diagram source.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("diagram line %d: %s", e.Line, e.Msg)
}

// flowchart directions accepted after graph/flowchart.
var directions = map[string]bool{
	"TD": true, "TB": true, "BT": true, "RL": true, "LR": true,
}

// other diagram types are passed through after the header check.
var otherKinds = map[string]bool{
	"sequenceDiagram":    true,
	"classDiagram":       true,
	"classDiagram-v2":    true,
	"stateDiagram":       true,
	"stateDiagram-v2":    true,
	"erDiagram":          true,
	"gantt":              true,
	"pie":                true,
	"mindmap":            true,
	"journey":            true,
	"timeline":           true,
	"gitGraph":           true,
	"quadrantChart":      true,
	"requirementDiagram": true,
	"C4Context":          true,
	"C4Container":        true,
	"C4Component":        true,
	"C4Dynamic":          true,
	"C4Deployment":       true,
	"sankey-beta":        true,
	"xychart-beta":       true,
	"block-beta":         true,
	"packet-beta":        true,
	"architecture-beta":  true,
	"kanban":             true,
	"radar-beta":         true,
	"treemap-beta":       true,
	"zenuml":             true,
	"info":               true,
}

var closers = map[rune]rune{')': '(', '}': '{'}

// Validate checks the header of src and, for flowcharts, bracket and
// subgraph balance. Blank source is not an error; there is simply nothing
// to draw. A leading front matter block (between --- lines) is skipped.
func Validate(src string) error {
	lines := strings.Split(src, "\n")

	start, err := skipFrontMatter(lines)
	if err != nil {
		return err
	}

	header := -1
	for i := start; i < len(lines); i++ {
		if skippable(lines[i]) {
			continue
		}
		header = i
		break
	}
	if header < 0 {
		return nil
	}

	fields := strings.Fields(lines[header])
	kind := strings.TrimSuffix(fields[0], ";")
	switch {
	case kind == "graph" || kind == "flowchart" || kind == "flowchart-elk":
		if len(fields) > 1 {
			dir := strings.TrimSuffix(fields[1], ";")
			if !directions[dir] {
				return &SyntaxError{Line: header + 1, Msg: fmt.Sprintf("unknown direction %q", fields[1])}
			}
		}
	case otherKinds[kind]:
		return nil
	default:
		return &SyntaxError{Line: header + 1, Msg: fmt.Sprintf("unknown diagram type %q", fields[0])}
	}

	depth := 0
	for i := header + 1; i < len(lines); i++ {
		if skippable(lines[i]) {
			continue
		}
		l := strings.TrimSpace(lines[i])
		switch first := strings.TrimSuffix(strings.Fields(l)[0], ";"); first {
		case "subgraph":
			depth++
			continue
		case "end":
			depth--
			if depth < 0 {
				return &SyntaxError{Line: i + 1, Msg: "end without subgraph"}
			}
			continue
		}
		if err := checkBrackets(l); err != "" {
			return &SyntaxError{Line: i + 1, Msg: err}
		}
	}
	if depth > 0 {
		return &SyntaxError{Line: len(lines), Msg: "subgraph without end"}
	}
	return nil
}

func skippable(line string) bool {
	l := strings.TrimSpace(line)
	return l == "" || strings.HasPrefix(l, "%%")
}

// skipFrontMatter returns the index of the first line after a leading
// front matter block, or of the first line when there is none.
func skipFrontMatter(lines []string) (int, error) {
	first := 0
	for first < len(lines) && strings.TrimSpace(lines[first]) == "" {
		first++
	}
	if first == len(lines) || strings.TrimSpace(lines[first]) != "---" {
		return 0, nil
	}
	for i := first + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return i + 1, nil
		}
	}
	return 0, &SyntaxError{Line: first + 1, Msg: "unterminated front matter"}
}

// checkBrackets reports unbalanced (), [] or {} outside quoted text and
// |edge labels|. A '>' straight after a node id opens the asymmetric
// shape, which closes with ']'.
func checkBrackets(line string) string {
	var stack []rune
	quoted, label := false, false
	prev := ' '
	for _, r := range line {
		switch {
		case r == '"' && !label:
			quoted = !quoted
		case quoted:
		case r == '|':
			label = !label
		case label:
		case r == '(' || r == '[' || r == '{':
			stack = append(stack, r)
		case r == '>' && len(stack) == 0 && isIDRune(prev):
			stack = append(stack, '>')
		case r == ')' || r == '}':
			if len(stack) == 0 || stack[len(stack)-1] != closers[r] {
				return fmt.Sprintf("unexpected %q", r)
			}
			stack = stack[:len(stack)-1]
		case r == ']':
			if len(stack) == 0 || (stack[len(stack)-1] != '[' && stack[len(stack)-1] != '>') {
				return fmt.Sprintf("unexpected %q", r)
			}
			stack = stack[:len(stack)-1]
		}
		prev = r
	}
	if quoted {
		return "unterminated quote"
	}
	if len(stack) > 0 {
		return fmt.Sprintf("unclosed %q", stack[len(stack)-1])
	}
	return ""
}

func isIDRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// View is what a page needs to show a diagram.
type View struct {
	Source string
	Err    string
}

// Empty reports whether there is nothing to show.
func (v View) Empty() bool {
	return v.Source == "" && v.Err == ""
}

// OK reports whether the source can be handed to the renderer.
func (v View) OK() bool {
	return v.Source != "" && v.Err == ""
}

// Render validates src and prepares it for display.
func Render(src string) View {
	src = strings.TrimSpace(src)
	if src == "" {
		return View{}
	}
	if err := Validate(src); err != nil {
		return View{Err: "Failed to render diagram: " + err.Error()}
	}
	return View{Source: src}
}
