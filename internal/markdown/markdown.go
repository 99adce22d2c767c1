// Package markdown renders project narrative and code excerpts to HTML.
package markdown

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Renderer converts markdown text to HTML. It is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// New returns a Renderer with GFM and chroma highlighting in the given
// style, "github" when style is empty.
func New(style string) *Renderer {
	if style == "" {
		style = "github"
	}
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				highlighting.NewHighlighting(
					highlighting.WithStyle(style),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
	}
}

// Render converts text. Blank text renders to nothing so the caller can
// omit the section. Raw HTML in the source is escaped.
func (r *Renderer) Render(text string) (template.HTML, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Code renders a code excerpt as a highlighted block. When the first line
// is a single word naming a known language, it selects the lexer and is
// dropped from the output.
func (r *Renderer) Code(snippet string) (template.HTML, error) {
	snippet = strings.Trim(snippet, "\n")
	if strings.TrimSpace(snippet) == "" {
		return "", nil
	}
	lang, body := splitLanguage(snippet)
	fence := "```"
	for strings.Contains(body, fence) {
		fence += "`"
	}
	return r.Render(fence + lang + "\n" + body + "\n" + fence + "\n")
}

func splitLanguage(snippet string) (string, string) {
	first, rest, found := strings.Cut(snippet, "\n")
	first = strings.TrimSpace(first)
	if !found || first == "" || strings.ContainsAny(first, " \t") {
		return "", snippet
	}
	if lexers.Get(first) == nil {
		return "", snippet
	}
	return first, rest
}
