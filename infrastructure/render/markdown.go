package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var noteMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.Linkify),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// NoteHTML renders a highlight note as Markdown. Raw HTML in the source
// is dropped by the renderer, so the fragment is safe to embed.
func NoteHTML(note string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := noteMarkdown.Convert([]byte(note), &buf); err != nil {
		return "", fmt.Errorf("render note: %w", err)
	}
	return template.HTML(strings.TrimSpace(buf.String())), nil
}
