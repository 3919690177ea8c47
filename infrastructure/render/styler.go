// Package render resolves themes and renders the web views over the
// segment sequence produced by the engine.
package render

import (
	_ "embed"
	"fmt"
	"html/template"

	"gopkg.in/yaml.v3"
)

//go:embed themes.yaml
var themesYAML []byte

// SegmentKind selects which themed style applies to a rendered piece.
type SegmentKind string

// Segment kinds the views render.
const (
	KindPlain     SegmentKind = "plain"
	KindEditChip  SegmentKind = "edit_chip"
	KindHover     SegmentKind = "hover"
	KindQuizField SegmentKind = "quiz_field"
	KindCorrect   SegmentKind = "correct"
	KindIncorrect SegmentKind = "incorrect"
)

// Theme is one named entry of the style catalog. The style fields are
// inline CSS declaration lists.
type Theme struct {
	Name       string `yaml:"name"`
	Background string `yaml:"background"`
	Text       string `yaml:"text"`
	FontFamily string `yaml:"font_family"`
	Plain      string `yaml:"plain"`
	EditChip   string `yaml:"edit_chip"`
	Hover      string `yaml:"hover"`
	QuizField  string `yaml:"quiz_field"`
	Correct    string `yaml:"correct"`
	Incorrect  string `yaml:"incorrect"`
}

// For returns the inline style for a segment kind.
func (t Theme) For(kind SegmentKind) template.CSS {
	switch kind {
	case KindEditChip:
		return template.CSS(t.EditChip)
	case KindHover:
		return template.CSS(t.Hover)
	case KindQuizField:
		return template.CSS(t.QuizField)
	case KindCorrect:
		return template.CSS(t.Correct)
	case KindIncorrect:
		return template.CSS(t.Incorrect)
	default:
		return template.CSS(t.Plain)
	}
}

// PageCSS returns the page-level declarations.
func (t Theme) PageCSS() template.CSS {
	return template.CSS(fmt.Sprintf("background: %s; color: %s; font-family: %s;", t.Background, t.Text, t.FontFamily))
}

// Styler resolves theme names against the embedded catalog.
type Styler struct {
	themes map[string]Theme
	names  []string
	def    string
}

// NewStyler parses the embedded theme catalog.
func NewStyler() (*Styler, error) {
	var catalog struct {
		Default string  `yaml:"default"`
		Themes  []Theme `yaml:"themes"`
	}
	if err := yaml.Unmarshal(themesYAML, &catalog); err != nil {
		return nil, fmt.Errorf("parse theme catalog: %w", err)
	}
	s := &Styler{
		themes: make(map[string]Theme, len(catalog.Themes)),
		names:  make([]string, 0, len(catalog.Themes)),
		def:    catalog.Default,
	}
	for _, theme := range catalog.Themes {
		s.themes[theme.Name] = theme
		s.names = append(s.names, theme.Name)
	}
	if _, ok := s.themes[s.def]; !ok {
		return nil, fmt.Errorf("theme catalog: default theme %q is not defined", s.def)
	}
	return s, nil
}

// Resolve returns the named theme, falling back to the default for
// unknown names.
func (s *Styler) Resolve(name string) Theme {
	if theme, ok := s.themes[name]; ok {
		return theme
	}
	return s.themes[s.def]
}

// Names returns the catalog's theme names in catalog order.
func (s *Styler) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}
