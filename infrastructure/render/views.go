package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"unicode/utf8"

	"github.com/glossalab/glossa/domain/annotation"
	"github.com/glossalab/glossa/domain/quiz"
	"github.com/glossalab/glossa/domain/selection"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// SegmentView is one segment prepared for the templates.
type SegmentView struct {
	Index     int
	Content   string
	Highlight bool
	RangeID   string
	Note      string
}

// QuizItemView is one quiz item prepared for the play template. Answer
// is filled only for the state that displays it.
type QuizItemView struct {
	RangeID string
	Input   string
	State   string
	Answer  string
	Width   int
}

// PageData carries everything the edit and play templates consume.
type PageData struct {
	Theme      Theme
	ThemeNames []string
	Step       string
	Mode       string
	Text       string
	RangeCount int
	Segments   []SegmentView
	Quiz       map[string]*QuizItemView
}

// Views renders the edit and play pages from the embedded templates.
type Views struct {
	templates *template.Template
}

// NewViews parses the embedded templates.
func NewViews() (*Views, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"noteHTML": func(note string) template.HTML {
			frag, err := NoteHTML(note)
			if err != nil {
				return template.HTML(template.HTMLEscapeString(note))
			}
			return frag
		},
		"styleFor": func(t Theme, kind string) template.CSS {
			return t.For(SegmentKind(kind))
		},
	}).ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse view templates: %w", err)
	}
	return &Views{templates: t}, nil
}

// Edit renders the edit view (text entry and highlight selection).
func (v *Views) Edit(w io.Writer, data PageData) error {
	if err := v.templates.ExecuteTemplate(w, "edit.html.tmpl", data); err != nil {
		return fmt.Errorf("render edit view: %w", err)
	}
	return nil
}

// Play renders the play view (hover reveal or quiz).
func (v *Views) Play(w io.Writer, data PageData) error {
	if err := v.templates.ExecuteTemplate(w, "play.html.tmpl", data); err != nil {
		return fmt.Errorf("render play view: %w", err)
	}
	return nil
}

// SegmentViews converts engine segments into template data.
func SegmentViews(segs []annotation.Segment) []SegmentView {
	out := make([]SegmentView, 0, len(segs))
	for i, seg := range segs {
		view := SegmentView{Index: i, Content: seg.Content(), Highlight: seg.IsHighlight()}
		if r, ok := seg.Range(); ok {
			view.RangeID = r.ID()
			view.Note = r.Translation()
		}
		out = append(out, view)
	}
	return out
}

// QuizViews converts quiz items into template data keyed by range id.
func QuizViews(items []quiz.Item) map[string]*QuizItemView {
	out := make(map[string]*QuizItemView, len(items))
	for _, item := range items {
		view := &QuizItemView{
			RangeID: item.RangeID(),
			Input:   item.Input(),
			State:   string(item.State()),
			Width:   utf8.RuneCountInString(item.Answer()),
		}
		if view.Width < 4 {
			view.Width = 4
		}
		if item.State() == quiz.StateIncorrectShown {
			view.Answer = item.Answer()
		}
		out[item.RangeID()] = view
	}
	return out
}

// SegmentTree mirrors the DOM the edit template renders: one child per
// segment, plain segments as text nodes, highlights as elements wrapping
// one text node. Selection payloads resolve against this tree.
func SegmentTree(segs []annotation.Segment) *selection.Node {
	children := make([]*selection.Node, 0, len(segs))
	for _, seg := range segs {
		if seg.IsHighlight() {
			children = append(children, selection.NewElementNode(selection.NewTextNode(seg.Content())))
		} else {
			children = append(children, selection.NewTextNode(seg.Content()))
		}
	}
	return selection.NewElementNode(children...)
}
