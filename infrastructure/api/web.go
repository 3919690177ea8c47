package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/glossalab/glossa"
	"github.com/glossalab/glossa/application/service"
	"github.com/glossalab/glossa/infrastructure/api/middleware"
	"github.com/glossalab/glossa/infrastructure/render"
)

// WebRouter serves the HTML views: the edit page for entering text and
// selecting highlights, and the play page for hover reveal and quiz.
// The pages drive the session through the v1 API and reload on events
// from the socket, so handlers here only ever read.
type WebRouter struct {
	client *glossa.Client
	views  *render.Views
	styler *render.Styler
	logger *slog.Logger
}

// NewWebRouter parses the embedded templates and theme catalog.
func NewWebRouter(client *glossa.Client) (*WebRouter, error) {
	views, err := render.NewViews()
	if err != nil {
		return nil, err
	}
	styler, err := render.NewStyler()
	if err != nil {
		return nil, err
	}
	return &WebRouter{
		client: client,
		views:  views,
		styler: styler,
		logger: client.Logger(),
	}, nil
}

// Routes returns the web routes.
func (r *WebRouter) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", r.Home)
	router.Get("/edit", r.Edit)
	router.Get("/play", r.Play)
	return router
}

// Home redirects to the view matching the session's wizard position.
func (r *WebRouter) Home(w http.ResponseWriter, req *http.Request) {
	step, err := r.client.Step()
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	target := "/edit"
	if step == service.StepPlay {
		target = "/play"
	}
	http.Redirect(w, req, target, http.StatusSeeOther)
}

// Edit renders the text entry and highlight selection page.
func (r *WebRouter) Edit(w http.ResponseWriter, req *http.Request) {
	data, err := r.pageData()
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := r.views.Edit(w, data); err != nil {
		r.logger.ErrorContext(req.Context(), "render edit view failed", slog.Any("error", err))
	}
}

// Play renders the hover reveal or quiz page.
func (r *WebRouter) Play(w http.ResponseWriter, req *http.Request) {
	data, err := r.pageData()
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := r.views.Play(w, data); err != nil {
		r.logger.ErrorContext(req.Context(), "render play view failed", slog.Any("error", err))
	}
}

// pageData assembles the template data from the session. Quiz views are
// only attached while a board is live; the templates skip them
// otherwise.
func (r *WebRouter) pageData() (render.PageData, error) {
	step, err := r.client.Step()
	if err != nil {
		return render.PageData{}, err
	}
	mode, err := r.client.Mode()
	if err != nil {
		return render.PageData{}, err
	}
	themeName, err := r.client.Theme()
	if err != nil {
		return render.PageData{}, err
	}
	text, err := r.client.Text()
	if err != nil {
		return render.PageData{}, err
	}
	count, err := r.client.RangeCount()
	if err != nil {
		return render.PageData{}, err
	}
	segments, err := r.client.Segments()
	if err != nil {
		return render.PageData{}, err
	}

	data := render.PageData{
		Theme:      r.styler.Resolve(themeName),
		ThemeNames: r.styler.Names(),
		Step:       string(step),
		Mode:       string(mode),
		Text:       text,
		RangeCount: count,
		Segments:   render.SegmentViews(segments),
	}
	if r.client.QuizActive() {
		items, err := r.client.QuizItems()
		if err != nil {
			return render.PageData{}, err
		}
		data.Quiz = render.QuizViews(items)
	}
	return data, nil
}
