package v1

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/glossalab/glossa"
	"github.com/glossalab/glossa/application/service"
	"github.com/glossalab/glossa/domain/quiz"
	"github.com/glossalab/glossa/infrastructure/api/events"
	"github.com/glossalab/glossa/infrastructure/api/jsonapi"
	"github.com/glossalab/glossa/infrastructure/api/middleware"
	"github.com/glossalab/glossa/infrastructure/api/v1/dto"
)

// QuizRouter handles quiz endpoints.
type QuizRouter struct {
	client     *glossa.Client
	hub        *events.Hub
	serializer *jsonapi.Serializer
	logger     *slog.Logger
}

// NewQuizRouter creates a new QuizRouter.
func NewQuizRouter(client *glossa.Client, hub *events.Hub) *QuizRouter {
	return &QuizRouter{
		client:     client,
		hub:        hub,
		serializer: jsonapi.NewSerializer(),
		logger:     client.Logger(),
	}
}

// Routes returns the chi router for quiz endpoints.
func (r *QuizRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", r.Start)
	router.Get("/", r.List)
	router.Post("/{id}/input", r.Input)
	router.Post("/{id}/check", r.Check)
	router.Post("/{id}/reveal", r.Reveal)
	router.Post("/{id}/reset", r.Reset)

	return router
}

// Start handles POST /api/v1/quiz.
//
//	@Summary		Start quiz
//	@Description	Switch the session into quiz play with a fresh item per highlight
//	@Tags			quiz
//	@Produce		json
//	@Success		200	{object}	jsonapi.Document
//	@Failure		409	{object}	map[string]string	"No source text set"
//	@Security		APIKeyAuth
//	@Router			/quiz [post]
func (r *QuizRouter) Start(w http.ResponseWriter, req *http.Request) {
	items, err := r.client.StartQuiz()
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	r.hub.Broadcast(events.Message{
		Type: events.TypeQuizStarted,
		Step: string(service.StepPlay),
		Mode: string(service.ModeQuiz),
	})
	middleware.WriteJSON(w, http.StatusOK,
		jsonapi.NewListResponse(r.serializer.QuizItemResources(items)))
}

// List handles GET /api/v1/quiz.
//
//	@Summary		List quiz items
//	@Description	Get the active quiz's items in text order
//	@Tags			quiz
//	@Produce		json
//	@Success		200	{object}	jsonapi.Document
//	@Failure		409	{object}	map[string]string	"Quiz is not active"
//	@Router			/quiz [get]
func (r *QuizRouter) List(w http.ResponseWriter, req *http.Request) {
	items, err := r.client.QuizItems()
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK,
		jsonapi.NewListResponse(r.serializer.QuizItemResources(items)))
}

// Input handles POST /api/v1/quiz/{id}/input.
//
//	@Summary		Record answer input
//	@Description	Store the learner's in-progress answer for one item, clearing any prior judgment
//	@Tags			quiz
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Range ID"
//	@Param			body	body		dto.QuizInputRequest	true	"Answer text"
//	@Success		200		{object}	jsonapi.Document
//	@Failure		404		{object}	map[string]string
//	@Failure		409		{object}	map[string]string
//	@Security		APIKeyAuth
//	@Router			/quiz/{id}/input [post]
func (r *QuizRouter) Input(w http.ResponseWriter, req *http.Request) {
	var body dto.QuizInputRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	item, err := r.client.QuizInput(chi.URLParam(req, "id"), body.Value)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	r.respondItem(w, item)
}

// Check handles POST /api/v1/quiz/{id}/check.
//
//	@Summary		Check answer
//	@Description	Grade the recorded answer; matching ignores case and surrounding whitespace
//	@Tags			quiz
//	@Produce		json
//	@Param			id	path		string	true	"Range ID"
//	@Success		200	{object}	jsonapi.Document
//	@Failure		404	{object}	map[string]string
//	@Failure		409	{object}	map[string]string
//	@Security		APIKeyAuth
//	@Router			/quiz/{id}/check [post]
func (r *QuizRouter) Check(w http.ResponseWriter, req *http.Request) {
	item, err := r.client.QuizCheck(chi.URLParam(req, "id"))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	r.hub.Broadcast(events.Message{Type: events.TypeQuizChecked, RangeID: item.RangeID()})
	r.respondItem(w, item)
}

// Reveal handles POST /api/v1/quiz/{id}/reveal.
//
//	@Summary		Reveal answer
//	@Description	Show the expected answer after a wrong guess
//	@Tags			quiz
//	@Produce		json
//	@Param			id	path		string	true	"Range ID"
//	@Success		200	{object}	jsonapi.Document
//	@Failure		404	{object}	map[string]string
//	@Failure		409	{object}	map[string]string
//	@Security		APIKeyAuth
//	@Router			/quiz/{id}/reveal [post]
func (r *QuizRouter) Reveal(w http.ResponseWriter, req *http.Request) {
	item, err := r.client.QuizReveal(chi.URLParam(req, "id"))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	r.hub.Broadcast(events.Message{Type: events.TypeQuizRevealed, RangeID: item.RangeID()})
	r.respondItem(w, item)
}

// Reset handles POST /api/v1/quiz/{id}/reset.
//
//	@Summary		Reset item
//	@Description	Return one item to its unanswered state with an empty input
//	@Tags			quiz
//	@Produce		json
//	@Param			id	path		string	true	"Range ID"
//	@Success		200	{object}	jsonapi.Document
//	@Failure		404	{object}	map[string]string
//	@Failure		409	{object}	map[string]string
//	@Security		APIKeyAuth
//	@Router			/quiz/{id}/reset [post]
func (r *QuizRouter) Reset(w http.ResponseWriter, req *http.Request) {
	item, err := r.client.QuizReset(chi.URLParam(req, "id"))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	r.hub.Broadcast(events.Message{Type: events.TypeQuizReset, RangeID: item.RangeID()})
	r.respondItem(w, item)
}

func (r *QuizRouter) respondItem(w http.ResponseWriter, item quiz.Item) {
	middleware.WriteJSON(w, http.StatusOK,
		jsonapi.NewSingleResponse(r.serializer.QuizItemResource(item)))
}
