// Package v1 implements the versioned HTTP API over a glossa Client.
package v1

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/glossalab/glossa"
	"github.com/glossalab/glossa/application/service"
	"github.com/glossalab/glossa/infrastructure/api/events"
	"github.com/glossalab/glossa/infrastructure/api/jsonapi"
	"github.com/glossalab/glossa/infrastructure/api/middleware"
	"github.com/glossalab/glossa/infrastructure/api/v1/dto"
	"github.com/glossalab/glossa/infrastructure/source"
)

// maxUploadBytes bounds text file uploads.
const maxUploadBytes = 10 << 20

// SessionRouter handles session lifecycle endpoints.
type SessionRouter struct {
	client     *glossa.Client
	hub        *events.Hub
	serializer *jsonapi.Serializer
	logger     *slog.Logger
}

// NewSessionRouter creates a new SessionRouter.
func NewSessionRouter(client *glossa.Client, hub *events.Hub) *SessionRouter {
	return &SessionRouter{
		client:     client,
		hub:        hub,
		serializer: jsonapi.NewSerializer(),
		logger:     client.Logger(),
	}
}

// Routes returns the chi router for session endpoints.
func (r *SessionRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.Get)
	router.Put("/text", r.SetText)
	router.Post("/text/upload", r.Upload)
	router.Post("/step", r.Step)
	router.Put("/mode", r.SetMode)
	router.Put("/theme", r.SetTheme)

	return router
}

// Get handles GET /api/v1/session.
//
//	@Summary		Get session
//	@Description	Get the current session state
//	@Tags			session
//	@Produce		json
//	@Success		200	{object}	jsonapi.Document
//	@Failure		503	{object}	map[string]string
//	@Router			/session [get]
func (r *SessionRouter) Get(w http.ResponseWriter, req *http.Request) {
	r.respondSession(w, req, http.StatusOK)
}

// SetText handles PUT /api/v1/session/text.
//
//	@Summary		Set source text
//	@Description	Install a new source text, discarding all highlights
//	@Tags			session
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.SetTextRequest	true	"Source text"
//	@Success		200		{object}	jsonapi.Document
//	@Failure		400		{object}	map[string]string
//	@Security		APIKeyAuth
//	@Router			/session/text [put]
func (r *SessionRouter) SetText(w http.ResponseWriter, req *http.Request) {
	var body dto.SetTextRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	if err := r.client.SetText(body.Text); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	r.broadcastWithStep(events.TypeTextSet)
	r.respondSession(w, req, http.StatusOK)
}

// Upload handles POST /api/v1/session/text/upload.
//
//	@Summary		Upload source text
//	@Description	Install the source text from an uploaded file. PDF files have their text extracted; anything else is read as plain text.
//	@Tags			session
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Text or PDF file"
//	@Success		200		{object}	jsonapi.Document
//	@Failure		400		{object}	map[string]string
//	@Failure		422		{object}	map[string]string
//	@Security		APIKeyAuth
//	@Router			/session/text/upload [post]
func (r *SessionRouter) Upload(w http.ResponseWriter, req *http.Request) {
	if err := req.ParseMultipartForm(maxUploadBytes); err != nil {
		middleware.WriteError(w, req,
			middleware.NewAPIError(http.StatusBadRequest, "invalid multipart form", err), r.logger)
		return
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		middleware.WriteError(w, req,
			middleware.NewAPIError(http.StatusBadRequest, "missing file field", err), r.logger)
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	text := string(data)
	if strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		text, err = source.ExtractPDFText(req.Context(), data)
		if err != nil {
			middleware.WriteError(w, req,
				middleware.NewAPIError(http.StatusUnprocessableEntity, "could not extract text from PDF", err), r.logger)
			return
		}
	}

	if err := r.client.SetText(text); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	r.logger.Info("text uploaded",
		"filename", header.Filename, "bytes", len(data))
	r.broadcastWithStep(events.TypeTextSet)
	r.respondSession(w, req, http.StatusOK)
}

// Step handles POST /api/v1/session/step.
//
//	@Summary		Move between steps
//	@Description	Advance or retreat the session wizard
//	@Tags			session
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.StepRequest	true	"Direction: next or back"
//	@Success		200		{object}	jsonapi.Document
//	@Failure		400		{object}	map[string]string
//	@Failure		409		{object}	map[string]string
//	@Security		APIKeyAuth
//	@Router			/session/step [post]
func (r *SessionRouter) Step(w http.ResponseWriter, req *http.Request) {
	var body dto.StepRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	var err error
	switch body.Direction {
	case "next":
		_, err = r.client.Next()
	case "back":
		_, err = r.client.Back()
	default:
		err = middleware.NewAPIError(http.StatusBadRequest, "direction must be next or back", nil)
	}
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	r.broadcastWithStep(events.TypeStepChanged)
	r.respondSession(w, req, http.StatusOK)
}

// SetMode handles PUT /api/v1/session/mode.
//
//	@Summary		Set play mode
//	@Description	Switch between hover and quiz play
//	@Tags			session
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.SetModeRequest	true	"Mode: hover or quiz"
//	@Success		200		{object}	jsonapi.Document
//	@Failure		400		{object}	map[string]string
//	@Security		APIKeyAuth
//	@Router			/session/mode [put]
func (r *SessionRouter) SetMode(w http.ResponseWriter, req *http.Request) {
	var body dto.SetModeRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	if err := r.client.SetMode(service.PlayMode(body.Mode)); err != nil {
		if errors.Is(err, service.ErrClientClosed) {
			middleware.WriteError(w, req, err, r.logger)
		} else {
			middleware.WriteError(w, req,
				middleware.NewAPIError(http.StatusBadRequest, err.Error(), err), r.logger)
		}
		return
	}

	r.hub.Broadcast(events.Message{Type: events.TypeModeChanged, Mode: body.Mode})
	r.respondSession(w, req, http.StatusOK)
}

// SetTheme handles PUT /api/v1/session/theme.
//
//	@Summary		Set theme
//	@Description	Select the display theme for every view
//	@Tags			session
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.SetThemeRequest	true	"Theme name"
//	@Success		200		{object}	jsonapi.Document
//	@Failure		400		{object}	map[string]string
//	@Security		APIKeyAuth
//	@Router			/session/theme [put]
func (r *SessionRouter) SetTheme(w http.ResponseWriter, req *http.Request) {
	var body dto.SetThemeRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	if body.Theme == "" {
		middleware.WriteError(w, req,
			middleware.NewAPIError(http.StatusBadRequest, "theme must not be empty", nil), r.logger)
		return
	}

	if err := r.client.SetTheme(body.Theme); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	r.hub.Broadcast(events.Message{Type: events.TypeThemeChanged, Theme: body.Theme})
	r.respondSession(w, req, http.StatusOK)
}

func (r *SessionRouter) respondSession(w http.ResponseWriter, req *http.Request, status int) {
	attrs, err := sessionAttributes(r.client)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, status, jsonapi.NewSingleResponse(r.serializer.SessionResource(attrs)))
}

func (r *SessionRouter) broadcastWithStep(eventType string) {
	msg := events.Message{Type: eventType}
	if step, err := r.client.Step(); err == nil {
		msg.Step = string(step)
	}
	r.hub.Broadcast(msg)
}

// sessionAttributes snapshots the session for serialization.
func sessionAttributes(client *glossa.Client) (jsonapi.SessionAttributes, error) {
	step, err := client.Step()
	if err != nil {
		return jsonapi.SessionAttributes{}, err
	}
	mode, err := client.Mode()
	if err != nil {
		return jsonapi.SessionAttributes{}, err
	}
	theme, err := client.Theme()
	if err != nil {
		return jsonapi.SessionAttributes{}, err
	}
	text, err := client.Text()
	if err != nil {
		return jsonapi.SessionAttributes{}, err
	}
	count, err := client.RangeCount()
	if err != nil {
		return jsonapi.SessionAttributes{}, err
	}

	return jsonapi.SessionAttributes{
		Step:       string(step),
		Mode:       string(mode),
		Theme:      theme,
		Text:       text,
		RangeCount: count,
		QuizActive: client.QuizActive(),
	}, nil
}
