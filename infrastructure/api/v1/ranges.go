package v1

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/glossalab/glossa"
	"github.com/glossalab/glossa/domain/annotation"
	"github.com/glossalab/glossa/domain/selection"
	"github.com/glossalab/glossa/infrastructure/api/events"
	"github.com/glossalab/glossa/infrastructure/api/jsonapi"
	"github.com/glossalab/glossa/infrastructure/api/middleware"
	"github.com/glossalab/glossa/infrastructure/api/v1/dto"
	"github.com/glossalab/glossa/infrastructure/render"
)

// RangesRouter handles highlight endpoints.
type RangesRouter struct {
	client     *glossa.Client
	hub        *events.Hub
	serializer *jsonapi.Serializer
	logger     *slog.Logger
}

// NewRangesRouter creates a new RangesRouter.
func NewRangesRouter(client *glossa.Client, hub *events.Hub) *RangesRouter {
	return &RangesRouter{
		client:     client,
		hub:        hub,
		serializer: jsonapi.NewSerializer(),
		logger:     client.Logger(),
	}
}

// Routes returns the chi router for highlight endpoints.
func (r *RangesRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.List)
	router.Post("/", r.Create)
	router.Post("/selection", r.CreateFromSelection)
	router.Delete("/{id}", r.Delete)

	return router
}

// List handles GET /api/v1/ranges.
//
//	@Summary		List highlights
//	@Description	Get all highlights ordered by start offset
//	@Tags			ranges
//	@Produce		json
//	@Success		200	{object}	jsonapi.Document
//	@Router			/ranges [get]
func (r *RangesRouter) List(w http.ResponseWriter, req *http.Request) {
	ranges, err := r.client.Ranges()
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK,
		jsonapi.NewListResponse(r.serializer.RangeResources(ranges)))
}

// Create handles POST /api/v1/ranges.
//
//	@Summary		Create highlight
//	@Description	Highlight the word-snapped expansion of a rune interval
//	@Tags			ranges
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.HighlightRequest	true	"Interval and optional note"
//	@Success		201		{object}	jsonapi.Document
//	@Failure		409		{object}	jsonapi.Document	"Overlaps an existing highlight"
//	@Failure		422		{object}	jsonapi.Document	"Selection contains no word characters"
//	@Security		APIKeyAuth
//	@Router			/ranges [post]
func (r *RangesRouter) Create(w http.ResponseWriter, req *http.Request) {
	var body dto.HighlightRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	rng, rejection, err := r.client.Highlight(req.Context(), body.Start, body.End, body.Note)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	if rejection != nil {
		r.writeRejection(w, req, rejection)
		return
	}

	r.hub.Broadcast(events.Message{Type: events.TypeRangeAdded, RangeID: rng.ID()})
	middleware.WriteJSON(w, http.StatusCreated,
		jsonapi.NewSingleResponse(r.serializer.RangeResource(rng)))
}

// CreateFromSelection handles POST /api/v1/ranges/selection.
//
//	@Summary		Create highlight from a view selection
//	@Description	Resolve a selection captured in the rendered view (segment index plus in-segment offset per caret) and highlight the result
//	@Tags			ranges
//	@Accept			json
//	@Produce		json
//	@Param			body	body		dto.SelectionRequest	true	"Selection carets and optional note"
//	@Success		201		{object}	jsonapi.Document
//	@Failure		409		{object}	jsonapi.Document	"Overlaps an existing highlight"
//	@Failure		422		{object}	jsonapi.Document	"Selection is empty or unresolvable"
//	@Security		APIKeyAuth
//	@Router			/ranges/selection [post]
func (r *RangesRouter) CreateFromSelection(w http.ResponseWriter, req *http.Request) {
	var body dto.SelectionRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	segments, err := r.client.Segments()
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	tree := render.SegmentTree(segments)
	anchor, okAnchor := caretPosition(tree, body.Anchor)
	focus, okFocus := caretPosition(tree, body.Focus)
	if !okAnchor || !okFocus {
		r.writeRejection(w, req, annotation.Reject(annotation.ReasonEmptyInterval))
		return
	}

	rng, rejection, err := r.client.HighlightSelection(req.Context(), tree,
		selection.NewSelection(anchor, focus), body.Note)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	if rejection != nil {
		r.writeRejection(w, req, rejection)
		return
	}

	r.hub.Broadcast(events.Message{Type: events.TypeRangeAdded, RangeID: rng.ID()})
	middleware.WriteJSON(w, http.StatusCreated,
		jsonapi.NewSingleResponse(r.serializer.RangeResource(rng)))
}

// Delete handles DELETE /api/v1/ranges/{id}.
//
//	@Summary		Delete highlight
//	@Description	Remove one highlight; the freed text becomes plain again. Removing an unknown id is a no-op.
//	@Tags			ranges
//	@Param			id	path	string	true	"Range ID"
//	@Success		204
//	@Security		APIKeyAuth
//	@Router			/ranges/{id} [delete]
func (r *RangesRouter) Delete(w http.ResponseWriter, req *http.Request) {
	id := chi.URLParam(req, "id")

	removed, err := r.client.Remove(id)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	if removed {
		r.hub.Broadcast(events.Message{Type: events.TypeRangeRemoved, RangeID: id})
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeRejection reports a refused highlight. Overlaps conflict with
// existing state; empty or unresolvable selections are unprocessable.
func (r *RangesRouter) writeRejection(w http.ResponseWriter, req *http.Request, rejection *annotation.Rejection) {
	status := http.StatusUnprocessableEntity
	if rejection.Reason() == annotation.ReasonOverlap {
		status = http.StatusConflict
	}

	r.logger.DebugContext(req.Context(), "highlight rejected",
		"reason", string(rejection.Reason()))
	middleware.WriteJSON(w, status, jsonapi.NewErrorResponse(jsonapi.NewError(
		strconv.Itoa(status), string(rejection.Reason()), "highlight rejected", rejection.String(),
	)))
}

// caretPosition addresses a caret inside the node tree that mirrors the
// rendered view. Highlight segments render as an element wrapping one
// text node; the caret offset counts within that text.
func caretPosition(tree *selection.Node, caret dto.CaretData) (selection.Position, bool) {
	children := tree.Children()
	if caret.Segment < 0 || caret.Segment >= len(children) {
		return selection.Position{}, false
	}

	node := children[caret.Segment]
	if !node.IsText() && len(node.Children()) > 0 {
		node = node.Children()[0]
	}
	return selection.NewPosition(node, caret.Offset), true
}
