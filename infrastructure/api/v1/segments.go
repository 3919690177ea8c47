package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/glossalab/glossa"
	"github.com/glossalab/glossa/infrastructure/api/jsonapi"
	"github.com/glossalab/glossa/infrastructure/api/middleware"
)

// SegmentsRouter handles segment sequence endpoints.
type SegmentsRouter struct {
	client     *glossa.Client
	serializer *jsonapi.Serializer
	logger     *slog.Logger
}

// NewSegmentsRouter creates a new SegmentsRouter.
func NewSegmentsRouter(client *glossa.Client) *SegmentsRouter {
	return &SegmentsRouter{
		client:     client,
		serializer: jsonapi.NewSerializer(),
		logger:     client.Logger(),
	}
}

// Routes returns the chi router for segment endpoints.
func (r *SegmentsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.List)

	return router
}

// List handles GET /api/v1/segments.
//
//	@Summary		List segments
//	@Description	Get the alternating plain and highlight spans covering the text exactly once, in text order
//	@Tags			segments
//	@Produce		json
//	@Success		200	{object}	jsonapi.Document
//	@Router			/segments [get]
func (r *SegmentsRouter) List(w http.ResponseWriter, req *http.Request) {
	segments, err := r.client.Segments()
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK,
		jsonapi.NewListResponse(r.serializer.SegmentResources(segments)))
}
