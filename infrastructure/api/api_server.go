package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/glossalab/glossa"
	"github.com/glossalab/glossa/infrastructure/api/events"
	apimiddleware "github.com/glossalab/glossa/infrastructure/api/middleware"
	v1 "github.com/glossalab/glossa/infrastructure/api/v1"
	mcpinternal "github.com/glossalab/glossa/internal/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// APIServer provides an HTTP API backed by a glossa Client.
type APIServer struct {
	client       *glossa.Client
	apiKeys      []string
	hub          *events.Hub
	server       *Server
	router       chi.Router
	routerCalled bool
	logger       *slog.Logger
}

// NewAPIServer creates a new APIServer wired to the given glossa Client.
// apiKeys configures write-protection: mutating endpoints (POST, PUT,
// DELETE) under /api/v1 require a valid key. Read-only endpoints, the
// event socket, MCP, and docs remain open.
func NewAPIServer(client *glossa.Client, apiKeys []string) *APIServer {
	return &APIServer{
		client:  client,
		apiKeys: apiKeys,
		hub:     events.NewHub(client.Logger()),
		logger:  client.Logger(),
	}
}

// Hub returns the event hub that fans session changes out to connected
// sockets. The caller owns its lifecycle: run it with Hub().Run(ctx)
// before serving, and cancel the context to disconnect all clients.
func (a *APIServer) Hub() *events.Hub {
	return a.hub
}

// Router returns the chi router for customization before starting.
// Call this first, add custom middleware with router.Use(), then call MountRoutes().
// If not called, ListenAndServe creates a default router with all standard routes.
func (a *APIServer) Router() chi.Router {
	if a.router != nil {
		return a.router
	}

	a.router = chi.NewRouter()
	a.routerCalled = true
	return a.router
}

// MountRoutes wires up all v1 API routes on the router.
// Call this after adding any custom middleware via Router().Use().
func (a *APIServer) MountRoutes() {
	if a.router == nil {
		a.Router()
	}
	a.mountRoutes(a.router)
}

// mountRoutes wires up all v1 API routes on the given router.
func (a *APIServer) mountRoutes(router chi.Router) {
	c := a.client

	sessionRouter := v1.NewSessionRouter(c, a.hub)
	rangesRouter := v1.NewRangesRouter(c, a.hub)
	segmentsRouter := v1.NewSegmentsRouter(c)
	quizRouter := v1.NewQuizRouter(c, a.hub)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", apimiddleware.APIKeyHeader},
		}))

		// Event socket — long-lived connection, so no timeout middleware.
		r.Get("/events", events.Handler(a.hub, a.logger))

		// Write-protected routes — mutating methods require a valid API key,
		// reads stay open.
		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Timeout(60 * time.Second))
			r.Use(apimiddleware.WriteProtectAuth(a.apiKeys))
			r.Mount("/session", sessionRouter.Routes())
			r.Mount("/ranges", rangesRouter.Routes())
			r.Mount("/segments", segmentsRouter.Routes())
			r.Mount("/quiz", quizRouter.Routes())
		})
	})

	// MCP (Model Context Protocol) endpoint — no timeout middleware.
	// MCP uses streaming responses and manages its own session state via
	// response headers, which is incompatible with chi's Timeout middleware
	// that wraps the ResponseWriter.
	mcpSrv := mcpinternal.NewServer(c, a.hub, "1.0.0", a.logger)
	httpHandler := server.NewStreamableHTTPServer(mcpSrv.MCPServer())
	router.Mount("/mcp", httpHandler)
}

// DocsRouter returns a router for Swagger UI and OpenAPI spec.
func (a *APIServer) DocsRouter(specURL string) *DocsRouter {
	return NewDocsRouter(specURL)
}

// ListenAndServe starts the HTTP server on the given address.
func (a *APIServer) ListenAndServe(addr string) error {
	server := NewServer(addr, a.logger)
	a.server = &server

	if a.routerCalled && a.router != nil {
		server.Router().Mount("/", a.router)
	} else {
		a.mountRoutes(server.Router())
	}

	return server.Start()
}

// Shutdown gracefully shuts down the server.
func (a *APIServer) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

// Handler returns the router as an http.Handler for use with custom servers.
func (a *APIServer) Handler() http.Handler {
	if a.router == nil {
		a.Router()
		a.MountRoutes()
	}
	return a.router
}
