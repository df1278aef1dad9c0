// Package api serves the compose pipeline over HTTP.
//
// Routes:
//
//	GET    /health/live                  liveness
//	GET    /health/ready                 readiness
//	GET    /metrics                      Prometheus metrics (when enabled)
//	POST   /v1/validate                  validate a model
//	POST   /v1/compose                   compose and render a model
//	GET    /v1/diagrams                  list stored diagrams
//	GET    /v1/diagrams/{id}             stored diagram with its scene
//	GET    /v1/diagrams/{id}/{format}    render a stored diagram
//	DELETE /v1/diagrams/{id}             delete a stored diagram
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/diagramkit/pkg/buildinfo"
	"github.com/matzehuels/diagramkit/pkg/observability"
	"github.com/matzehuels/diagramkit/pkg/pipeline"
	"github.com/matzehuels/diagramkit/pkg/storage"
)

// DefaultMaxBodyBytes limits request bodies when Options leaves it zero.
const DefaultMaxBodyBytes = 1 << 20

// Options configures a Server.
type Options struct {
	Runner       *pipeline.Runner
	Store        storage.Store
	Defaults     pipeline.Options
	Logger       *log.Logger
	MaxBodyBytes int64
	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler
}

// Server holds the HTTP handlers.
type Server struct {
	runner   *pipeline.Runner
	store    storage.Store
	defaults pipeline.Options
	logger   *log.Logger
	maxBody  int64
	metrics  http.Handler
}

// New creates a server. A nil store selects an in-memory store and a nil
// runner an uncached one.
func New(o Options) *Server {
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	if o.Runner == nil {
		o.Runner = pipeline.NewRunner(nil, nil, o.Logger)
	}
	if o.Store == nil {
		o.Store = storage.NewMemoryStore()
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Server{
		runner:   o.Runner,
		store:    o.Store,
		defaults: o.Defaults,
		logger:   o.Logger,
		maxBody:  o.MaxBodyBytes,
		metrics:  o.Metrics,
	}
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", s.health)
	r.Get("/health/ready", s.health)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/validate", s.Validate)
		r.Post("/compose", s.Compose)
		r.Get("/diagrams", s.ListDiagrams)
		r.Get("/diagrams/{id}", s.GetDiagram)
		r.Get("/diagrams/{id}/{format}", s.RenderDiagram)
		r.Delete("/diagrams/{id}", s.DeleteDiagram)
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

// logRequests logs each request and reports it to the HTTP hooks under
// its route pattern.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, route, status, elapsed)
		s.logger.Debug("http request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
