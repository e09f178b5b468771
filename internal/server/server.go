// Package server exposes the extraction service over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/docufield/docufield/internal/export"
	"github.com/docufield/docufield/internal/extract"
	"github.com/docufield/docufield/internal/observability/metrics"
	"github.com/docufield/docufield/internal/pipeline"
	"github.com/docufield/docufield/internal/repository"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// Deps carries everything the handlers need.
type Deps struct {
	Tasks     *repository.TaskRepository
	Templates *repository.TemplateRepository
	Text      extract.TextExtractor
	Fields    extract.FieldExtractor
	Pipeline  *pipeline.TaskPipeline
	Export    *export.Service
	Metrics   *metrics.PipelineMetrics
	Health    func(ctx context.Context) error
	Logger    *slog.Logger

	// RequestTimeout bounds each request; zero means 60s.
	RequestTimeout time.Duration
	// AllowedOrigins for CORS; empty means allow all.
	AllowedOrigins []string
}

// New builds and wires all routes.
func New(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := &handlers{deps: deps, logger: logger}

	requestTimeout := deps.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 60 * time.Second
	}
	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/healthz", h.healthz)
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		api.Post("/parse-pdf", h.parsePDF)
		api.Post("/extract-data", h.extractData)

		api.Route("/tasks", func(tasks chi.Router) {
			tasks.Post("/", h.createTask)
			tasks.Get("/", h.listTasks)
			tasks.Get("/{id}", h.getTask)
			tasks.Delete("/{id}", h.deleteTask)
			tasks.Get("/{id}/export", h.exportTask)
		})

		api.Route("/templates", func(tpl chi.Router) {
			tpl.Get("/", h.listTemplates)
			tpl.Post("/", h.saveTemplate)
			tpl.Get("/{name}", h.getTemplate)
			tpl.Delete("/{name}", h.deleteTemplate)
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.logger.Info("http.listen", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http.shutdown")
	return s.httpServer.Shutdown(ctx)
}
