package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/artgav/amnola-tpp-convertor/internal/config"
	"github.com/artgav/amnola-tpp-convertor/internal/history"
	"github.com/artgav/amnola-tpp-convertor/internal/pipeline"
)

// History lists recorded conversions; *history.Store implements it.
type History interface {
	Recent(ctx context.Context, limit int) ([]history.Entry, error)
}

// Server is the HTTP API server for the convertor.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	history      History
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. hist may be nil.
func NewServer(orch *pipeline.Orchestrator, hist History, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		history:      hist,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/convert", s.handleConvert)
		r.Post("/api/preview", s.handlePreview)

		r.Post("/api/jobs", s.handleSubmit)
		r.Post("/api/jobs/batch", s.handleBatchSubmit)
		r.Get("/api/jobs/{jobID}/status", s.handleJobStatus)

		r.Get("/api/history", s.handleHistory)
		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
