// Package server provides the HTTP server and routing for moatwatch.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/moatwatch/internal/database"
	"github.com/aristath/moatwatch/internal/domain"
	"github.com/aristath/moatwatch/internal/events"
	"github.com/aristath/moatwatch/internal/modules/audit"
	scoringhandlers "github.com/aristath/moatwatch/internal/modules/scoring/api/handlers"
	"github.com/aristath/moatwatch/internal/services/analysis"
)

// RunTrigger starts analysis runs on demand
type RunTrigger interface {
	Execute(ctx context.Context, trigger string) (*analysis.Summary, error)
	Last() *analysis.Summary
}

// RunReader serves the persisted run history
type RunReader interface {
	LatestRun(ctx context.Context) (*audit.Run, error)
	ListRuns(ctx context.Context, limit int) ([]audit.Run, error)
	GetEvaluation(ctx context.Context, runID, symbol string) (*domain.ScoredStock, error)
	ListPicks(ctx context.Context, runID string) ([]domain.ScoredStock, error)
	ListSkipped(ctx context.Context, runID string) ([]domain.ErrorRecord, error)
}

// NextRunner reports when the next scheduled run fires
type NextRunner interface {
	NextRun() time.Time
}

// Config holds server configuration
type Config struct {
	Log       zerolog.Logger
	Port      int
	DevMode   bool
	OutputDir string
	AuditDB   *database.DB
	Runs      RunReader
	Analysis  RunTrigger
	Scoring   *scoringhandlers.Handlers
	Events    *events.Bus
	Scheduler NextRunner
}

// Server represents the HTTP server
type Server struct {
	router    *chi.Mux
	server    *http.Server
	log       zerolog.Logger
	port      int
	outputDir string
	auditDB   *database.DB
	runs      RunReader
	analysis  RunTrigger
	scoring   *scoringhandlers.Handlers
	events    *events.Bus
	scheduler NextRunner
	startedAt time.Time
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		log:       cfg.Log.With().Str("component", "server").Logger(),
		port:      cfg.Port,
		outputDir: cfg.OutputDir,
		auditDB:   cfg.AuditDB,
		runs:      cfg.Runs,
		analysis:  cfg.Analysis,
		scoring:   cfg.Scoring,
		events:    cfg.Events,
		scheduler: cfg.Scheduler,
		startedAt: time.Now(),
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // event streams stay open
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5, "text/html", "application/json"))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/", s.handleReport)

	s.router.Route("/api", func(r chi.Router) {
		// Event streams are long-lived and stay outside the request timeout
		if s.events != nil {
			r.Get("/events/stream", NewEventsStreamHandler(s.events, s.log).ServeHTTP)
			r.Get("/events/ws", NewEventsSocketHandler(s.events, s.log).ServeHTTP)
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Route("/runs", func(r chi.Router) {
				r.Get("/", s.handleListRuns)
				r.Post("/", s.handleTriggerRun)
				r.Get("/latest", s.handleLatestRun)
				r.Get("/latest/picks", s.handleLatestPicks)
				r.Get("/{runID}/picks", s.handleRunPicks)
				r.Get("/{runID}/skipped", s.handleRunSkipped)
			})

			r.Get("/stocks/{symbol}", s.handleGetStock)
			r.Get("/system/status", s.handleSystemStatus)

			if s.scoring != nil {
				s.scoring.RegisterRoutes(r)
			}
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
