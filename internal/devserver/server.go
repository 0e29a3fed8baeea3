// Package devserver implements the bundled development backend: an in-memory
// stand-in for the real ScholarSync API (and identity provider) with the same
// wire contract the client speaks, so the TUI can run against localhost.
package devserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/scholarsync/scholarsync/internal/observability"
)

// Config holds dev server configuration.
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MetricsEnabled  bool
}

// Server is the development backend HTTP server.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	store      *Store
	accounts   *accountStore
	validate   *validator.Validate
	metrics    *observability.Metrics
	registry   *prometheus.Registry
	logger     zerolog.Logger

	quoteCounter atomic.Uint64
	cfg          Config
}

// NewServer creates a new dev server bound to cfg.Address.
func NewServer(cfg Config, logger zerolog.Logger) *Server {
	registry := prometheus.NewRegistry()

	s := &Server{
		store:    NewStore(),
		accounts: newAccountStore(),
		validate: validator.New(),
		metrics:  observability.NewMetricsWithRegistry("scholarsync", registry),
		registry: registry,
		logger:   logger.With().Str("component", "dev-server").Logger(),
		cfg:      cfg,
	}

	s.router = s.buildRouter()

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

// buildRouter creates the chi router with all middleware and routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(escapedPathMiddleware)
	r.Use(s.metricsMiddleware)

	r.Get("/", s.rootHandler)
	r.Get("/health", s.healthHandler)
	r.Get("/api/random-quote", s.randomQuoteHandler)

	r.Post("/api/search", s.searchHandler)

	r.Route("/api/papers", func(r chi.Router) {
		r.Get("/", s.listPapersHandler)
		r.Delete("/", s.deletePaperHandler)
		r.Post("/save", s.savePaperHandler)
		r.Get("/download/{paperID}", s.downloadHandler)
		r.Get("/{paperID}", s.getPaperHandler)
		r.Get("/{paperID}/citation", s.citationHandler)
		r.Get("/{paperID}/related", s.relatedHandler)
	})

	r.Route("/api/reading-lists", func(r chi.Router) {
		r.Get("/", s.listReadingListsHandler)
		r.Post("/", s.createReadingListHandler)
		r.Get("/{listID}", s.getReadingListHandler)
		r.Delete("/{listID}", s.deleteReadingListHandler)
	})

	r.Route("/identity/v1", func(r chi.Router) {
		r.Post("/accounts:signIn", s.signInHandler)
		r.Post("/accounts:signUp", s.signUpHandler)
		r.Post("/accounts:signOut", s.signOutHandler)
	})

	if s.cfg.MetricsEnabled {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	return r
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info().Str("address", s.httpServer.Addr).Msg("dev server starting")
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on dev server address: %w", err)
	}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Hello from the ScholarSync dev server!"})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) randomQuoteHandler(w http.ResponseWriter, r *http.Request) {
	n := s.quoteCounter.Add(1)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    map[string]string{"quote": randomQuote(n - 1)},
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Best-effort; headers already sent.
		_ = err
	}
}

// writeDetail writes a FastAPI-style error body.
func writeDetail(w http.ResponseWriter, statusCode int, detail string) {
	writeJSON(w, statusCode, map[string]string{"detail": detail})
}
