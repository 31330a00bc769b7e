// Package api serves the generated artifacts and the calculator, browser
// and craft guide endpoints.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/patrickmn/go-cache"

	"github.com/OCharnyshevich/wakfu-craft/internal/calculator"
	"github.com/OCharnyshevich/wakfu-craft/internal/storage"
	"github.com/OCharnyshevich/wakfu-craft/internal/store"
)

// Options configures a Server. Zero values disable the matching feature
// or fall back to defaults.
type Options struct {
	DB                *store.Store
	Curve             calculator.Curve
	ResourcesPerCraft int
	CacheTTL          time.Duration
	AllowedOrigins    []string
}

// Server holds the HTTP server dependencies.
type Server struct {
	st     *storage.Storage
	opts   Options
	cache  *cache.Cache
	log    *slog.Logger
	router chi.Router
}

func New(st *storage.Storage, opts Options, log *slog.Logger) *Server {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Minute
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	s := &Server{
		st:     st,
		opts:   opts,
		cache:  cache.New(opts.CacheTTL, 5*opts.CacheTTL),
		log:    log,
		router: chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/data/*", s.handleData)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/version", s.handleVersion)
		r.Get("/calculator", s.handleCalculator)

		r.Get("/sublimations/{lang}", s.handleSublimations)
		r.Get("/sublimations/{lang}/{name}", s.handleSublimation)

		r.Get("/items/{id}", s.handleItem)
		r.Get("/items/{id}/guide", s.handleGuide)

		r.Get("/runs", s.handleRuns)
	})

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
