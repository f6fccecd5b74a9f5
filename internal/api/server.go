package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/recipeview/internal/config"
	"github.com/dgallion1/recipeview/internal/recipe"
	"github.com/dgallion1/recipeview/internal/render"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for recipeview.
type Server struct {
	router   chi.Router
	renderer recipe.Renderer
	cache    *viewCache
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server. renderer may be nil for
// the default Markdown renderer.
func NewServer(renderer recipe.Renderer, log *slog.Logger, cfg config.Config) *Server {
	if renderer == nil {
		renderer = render.NewMarkdownRenderer()
	}
	s := &Server{
		renderer: renderer,
		cache:    newViewCache(cfg.CacheTTL),
		log:      log,
		cfg:      cfg,
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

	// Authenticated endpoints, when an API key is configured.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/recipes/parse", s.handleParse)
		r.Post("/api/recipes/scale", s.handleScale)
		r.Get("/api/stats/cache", s.handleCacheStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
