package site

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions configures the pieces of the router that depend on deployment.
type RouterOptions struct {
	CORSOrigins []string
	// AssetsDir and DataDir are served as static trees when set.
	AssetsDir string
	DataDir   string
	Timeout   time.Duration
}

// NewRouter wires middleware, pages, the JSON API and static files.
func NewRouter(h *Handler, opts RouterOptions) chi.Router {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(opts.Timeout))

	r.Get("/health", h.HealthCheck)

	// Pages
	r.Group(func(r chi.Router) {
		r.Use(ClientID)
		r.Get("/", h.Home)
		r.Get("/board", h.Board)
		r.Get("/board/card", h.Card)
		r.Get("/history", h.History)
		r.Get("/consensus", h.Consensus)
		r.Post("/columns/{table}/toggle", h.ToggleColumn)
	})

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/board", h.GetBoard)
		r.Get("/history", h.GetHistory)
		r.Get("/consensus", h.GetConsensus)
		r.Get("/trend", h.GetTrend)
	})

	if opts.AssetsDir != "" {
		r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.Dir(opts.AssetsDir))))
	}
	if opts.DataDir != "" {
		r.Handle("/data/*", http.StripPrefix("/data/", http.FileServer(http.Dir(opts.DataDir))))
	}

	return r
}
