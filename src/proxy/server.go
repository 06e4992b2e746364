// Package proxy serves the dashboard API and forwards read-only calls to
// the configured CI servers with their bearer token injected, so tokens
// never reach the browser.
package proxy

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"moirai-dashboard/src/dashboard"
	"moirai-dashboard/src/provider"
)

// Options configures the HTTP surface.
type Options struct {
	// StaticDir holds the browser dashboard. Empty disables static files.
	StaticDir      string
	AllowedOrigins []string
	// AccessLog receives one event per request. Nil disables access logs.
	AccessLog *zerolog.Logger
}

// Server wires the registry and dashboard service to HTTP routes.
type Server struct {
	registry  *provider.Registry
	dashboard *dashboard.Service
	opts      Options
	validate  *validator.Validate
}

// New creates a server.
func New(registry *provider.Registry, svc *dashboard.Service, opts Options) *Server {
	return &Server{
		registry:  registry,
		dashboard: svc,
		opts:      opts,
		validate:  validator.New(),
	}
}

// Router returns the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(recoverer(s.opts.AccessLog))
	r.Use(accessLog(s.opts.AccessLog))
	r.Use(metricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: originsOrAll(s.opts.AllowedOrigins),
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/api/servers", s.handleServers)
	r.Get("/api/repos/{serverId}", s.handleRepos)
	r.Route("/api/dashboard/{serverId}/{owner}/{name}", func(r chi.Router) {
		r.Get("/", s.handleAllTabs)
		r.Get("/details", s.handleDetails)
		r.Get("/{tab}", s.handleTab)
	})

	r.Get("/proxy/{serverId}/*", s.handleProxy)

	if s.opts.StaticDir != "" {
		r.Get("/*", staticFiles(s.opts.StaticDir))
	}

	return r
}

func originsOrAll(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}
