// Package api exposes the converter over HTTP for service deployments.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	mdconvert "github.com/TimothySu2015/md-converter"
)

// Server is the HTTP API server for mdconvertd.
type Server struct {
	router  chi.Router
	pool    *mdconvert.ServicePool
	log     *slog.Logger
	timeout time.Duration
}

// NewServer creates and configures the HTTP server. Conversions draw
// services from the pool, so concurrent requests are bounded by the pool
// size.
func NewServer(pool *mdconvert.ServicePool, log *slog.Logger, timeout time.Duration) *Server {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	s := &Server{
		pool:    pool,
		log:     log,
		timeout: timeout,
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

	r.Get("/healthz", s.handleHealth)
	r.Post("/convert", s.handleConvert)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
