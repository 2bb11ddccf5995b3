// Package server hosts the tab socket endpoint and wires one recording pipeline per tab.
package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/nguyentantai21042004/caption-digest/internal/bridge"
	"github.com/nguyentantai21042004/caption-digest/internal/config"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/summarizer"
)

var extensionSchemes = []string{"chrome-extension://", "moz-extension://"}

// Server accepts tab connections.
type Server struct {
	cfg        *config.Config
	summarizer summarizer.Summarizer
	table      *bridge.Table
	registry   *Registry
	logger     logger.Logger
	upgrader   websocket.Upgrader
	router     chi.Router
}

// New creates the server. The summarizer is shared by every tab.
func New(cfg *config.Config, sum summarizer.Summarizer, table *bridge.Table, registry *Registry, log logger.Logger) *Server {
	s := &Server{
		cfg:        cfg,
		summarizer: sum,
		table:      table,
		registry:   registry,
		logger:     log,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Get("/tab", s.handleTab)
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// checkOrigin accepts the configured origins, or any extension origin when none are
// configured. Requests without an Origin header come from local tools and are accepted.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if len(s.cfg.Server.AllowedOrigins) > 0 {
		for _, o := range s.cfg.Server.AllowedOrigins {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
	for _, scheme := range extensionSchemes {
		if strings.HasPrefix(origin, scheme) {
			return true
		}
	}
	return false
}
