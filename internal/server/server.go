// Package server provides the HTTP API for Bhraman.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperlocal/bhraman/internal/config"
	"github.com/hyperlocal/bhraman/internal/recommend"
)

// Server is the HTTP server for the Bhraman API.
type Server struct {
	service *recommend.Service
	config  *config.ServerConfig
	logger  *zap.Logger
	server  *http.Server
}

// NewServer creates a server over the recommendation service.
func NewServer(service *recommend.Service, cfg *config.ServerConfig, logger *zap.Logger) *Server {
	return &Server{
		service: service,
		config:  cfg,
		logger:  logger,
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Get("/health", s.handleHealth)
	r.Post("/api/v1/search", s.handleSearch)
	r.Get("/api/v1/places", s.handlePlaces)
	r.Get("/api/v1/cities", s.handleCities)
	r.Post("/api/v1/chat", s.handleChat)
	r.Post("/api/v1/route", s.handleRoute)
	r.Get("/api/v1/similar/{id}", s.handleSimilar)
	r.Get("/api/v1/prefs", s.handleGetPrefs)
	r.Post("/api/v1/prefs", s.handleSetPrefs)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
