// Package server wires the HTTP server of serve mode: router, middleware
// chain, routes, and graceful shutdown.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/giygas/pmda-datasets/config"
	"github.com/giygas/pmda-datasets/handlers"
	"github.com/giygas/pmda-datasets/interfaces"
	"github.com/giygas/pmda-datasets/logging"
	"github.com/giygas/pmda-datasets/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server represents the HTTP server.
type Server struct {
	server  *http.Server
	router  chi.Router
	handler *handlers.Handler
	config  *config.Config
}

// NewServer creates a server instance serving the given data store.
func NewServer(cfg *config.Config, dataStore interfaces.DataStore, validator interfaces.DataValidator) *Server {
	router := chi.NewRouter()

	s := &Server{
		server: &http.Server{
			Handler:        router,
			Addr:           cfg.Address + ":" + cfg.Port,
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: 1 << 20,
		},
		router:  router,
		handler: handlers.NewHandler(dataStore, validator),
		config:  cfg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RealIPMiddleware)
	s.router.Use(SlogMiddleware)
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(metrics.Metrics)
	s.router.Use(RateLimitHandler)
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/otc/{pageNumber}", s.handler.ServePagedOTCProducts)
	s.router.Get("/otc/product/{code}", s.handler.FindOTCProductByCode)
	s.router.Get("/otc/ingredient/{name}", s.handler.FindOTCIngredient)
	s.router.Get("/iyaku/{pageNumber}", s.handler.ServePagedIyakuProducts)
	s.router.Get("/iyaku/ingredient/{name}", s.handler.FindIyakuIngredient)
	s.router.Get("/health", s.handler.ServeHealth)
	s.router.Handle("/metrics", promhttp.Handler())
}

// Start starts the server.
func (s *Server) Start() error {
	logging.Info(fmt.Sprintf("Starting server at: %s:%s", s.config.Address, s.config.Port))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	logging.Info("Server shutdown complete")
	return nil
}
