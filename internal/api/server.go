// Package api exposes the Storekeeper REST API over huma and chi.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/storekeeperapp/storekeeper-server/internal/config"
	"github.com/storekeeperapp/storekeeper-server/internal/logger"
	"github.com/storekeeperapp/storekeeper-server/internal/store"
)

// Server hosts the REST API.
type Server struct {
	store    store.Store
	services *Services
	router   chi.Router
	api      huma.API
	logger   *logger.Logger
	http     *http.Server

	authRateLimiter *RateLimiter
}

// NewServer creates the API server and registers all routes.
func NewServer(cfg *config.Config, st store.Store, services *Services, log *logger.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// 10 auth attempts per minute per IP, small burst.
	authLimiter := NewRateLimiter(10, time.Minute, 5)
	router.Use(authRateLimitMiddleware(authLimiter, log))

	humaConfig := huma.DefaultConfig(cfg.Server.Name, "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:           st,
		services:        services,
		router:          router,
		api:             api,
		logger:          log,
		authRateLimiter: authLimiter,
	}

	s.http = &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerStoreRoutes()
	s.registerItemRoutes()
	s.registerTagRoutes()
	s.registerUserRoutes()

	return s
}

// Router returns the underlying chi router.
func (s *Server) Router() chi.Router {
	return s.router
}

// Start begins serving HTTP requests. It blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.http.Shutdown(ctx)
}
