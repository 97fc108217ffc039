// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CropSense Contributors

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cropsense-dev/cropsense/pkg/health"
)

const serviceName = "cropsense-ai-gateway"

// Config holds HTTP server configuration.
type Config struct {
	ListenAddr    string
	CORSOrigins   []string
	MaxImageBytes int64
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
}

// Server wraps a chi router with huma API and HTTP server.
type Server struct {
	router   chi.Router
	api      huma.API
	cfg      Config
	services *Services
	started  time.Time
}

// New creates a Server with chi router, huma API, health and root
// endpoints, and CORS.
func New(cfg Config) (*Server, error) {
	if cfg.ListenAddr == "" {
		return nil, fmt.Errorf("listen address is required")
	}
	if cfg.MaxImageBytes <= 0 {
		cfg.MaxImageBytes = 5 * 1024 * 1024
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 30 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 60 * time.Second
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(corsMiddleware(cfg.CORSOrigins))

	// Huma API with OpenAPI spec
	humaConfig := huma.DefaultConfig("CropSense AI Gateway", "1.0.0")
	humaConfig.Info.Description = "Crop image AI scoring and agriculture assistant chatbot API"
	api := humachi.New(r, humaConfig)

	srv := &Server{
		router:  r,
		api:     api,
		cfg:     cfg,
		started: time.Now(),
	}

	// Health endpoint
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"system"},
	}, func(_ context.Context, _ *struct{}) (*HealthResponse, error) {
		return &HealthResponse{Body: health.Since(serviceName, srv.started)}, nil
	})

	// Root endpoint
	huma.Register(api, huma.Operation{
		OperationID: "root",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Service banner",
		Tags:        []string{"system"},
	}, func(_ context.Context, _ *struct{}) (*RootResponse, error) {
		out := &RootResponse{}
		out.Body.Status = "ok"
		out.Body.Service = serviceName
		out.Body.Message = "Use /docs for API documentation."
		return out, nil
	})

	return srv, nil
}

// Handler returns the underlying http.Handler for testing.
func (s *Server) Handler() http.Handler {
	return s.router
}

// API returns the huma API for registering additional operations.
func (s *Server) API() huma.API {
	return s.api
}

// Start runs the HTTP server and blocks until the context is cancelled,
// then performs graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.ListenAddr, err)
	}

	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}

	return <-errCh
}

// HealthResponse wraps the health check response.
type HealthResponse struct {
	Body health.Snapshot
}

// RootBody is the JSON body of the root endpoint response.
type RootBody struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Service string `json:"service" doc:"Service name"`
	Message string `json:"message" doc:"Pointer to the API docs"`
}

// RootResponse wraps the root endpoint response.
type RootResponse struct {
	Body RootBody
}

func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
