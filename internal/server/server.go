// Package server provides the HTTP server for pkgshelf.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	_ "github.com/HerbHall/pkgshelf/api/swagger" // registers the OpenAPI document
	"github.com/HerbHall/pkgshelf/internal/version"
)

// ReadinessChecker returns nil when the server can serve a catalog.
type ReadinessChecker func(ctx context.Context) error

// RouteRegistrar is implemented by packages that mount their own routes.
type RouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux)
}

// Server is the pkgshelf HTTP server.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
	ready      ReadinessChecker
}

// operationalPaths are neither rate limited nor logged above debug.
var operationalPaths = []string{"/healthz", "/readyz", "/metrics"}

// New builds the mux and middleware chain. dashboard may be nil. Swagger UI
// is only mounted when cfg.DevMode is set.
func New(cfg Config, logger *zap.Logger, ready ReadinessChecker, dashboard http.Handler, routes ...RouteRegistrar) *Server {
	s := &Server{
		logger: logger,
		mux:    http.NewServeMux(),
		ready:  ready,
	}

	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.mux.HandleFunc("GET /readyz", s.handleReadyz)
	s.mux.Handle("GET /metrics", promhttp.Handler())
	s.mux.HandleFunc("GET /api/v1/health", s.handleHealth)
	s.mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		NotFound(w, r, "no such endpoint")
	})

	for _, r := range routes {
		r.RegisterRoutes(s.mux)
	}

	if cfg.DevMode {
		s.mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
		logger.Info("swagger UI enabled", zap.String("path", "/swagger/"))
	}
	if dashboard != nil {
		s.mux.Handle("/", dashboard)
	}

	handler := Chain(s.mux,
		Recover(logger),
		RequestIDs,
		AccessLog(logger, operationalPaths...),
		ResponseHeaders,
		RateLimit(cfg.RateLimit, operationalPaths...),
	)
	s.httpServer = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      2 * time.Minute, // feed loads wait on the remote server
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the mux wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

type probeResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, probeResponse{Status: "alive"})
}

// handleReadyz reports whether a catalog is available to browse.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			WriteJSON(w, http.StatusServiceUnavailable, probeResponse{Status: "not ready", Error: err.Error()})
			return
		}
	}
	WriteJSON(w, http.StatusOK, probeResponse{Status: "ready"})
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status  string            `json:"status" example:"ok"`
	Service string            `json:"service" example:"pkgshelf"`
	Version map[string]string `json:"version"`
}

// handleHealth returns service health with build information.
//
//	@Summary		Health check
//	@Description	Returns service health status with version information.
//	@Tags			system
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Router			/health [get]
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: "pkgshelf",
		Version: version.Map(),
	})
}
