// Package http provides the gin HTTP server, its router and shared middleware.
package http

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apikeyHTTP "github.com/dandi-labs/dandi/internal/apikey/http"
	apikeyUseCase "github.com/dandi-labs/dandi/internal/apikey/usecase"
	authHTTP "github.com/dandi-labs/dandi/internal/auth/http"
	authService "github.com/dandi-labs/dandi/internal/auth/service"
	"github.com/dandi-labs/dandi/internal/config"
	"github.com/dandi-labs/dandi/internal/metrics"
)

const readinessTimeout = 2 * time.Second

// Server represents the HTTP server
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// NewServer creates a new HTTP server. SetupRouter must be called before Start.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the gin engine with every route.
//
// Session authenticated routes live under /apikeys. /validate-key is public and
// /v1/data is authenticated with a bearer api key.
func (s *Server) SetupRouter(
	cfg *config.Config,
	apiKeyHandler *apikeyHTTP.APIKeyHandler,
	validateKeyHandler *apikeyHTTP.ValidateKeyHandler,
	dataHandler *apikeyHTTP.DataHandler,
	apiKeyUseCase apikeyUseCase.APIKeyUseCase,
	sessionVerifier authService.SessionVerifier,
	metricsProvider *metrics.Provider,
) {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), metricsProvider.Namespace()))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	apiKeys := router.Group("/apikeys")
	apiKeys.Use(authHTTP.SessionMiddleware(sessionVerifier, cfg.SessionCookieName, s.logger))
	{
		apiKeys.GET("", apiKeyHandler.ListHandler)
		apiKeys.POST("", apiKeyHandler.CreateHandler)
		apiKeys.POST("/import", apiKeyHandler.ImportHandler)
		apiKeys.GET("/:id", apiKeyHandler.GetHandler)
		apiKeys.PUT("/:id", apiKeyHandler.RenameHandler)
		apiKeys.DELETE("/:id", apiKeyHandler.DeleteHandler)
	}

	router.POST("/validate-key", validateKeyHandler.ValidateHandler)

	v1 := router.Group("/v1")
	v1.Use(apikeyHTTP.APIKeyMiddleware(apiKeyUseCase, s.logger))
	{
		v1.GET("/data", dataHandler.ListHandler)
	}

	s.router = router
	s.server.Handler = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return errors.New("router not initialized: call SetupRouter before Start")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports ready only when the database answers a ping.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.db == nil {
		s.notReady(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		s.notReady(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}

func (s *Server) notReady(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"status":     "not_ready",
		"components": gin.H{"database": "error"},
	})
}
