// Package server exposes the transformation pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/ganttd/ganttd/internal/config"
	"github.com/ganttd/ganttd/internal/gantt"
)

// Server wraps the gin engine and the transformer behind it.
type Server struct {
	cfg         *config.Config
	log         *log.Logger
	transformer *gantt.Transformer
	router      *gin.Engine
}

// New builds a server around the given config and logger.
func New(cfg *config.Config, logger *log.Logger) *Server {
	s := &Server{
		cfg:         cfg,
		log:         logger,
		transformer: gantt.NewTransformer(logger),
	}
	s.buildRouter()
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) buildRouter() {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(s.log))
	router.Use(RecoveryMiddleware(s.log))

	router.GET("/healthz", s.handleHealthz)

	api := router.Group("/api/v1")
	api.POST("/transform", s.handleTransform)
	api.GET("/palette", s.handlePalette)

	s.router = router
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := s.cfg.ListenAddr()
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting HTTP server", "address", fmt.Sprintf("http://%s", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.log.Debug("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.log.Info("server shutdown complete")
	return nil
}
