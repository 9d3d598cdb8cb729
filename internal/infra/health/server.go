// Package health serves the poll loop state over HTTP for liveness probes.
package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"homework_status_bot/internal/app"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SnapshotProvider exposes the latest poll loop state.
type SnapshotProvider interface {
	Snapshot() app.Snapshot
}

// NewRouter builds the gin engine with the /healthz route.
func NewRouter(provider SnapshotProvider, logger *logrus.Entry) *gin.Engine {
	g := gin.New()
	g.Use(gin.Recovery(), requestLogger(logger))
	g.GET("/healthz", func(c *gin.Context) {
		snap := provider.Snapshot()
		code := http.StatusOK
		if snap.Outcome == app.OutcomeFailed {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, snap)
	})
	return g
}

func requestLogger(logger *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Debug("Health request served")
	}
}

// Server runs the health router until Shutdown.
type Server struct {
	httpServer *http.Server
	logger     *logrus.Entry
}

func NewServer(addr string, provider SnapshotProvider, logger *logrus.Entry) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(provider, logger),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start listens in a background goroutine.
func (s *Server) Start() {
	go func() {
		s.logger.WithField("addr", s.httpServer.Addr).Info("Health server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("Health server stopped")
		}
	}()
}

// Shutdown stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down health server: %w", err)
	}
	return nil
}
