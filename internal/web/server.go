// Package web exposes the timeline, rescheduling and dependency operations as
// a small JSON API.
package web

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/trackline/internal/service"
)

// Services are the use cases the API serves.
type Services struct {
	Timeline     service.TimelineService
	Features     service.FeatureService
	Dependencies service.DependencyService
}

// Server is the trackline API server.
type Server struct {
	svc    Services
	logger *slog.Logger
	router *gin.Engine
}

// NewServer creates a new API server. A nil logger discards request logs.
func NewServer(svc Services, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	s := &Server{
		svc:    svc,
		logger: logger,
		router: router,
	}

	api := router.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.GET("/projects/:id/timeline", s.handleTimeline)
		api.GET("/projects/:id/candidates", s.handleProjectCandidates)
		api.GET("/features/:id/candidates", s.handleFeatureCandidates)
		api.PATCH("/features/:id/dates", s.handleUpdateDates)
		api.GET("/features/:id/dependencies", s.handleListDependencies)
		api.POST("/features/:id/dependencies/:dep", s.handleAddDependency)
		api.DELETE("/features/:id/dependencies/:dep", s.handleRemoveDependency)
	}

	return s
}

// Handler returns the router for use with httptest or a custom server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
