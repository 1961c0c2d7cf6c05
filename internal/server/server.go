// Package server exposes an arena over an HTTP JSON API built on gin,
// with a websocket stream of combat events.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/boss-rush/internal/arena"
	"github.com/vovakirdan/boss-rush/internal/bestiary"
	"github.com/vovakirdan/boss-rush/internal/profile"
	"github.com/vovakirdan/boss-rush/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// History is the read side of fight persistence. *storage.Store satisfies it.
type History interface {
	RecentFights(limit int) ([]storage.FightRecord, error)
	KnightFights(name string, limit int) ([]storage.FightRecord, error)
}

// Server serves one shared arena.
type Server struct {
	arena    *arena.Arena
	profiles *profile.Service
	history  History
	logger   *log.Logger
	router   *gin.Engine
}

// New wires the routes. history may be nil, in which case /api/fights returns an empty list.
func New(a *arena.Arena, profiles *profile.Service, history History, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		arena:    a,
		profiles: profiles,
		history:  history,
		logger:   logger,
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.loggingMiddleware)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// Profiles
		api.POST("/knight", s.createKnight)
		api.GET("/knight/:name", s.readKnight)
		api.PUT("/knight/:name", s.updateKnight)
		api.DELETE("/knight/:name", s.deleteKnight)
		api.GET("/knights", s.listKnights)

		// Fight
		api.POST("/start_boss/:boss_id", s.startBoss)
		api.POST("/action", s.action)
		api.GET("/state", s.state)
		api.GET("/events", s.events)
		api.GET("/events/ws", s.eventStream)

		// Persistence
		api.GET("/save/:name", s.save)
		api.GET("/load/:name", s.readKnight)

		api.GET("/bosses", s.bosses)
		api.GET("/fights", s.fights)
	}

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// loggingMiddleware logs each request once it completes.
func (s *Server) loggingMiddleware(c *gin.Context) {
	start := time.Now()
	c.Next()

	fields := []any{
		"method", c.Request.Method,
		"path", c.FullPath(),
		"status", c.Writer.Status(),
		"duration", time.Since(start),
	}
	if len(c.Errors) > 0 {
		fields = append(fields, "error", c.Errors.String())
	}
	if c.Writer.Status() >= http.StatusInternalServerError {
		s.logger.Error("request", fields...)
		return
	}
	s.logger.Debug("request", fields...)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, profile.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, profile.ErrExists):
		return http.StatusConflict
	case errors.Is(err, profile.ErrInvalidName),
		errors.Is(err, arena.ErrNameRequired),
		errors.Is(err, arena.ErrPlayerMismatch),
		errors.Is(err, bestiary.ErrUnknownBoss):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
