// Package server exposes the scheduling engine over HTTP.
//
// The API mirrors the original web application: a JSON compute endpoint, a
// PDF report endpoint and a small run-history surface when a store is
// attached. All input sanitization happens here; the engine receives
// already-typed, already-clean task lists.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tchevalier/mpm/internal/store"
)

// Server wires the engine, the optional run store and the HTTP router.
type Server struct {
	logger *slog.Logger
	store  *store.Store // nil disables the history endpoints
	router *gin.Engine
}

// New builds a ready-to-serve Server. st may be nil.
func New(logger *slog.Logger, st *store.Store) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{logger: logger, store: st}
	s.router = s.buildRouter()
	return s
}

// Handler returns the root http.Handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	s.logger.Info("mpm api listening", "addr", addr)
	return s.router.Run(addr)
}

func (s *Server) buildRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLog())

	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := router.Group("/api")
	api.POST("/schedule", s.handleSchedule)
	api.POST("/report", s.handleReport)
	if s.store != nil {
		api.GET("/runs", s.handleListRuns)
		api.GET("/runs/:id", s.handleGetRun)
	}
	return router
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
