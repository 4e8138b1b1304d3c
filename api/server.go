package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradesim/journal"
)

// Server exposes the simulator over HTTP.
type Server struct {
	engine *gin.Engine
	server *http.Server
	logger *zap.Logger
}

// NewServer creates a server listening on addr. Runs are recorded to j; pass
// journal.Nop{} to disable journaling. A nil logger discards.
func NewServer(addr string, j journal.Journal, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if j == nil {
		j = journal.Nop{}
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(loggerMiddleware(logger))

	s := &Server{
		engine: engine,
		logger: logger,
		server: &http.Server{
			Addr:              addr,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	s.setupRoutes(NewHandler(j, logger))
	return s
}

func (s *Server) setupRoutes(h *Handler) {
	api := s.engine.Group("/api")
	{
		api.POST("/session", h.Session)
		api.POST("/batch", h.Batch)
		api.POST("/sweep", h.Sweep)
	}

	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("api listening", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server, waiting for in-flight requests until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
