package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roach88/housingjson/internal/config"
	"github.com/roach88/housingjson/internal/housing"
	"github.com/roach88/housingjson/internal/metrics"
	"github.com/roach88/housingjson/internal/querysql"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 10 * time.Second

// NewRouter builds the gin engine with middleware and routes.
func NewRouter(svc *housing.Service, cfg config.HTTPConfig, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(LoggingMiddleware(logger))
	router.Use(MetricsMiddleware())
	router.Use(CORSMiddleware(cfg.CORSOrigin))
	if cfg.RateLimit > 0 {
		router.Use(RateLimitMiddleware(NewRateLimiter(cfg.RateLimit, cfg.RateBurst, 15*time.Minute)))
	}

	h := NewHandler(svc)

	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/housing")
	api.GET("", h.List)
	api.GET("/dot", h.Query(querysql.NativePathProjection{}))
	api.GET("/jq", h.Query(querysql.FunctionProjection{}))
	api.GET("/id/:id", h.Get)
	api.POST("", h.Create)
	api.POST("/bulk", h.CreateBulk)
	api.PUT("/:id", h.Update)
	api.DELETE("/:id", h.Delete)

	return router
}

// Server is the HTTP server.
type Server struct {
	srv *http.Server
}

// NewServer creates a Server listening on cfg.Addr.
func NewServer(svc *housing.Service, cfg config.HTTPConfig, logger *slog.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         cfg.Addr,
			Handler:      NewRouter(svc, cfg, logger),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("http server stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
