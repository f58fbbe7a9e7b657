package server

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"user-service/cmd/api/di"
	"user-service/internal/config"
)

// Server holds the HTTP server for the REST API
type Server struct {
	HTTP *http.Server
	log  *zap.Logger
}

// New creates the server from the DI container
func New(cfg *config.Config, l *zap.Logger, c *di.Container) *Server {
	httpSrv := SetupGinServer(c.GinHandler, cfg.RateLimit, c.RedisClient, ":"+cfg.App.HTTPPort, l)

	return &Server{
		HTTP: httpSrv,
		log:  l,
	}
}

// Start runs the HTTP server and blocks until it stops.
// http.ErrServerClosed from a graceful shutdown is not an error.
func (s *Server) Start() error {
	s.log.Info("HTTP server starting", zap.String("address", s.HTTP.Addr))

	if err := s.HTTP.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}
