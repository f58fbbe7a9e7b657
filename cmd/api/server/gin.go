package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	ginhandler "user-service/internal/adapter/gin/handler"
	ginrouter "user-service/internal/adapter/gin/router"
	"user-service/internal/config"
	redisclient "user-service/pkg/redis"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(
	handler *ginhandler.UserHandler,
	rateLimitCfg config.RateLimitConfig,
	redisClient *redisclient.Client,
	addr string,
	l *zap.Logger,
) *http.Server {
	router := ginrouter.SetupRouter(handler, rateLimitCfg, redisClient.Client, l)

	l.Info("REST API configured", zap.String("address", addr))

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
