package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"user-service/internal/adapter/gin/handler"
	"user-service/internal/adapter/gin/middleware"
	"user-service/internal/config"
)

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	userHandler *handler.UserHandler,
	rateLimitCfg config.RateLimitConfig,
	redisClient *redis.Client,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.RateLimiter(rateLimitCfg, redisClient, log))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "user-service",
		})
	})

	api := router.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("", userHandler.CreateUser)
			users.GET("", userHandler.ListUsers)
			users.GET("/pageable", userHandler.ListUsersPage)
			users.GET("/username/:username", userHandler.GetUserByUsername)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
			users.PATCH("/:id/deactivate", userHandler.DeactivateUser)
			users.PATCH("/:id/activate", userHandler.ActivateUser)
		}
	}

	return router
}
