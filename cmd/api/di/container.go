package di

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-service/cmd/api/infrastructure"
	"user-service/internal/adapter/cache"
	"user-service/internal/adapter/db/postgres"
	ginhandler "user-service/internal/adapter/gin/handler"
	"user-service/internal/adapter/repository/cached"
	"user-service/internal/config"
	"user-service/internal/seed"
	"user-service/internal/usecase/user"
	redisclient "user-service/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	DB          *gorm.DB
	RedisClient *redisclient.Client
	UserUC      user.Usecase
	GinHandler  *ginhandler.UserHandler
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	rdb, err := infrastructure.NewRedisClient(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	userCache := cache.NewRedisUserCache(
		rdb.Client,
		time.Duration(cfg.Redis.CacheTTL)*time.Second,
		l,
	)

	dbRepo := postgres.NewUserRepoPG(db, l)
	repo := cached.NewCachedUserRepository(dbRepo, userCache, l)

	if cfg.Seed.Enabled {
		if err := seed.Run(context.Background(), repo, l); err != nil {
			return nil, fmt.Errorf("failed to seed database: %w", err)
		}
	}

	userUC := user.New(repo, l)
	ginHandler := ginhandler.NewUserHandler(userUC, l)

	return &Container{
		Config:      cfg,
		Logger:      l,
		DB:          db,
		RedisClient: rdb,
		UserUC:      userUC,
		GinHandler:  ginHandler,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
