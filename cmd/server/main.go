// @title Exam Service API
// @version 1.0
// @description Online examination platform backend.

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/examhub/exam-service/internal/cache"
	"github.com/examhub/exam-service/internal/config"
	"github.com/examhub/exam-service/internal/handlers"
	"github.com/examhub/exam-service/internal/repositories/postgres"
	"github.com/examhub/exam-service/internal/services"
	"github.com/examhub/exam-service/internal/utils"
	"github.com/examhub/exam-service/pkg"
)

func main() {
	logger := utils.NewDefaultLogger()
	slogger := utils.ToSlogLogger(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if cfg.Environment == "development" {
		logger = utils.NewDevelopmentLogger()
		slogger = utils.ToSlogLogger(logger)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := pkg.Migrate(db); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	var cacheService cache.CacheService = cache.NewNoopCacheService()
	if cfg.RedisURL != "" {
		redisClient, err := pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("redis unavailable, statistics cache disabled", "error", err)
		} else {
			cacheService = cache.NewRedisCacheService(redisClient, slogger)
			logger.Info("redis cache enabled")
		}
	}
	defer cacheService.Close()

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.Error("failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	repo := postgres.NewRepository(db)
	serviceManager := services.NewServiceManager(repo, slogger, publisher, cacheService, services.ManagerConfig{
		JWTSecret: cfg.JWTSecret,
		JWTExpiry: cfg.JWTExpiresIn,
	})

	ctx := context.Background()
	if err := serviceManager.Seed.EnsureDefaultAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword, cfg.AdminEmail); err != nil {
		logger.Error("failed to seed default admin", "error", err)
		os.Exit(1)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))
	router.Use(handlers.CORSMiddleware(cfg.CORSOrigin))

	handlerManager := handlers.NewHandlerManager(serviceManager)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
}
