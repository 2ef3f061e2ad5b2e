package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/fjod/go_catalog/internal/auth"
	"github.com/fjod/go_catalog/internal/cache"
	"github.com/fjod/go_catalog/internal/config"
	"github.com/fjod/go_catalog/internal/httpapi"
	"github.com/fjod/go_catalog/internal/repository"
	"github.com/fjod/go_catalog/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// MongoDB
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		logger.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	if err := repository.EnsureIndexes(ctx, mongoDB); err != nil {
		logger.Error("failed to create indexes", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to MongoDB", "uri", cfg.MongoURI)

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("Redis connection failed", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to Redis", "addr", cfg.RedisAddr)

	redisCache := cache.NewRedisCache(redisClient)

	catalogService := service.NewCatalogService(repository.NewMongoItemRepository(mongoDB), redisCache, logger)
	bagService := service.NewBagService(repository.NewMongoBagRepository(mongoDB), redisCache, logger)

	verifier := auth.NewVerifier(cfg.JWTSecret)
	metrics := httpapi.NewMetrics(prometheus.DefaultRegisterer)

	router := httpapi.NewRouter(
		httpapi.NewItemHandler(catalogService, cfg.RequestTimeout),
		httpapi.NewBagHandler(bagService, cfg.RequestTimeout),
		httpapi.NewAuthMiddleware(verifier),
		logger,
		metrics,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	if err := mongoDB.Client().Disconnect(shutdownCtx); err != nil {
		logger.Error("mongo disconnect failed", "error", err)
	}
	logger.Info("server stopped")
}
