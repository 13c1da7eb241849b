package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"user-management-be/internal/cache"
	"user-management-be/internal/config"
	"user-management-be/internal/controllers"
	"user-management-be/internal/database"
	"user-management-be/internal/logger"
	"user-management-be/internal/metrics"
	"user-management-be/internal/middleware"
	"user-management-be/internal/repository"
	"user-management-be/internal/service"
	"user-management-be/internal/validation"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.LogLevel,
		Environment: cfg.AppEnv,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	zlog := logger.GetLogger()
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, zlog); err != nil {
		zlog.Error("Server stopped with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, zlog *zap.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Register()
	validation.RegisterGin()

	// Open the configured store
	userRepo, closeStore, err := openStore(ctx, cfg, zlog)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closeStore()) }()

	// Initialize Redis cache (optional - continue if Redis is unavailable)
	var cacheClient cache.Cache
	if cfg.RedisURL != "" {
		redisCache, cacheErr := cache.NewRedisCache(cfg.RedisURL)
		if cacheErr != nil {
			zlog.Warn("Failed to connect to Redis. Continuing without cache.", zap.Error(cacheErr))
		} else {
			zlog.Info("Connected to Redis cache")
			cacheClient = redisCache
			defer func() { err = multierr.Append(err, redisCache.Close()) }()
		}
	}

	// Initialize services and controllers
	userService := service.NewUserService(userRepo, cacheClient, cfg.CacheTTL, zlog)
	userController := controllers.NewUserController(userService)
	healthController := controllers.NewHealthController(userService)

	// Initialize rate limiters
	generalRateLimiter := middleware.NewRateLimiter("general", rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	defer generalRateLimiter.Stop()
	bulkRateLimiter := middleware.NewRateLimiter("bulk", rate.Limit(cfg.RateLimitBulkRPS), cfg.RateLimitBulkBurst)
	defer bulkRateLimiter.Stop()

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(), middleware.Metrics())

	// Health check and metrics endpoints (no rate limiting)
	router.GET("/health", healthController.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	users := router.Group(cfg.UsersRoute)
	users.Use(generalRateLimiter.LimitMiddleware())
	userController.RegisterRoutes(users, bulkRateLimiter.LimitMiddleware())

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		zlog.Info("Server starting", zap.String("addr", cfg.ServerAddr), zap.String("route", cfg.UsersRoute))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zlog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

// openStore connects the backend named by STORE_DRIVER and returns the
// repository plus a function releasing its connection.
func openStore(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (repository.UserRepository, func() error, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.DBConnectRetries, zlog)
		if err != nil {
			return nil, nil, err
		}
		collection := client.Database(cfg.MongoDatabase).Collection(cfg.UsersCollection)
		return repository.NewMongoUserRepository(collection), disconnectMongo(client), nil

	case config.StorePostgres:
		db, err := database.NewConnection(ctx, cfg.DatabaseURL, cfg.DBConnectRetries, zlog)
		if err != nil {
			return nil, nil, err
		}
		if err := database.RunMigrations(db, zlog); err != nil {
			return nil, nil, multierr.Append(err, db.Close())
		}
		return repository.NewPostgresUserRepository(db), closeDB(db), nil

	case config.StoreMemory:
		zlog.Warn("Using in-memory store; data is lost on restart")
		return repository.NewInMemoryUserRepository(), func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func disconnectMongo(client *mongo.Client) func() error {
	return func() error {
		return client.Disconnect(context.Background())
	}
}

func closeDB(db *sql.DB) func() error {
	return db.Close
}
