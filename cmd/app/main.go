package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task_manager/internal/config"
	"task_manager/internal/db"
	httpServer "task_manager/internal/http"
	"task_manager/internal/http/handlers"
	"task_manager/internal/http/middleware"
	"task_manager/internal/logger"
	"task_manager/internal/repository"
	"task_manager/internal/service"
	"task_manager/internal/supabase"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var version = "dev"

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func main() {
	cfg := config.MustLoad()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	logger.Info("config loaded", cfg.Redacted()...)

	if err := run(cfg); err != nil {
		logger.Fatal("server", "error", err)
	}
	logger.Info("server exited")
}

// run owns every resource it opens, so deferred closes happen before main
// exits on error.
func run(cfg *config.Config) error {
	if !cfg.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	dbPool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer dbPool.Close()

	// without redis the limiter keeps per-process counters
	rdb, err := db.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Warn("redis unavailable, using in-memory rate limiting", "error", err)
		rdb = nil
	}
	var redisHealth handlers.Pinger
	if rdb != nil {
		defer rdb.Close()
		redisHealth = redisPinger{client: rdb}
	}

	tasks := service.NewTaskService(repository.NewTaskRepository(dbPool, cfg.RLSRole))
	auth := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.ServiceRoleKey)
	h := handlers.NewHandler(tasks, auth, handlers.HandlerConfig{CookieSecure: cfg.CookieSecure})
	health := handlers.NewHealthHandler(dbPool, redisHealth, version)

	r := httpServer.NewEngine(cfg.CORSAllowedOrigins)
	if err := httpServer.RegisterRoutes(r, h, health, httpServer.RouteConfig{
		Verifier:       service.NewTokenVerifier(cfg.JWTSecret),
		Limiter:        middleware.NewRateLimiter(rdb),
		DevMode:        cfg.DevMode,
		APIRateLimit:   cfg.APIRateLimit,
		APIRateWindow:  time.Duration(cfg.APIRateWindow) * time.Second,
		AuthRateLimit:  cfg.AuthRateLimit,
		AuthRateWindow: time.Duration(cfg.AuthRateWindow) * time.Second,
	}); err != nil {
		return fmt.Errorf("register routes: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-quit:
	}

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	return nil
}
