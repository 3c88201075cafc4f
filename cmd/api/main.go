package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"inventory/internal/config"
	"inventory/internal/logger"
	"inventory/internal/server"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// waitForShutdown blocks until SIGINT or SIGTERM, then drains in-flight
// requests for at most grace before releasing the store and Redis.
func waitForShutdown(srv *server.Server, grace time.Duration, log *zap.Logger, done chan<- struct{}) {
	defer close(done)

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	<-sigCtx.Done()
	// a second signal kills the process
	stop()

	log.Info("Shutdown requested, draining requests", zap.Duration("grace", grace))

	drainCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	if err := srv.Shutdown(drainCtx); err != nil {
		log.Error("Requests still running after grace period", zap.Error(err))
	}
	if err := srv.Close(); err != nil {
		log.Error("Failed to release server resources", zap.Error(err))
	}
}

// connectRedis returns nil when rate limiting is switched off
func connectRedis(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) *redis.Client {
	if !cfg.Enabled {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		// the limiter fails open, so keep serving
		log.Warn("Redis unreachable, rate limiting will let requests through",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
	}
	return client
}

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting inventory server",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("driver", cfg.Database.Driver),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := openStore(ctx, cfg, log)
	if err != nil {
		cancel()
		log.Fatal("Failed to open store", zap.Error(err))
	}
	redisClient := connectRedis(ctx, cfg.Redis, log)
	cancel()

	srv, err := server.NewServer(cfg, log, store, redisClient)
	if err != nil {
		log.Fatal("Failed to create server", zap.Error(err))
	}

	done := make(chan struct{})
	go waitForShutdown(srv, cfg.Server.ShutdownTimeout, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	<-done
	log.Info("Inventory server stopped")
}
