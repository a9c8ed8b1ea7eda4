package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/auth"
	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/config"
	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/logging"
	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/notify"
	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/postgres"
	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/push"
	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/redis"
	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/registry"
	"github.com/Student-IshitaRane/LinkedIn-Hack/internal/server"
)

const presenceOpTimeout = 2 * time.Second

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func setupRedis(ctx context.Context, cfg *config.Config) *goredis.Client {
	client, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func runGracefulShutdown(srv *server.Server, reg *registry.Registry) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		reg.Stop()

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	pool := setupDB(cfg)
	defer pool.Close()

	redisClient := setupRedis(context.Background(), cfg)
	defer func() { _ = redisClient.Close() }()

	instanceID := uuid.NewString()
	presence := redis.NewPresenceStore(redisClient, instanceID, cfg.PresenceTTL)

	onRegister := func(userID string) {
		ctx, cancel := context.WithTimeout(context.Background(), presenceOpTimeout)
		defer cancel()
		if err := presence.Set(ctx, userID); err != nil {
			slog.Warn("Failed to set presence", "user_id", userID, "error", err)
		}
	}
	onUnregister := func(userID string) {
		ctx, cancel := context.WithTimeout(context.Background(), presenceOpTimeout)
		defer cancel()
		if err := presence.Delete(ctx, userID); err != nil {
			slog.Warn("Failed to delete presence", "user_id", userID, "error", err)
		}
	}
	reg := registry.NewRegistry(clock, onRegister, onUnregister, cfg.PresenceTTL/3)

	dispatcher := push.NewDispatcher(reg)
	repo := postgres.NewNotificationRepo(pool)
	notifications := notify.NewService(repo, dispatcher)
	verifier := auth.NewVerifier(cfg.JWTSecret)

	srv := server.NewServer(cfg, notifications, reg, verifier, clock, pool, redisClient)

	done := runGracefulShutdown(srv, reg)

	slog.Info("Server starting", "port", cfg.Port, "instance", instanceID)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
