package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cedricxu312/MoodTune/internal/adapters/memory"
	"github.com/cedricxu312/MoodTune/internal/adapters/openai"
	"github.com/cedricxu312/MoodTune/internal/adapters/postgres"
	"github.com/cedricxu312/MoodTune/internal/adapters/redis"
	"github.com/cedricxu312/MoodTune/internal/adapters/rest"
	"github.com/cedricxu312/MoodTune/internal/adapters/spotify"
	"github.com/cedricxu312/MoodTune/internal/adapters/sqlite"
	"github.com/cedricxu312/MoodTune/internal/config"
	"github.com/cedricxu312/MoodTune/internal/core/ports"
	"github.com/cedricxu312/MoodTune/internal/core/services"
	"github.com/cedricxu312/MoodTune/internal/history"
	"github.com/cedricxu312/MoodTune/internal/logger"
	"github.com/cedricxu312/MoodTune/internal/worker"
)

// handoffTTL bounds how long an unredeemed export payload stays claimable.
const handoffTTL = 30 * time.Minute

func main() {
	cfg := config.Load()

	zlog, err := logger.New(logger.Config{
		Level:      cfg.LogLevel,
		OutputPath: cfg.LogFile,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// Crash early if required config is missing.
	if cfg.OpenAIAPIKey == "" {
		zlog.Fatal("OPENAI_API_KEY environment variable is required")
	}
	if cfg.SpotifyClientID == "" || cfg.SpotifyClientSecret == "" {
		zlog.Fatal("SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET environment variables are required")
	}

	// Driven adapters.
	var repo ports.MoodRepository
	var repoCloser func() error

	switch cfg.StorageDriver {
	case "sqlite":
		dbAdapter, err := sqlite.NewAdapter(cfg.SQLitePath)
		if err != nil {
			zlog.Fatal("Failed to initialize sqlite database", zap.Error(err))
		}
		repo = dbAdapter
		repoCloser = dbAdapter.Close
	case "postgres":
		dbAdapter, err := postgres.NewAdapter(context.Background(), cfg.DatabaseURL)
		if err != nil {
			zlog.Fatal("Failed to initialize postgres database", zap.Error(err))
		}
		repo = dbAdapter
		repoCloser = func() error { dbAdapter.Close(); return nil }
	default:
		zlog.Fatal("Unknown storage driver", zap.String("driver", cfg.StorageDriver))
	}
	defer repoCloser()

	spotifyClient := spotify.NewClient(nil, spotify.Config{
		ClientID:     cfg.SpotifyClientID,
		ClientSecret: cfg.SpotifyClientSecret,
		RedirectURI:  cfg.SpotifyRedirectURI,
	}, zlog)

	generator := openai.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, zlog)

	var handoff ports.HandoffStore
	if cfg.RedisAddr != "" {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			zlog.Fatal("Failed to connect to redis", zap.Error(err))
		}
		handoff = redis.NewHandoffStore(rdb, handoffTTL)
	} else {
		handoff = memory.NewHandoffStore(handoffTTL)
	}

	tracker := history.NewTracker(cfg.HistoryLimit)

	pool := worker.NewPool(repo, 100, zlog)
	pool.Start(2)
	defer pool.Stop()

	// Core service and HTTP adapter.
	svc := services.NewOrchestrator(generator, spotifyClient, repo, tracker, handoff, pool, zlog)
	handler := rest.NewHandler(svc, repo, tracker, spotifyClient, handoff, cfg.JWTSecret, zlog)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	zlog.Info("MoodTune API is running", zap.String("addr", addr))

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			zlog.Fatal("Server failed", zap.Error(err))
		}
	case <-ctx.Done():
		zlog.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zlog.Error("Shutdown error", zap.Error(err))
		}
	}
}
