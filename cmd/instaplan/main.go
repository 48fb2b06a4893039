// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the InstaPlan API server.
// It loads configuration, connects to optional services, wires the
// generators and stores, and starts the HTTP server with graceful shutdown.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"instaplan/internal/ai"
	"instaplan/internal/cache"
	"instaplan/internal/config"
	"instaplan/internal/database"
	"instaplan/internal/generator"
	"instaplan/internal/handlers"
	"instaplan/internal/media"
	"instaplan/internal/middleware"
	"instaplan/internal/router"
	"instaplan/internal/storage"
	"instaplan/internal/store"
)

func main() {
	// Load configuration from environment variables and .env files.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, closeLog := newLogger(cfg)
	defer closeLog()
	slog.SetDefault(logger)

	caps := cfg.Validate()
	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"text_generation", caps.TextGeneration,
		"video_generation", caps.VideoGeneration,
		"storage", caps.Storage,
		"database", caps.Database,
		"valkey", caps.Valkey,
	)

	ctx := context.Background()

	// PostgreSQL is optional; without it the persistence endpoints answer 503.
	var db *sql.DB
	if caps.Database {
		db, err = database.Connect(ctx, cfg.DSN())
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		// Seed development data (no-op if campaigns already exist).
		if cfg.IsDev() {
			if err := database.Seed(ctx, db); err != nil {
				slog.Error("failed to seed database", "error", err)
				os.Exit(1)
			}
		}
	} else {
		slog.Warn("database disabled, campaigns and calendar are unavailable")
	}

	// Valkey holds rate-limit counters shared across instances. Without it
	// each instance counts in memory.
	var limiter middleware.Counter
	if caps.Valkey {
		var valkeyClient *redis.Client
		valkeyClient, err = cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		limiter = cache.NewWindowCounter(valkeyClient, cfg.RateLimitRequests, cfg.RateLimitWindow)
	} else {
		mem := middleware.NewSlidingWindow(cfg.RateLimitRequests, cfg.RateLimitWindow)
		defer mem.Stop()
		limiter = mem
	}

	// Connect to S3-compatible object storage (optional; media is returned
	// inline without it).
	var uploader generator.Uploader
	storageClient, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		uploader = storageClient
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", storageClient.Bucket())
	} else {
		slog.Warn("s3 storage not configured, media returned inline")
	}

	// Initialize the AI provider registry with all configured providers.
	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"gemini":  {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel, RequestsPerMinute: cfg.AIRequestsPerMin},
		"openai":  {APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL, RequestsPerMinute: cfg.AIRequestsPerMin, JSONMode: true},
		"mistral": {APIKey: cfg.MistralKey, Model: cfg.MistralModel, BaseURL: cfg.MistralBaseURL, RequestsPerMinute: cfg.AIRequestsPerMin, JSONMode: true},
		"claude":  {APIKey: cfg.ClaudeKey, Model: cfg.ClaudeModel, BaseURL: cfg.ClaudeBaseURL, RequestsPerMinute: cfg.AIRequestsPerMin, JSONMode: true},
	})
	defer aiRegistry.Close()

	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)

	campaignGen := generator.NewCampaignGenerator(aiRegistry,
		generator.WithAttempts(cfg.CampaignAttempts),
		generator.WithBaseDelay(cfg.CampaignBaseDelay),
	)

	imageGen := generator.NewImageGenerator([]media.Synthesizer{
		media.NewSegmind(cfg.SegmindKey, cfg.SegmindBaseURL),
		media.NewPollinations(cfg.PollinationsBaseURL),
	}, uploader)

	videoHTTP := &http.Client{}
	videoModels := make([]media.Synthesizer, 0, len(cfg.VideoModels))
	for _, model := range cfg.VideoModels {
		videoModels = append(videoModels, media.NewHuggingFace(cfg.HuggingFaceKey, cfg.HuggingFaceBaseURL, model, videoHTTP))
	}
	videoCfg := generator.VideoConfig{
		Models:         videoModels,
		AttemptTimeout: cfg.VideoAttemptTimeout,
		Configured:     caps.VideoGeneration,
		Uploader:       uploader,
	}
	if cfg.VideoFallbackMode == config.VideoFallbackStock {
		videoCfg.Stock = media.NewStockVideos(cfg.PexelsKey, cfg.PexelsBaseURL)
	}
	videoGen := generator.NewVideoGenerator(videoCfg)

	// Stores stay nil interfaces when the database is disabled.
	var campaignRepo handlers.CampaignRepository
	var calendarRepo handlers.CalendarRepository
	if db != nil {
		campaignRepo = store.NewCampaignStore(db)
		calendarRepo = store.NewCalendarStore(db)
	}

	r := router.New(router.Options{
		CORSOrigins: cfg.CORSAllowedOrigins,
		Limiter:     limiter,
		RetryAfter:  cfg.RateLimitWindow,
	},
		handlers.NewGenerate(campaignGen, imageGen, videoGen),
		handlers.NewCampaigns(campaignRepo),
		handlers.NewCalendar(calendarRepo),
		handlers.NewProviders(aiRegistry),
	)

	// WriteTimeout must cover a video request that walks every model to
	// its timeout.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: writeTimeout(len(videoModels), cfg.VideoAttemptTimeout),
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr(), "write_timeout", srv.WriteTimeout.String())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// minWriteTimeout covers campaign generation with its retries.
const minWriteTimeout = 90 * time.Second

// writeTimeout returns the server write deadline for a chain of models
// each bounded by attemptTimeout, plus a margin for upload and encoding.
func writeTimeout(models int, attemptTimeout time.Duration) time.Duration {
	d := time.Duration(models)*attemptTimeout + 30*time.Second
	if d < minWriteTimeout {
		return minWriteTimeout
	}
	return d
}
