// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Video exhaustion policies.
const (
	VideoFallbackError = "error"
	VideoFallbackStock = "stock"
)

// DefaultVideoModels is the ordered list of text-to-video models tried when
// VIDEO_MODELS is unset. Smaller models first.
var DefaultVideoModels = []string{
	"damo-vilab/text-to-video-ms-1.7b",
	"cerspense/zeroscope_v2_576w",
	"ali-vilab/text-to-video-ms-1.7b",
}

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBEnabled  bool
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible) for shared rate-limit counters
	ValkeyEnabled  bool
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Text generation providers
	AIProvider        string // "gemini", "openai", "mistral", "claude"
	GeminiKey         string
	GeminiModel       string
	OpenAIKey         string
	OpenAIModel       string
	OpenAIBaseURL     string
	MistralKey        string
	MistralModel      string
	MistralBaseURL    string
	ClaudeKey         string
	ClaudeModel       string
	ClaudeBaseURL     string
	AIRequestsPerMin  int
	CampaignAttempts  int
	CampaignBaseDelay time.Duration

	// Media providers
	SegmindKey          string
	SegmindBaseURL      string
	PollinationsBaseURL string
	HuggingFaceKey      string
	HuggingFaceBaseURL  string
	VideoModels         []string
	VideoAttemptTimeout time.Duration
	VideoFallbackMode   string
	PexelsKey           string
	PexelsBaseURL       string

	// S3-compatible storage for generated media (optional)
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	// HTTP surface
	CORSAllowedOrigins []string
	RateLimitRequests  int
	RateLimitWindow    time.Duration

	// Logging
	LogLevel string
	LogFile  string
}

// Capabilities records which optional features have the credentials they
// need. It is computed once at startup so handlers never inspect the
// environment per request.
type Capabilities struct {
	TextGeneration  bool
	VideoGeneration bool
	Storage         bool
	Database        bool
	Valkey          bool
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Values from .env.local and .env are
// loaded first without overriding variables already set in the process.
// Returns an error if critical values are missing in production mode.
func Load() (*Config, error) {
	for _, f := range []string{".env.local", ".env"} {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				return nil, fmt.Errorf("load %s: %w", f, err)
			}
		}
	}

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBEnabled:  envBool("DATABASE_ENABLED", true),
		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "instaplan"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "instaplan"),

		ValkeyEnabled:  envBool("VALKEY_ENABLED", false),
		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		AIProvider:        envOrDefault("AI_PROVIDER", "gemini"),
		GeminiKey:         envOrDefault("GEMINI_API_KEY", os.Getenv("GOOGLE_GENERATIVE_AI_API_KEY")),
		GeminiModel:       envOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		OpenAIKey:         os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:     envOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		MistralKey:        os.Getenv("MISTRAL_API_KEY"),
		MistralModel:      envOrDefault("MISTRAL_MODEL", "mistral-large-latest"),
		MistralBaseURL:    envOrDefault("MISTRAL_BASE_URL", "https://api.mistral.ai/v1"),
		ClaudeKey:         envOrDefault("ANTHROPIC_API_KEY", os.Getenv("CLAUDE_API_KEY")),
		ClaudeModel:       envOrDefault("CLAUDE_MODEL", "claude-3-5-haiku-latest"),
		ClaudeBaseURL:     envOrDefault("CLAUDE_BASE_URL", "https://api.anthropic.com"),
		AIRequestsPerMin:  envInt("AI_REQUESTS_PER_MINUTE", 0),
		CampaignAttempts:  envInt("CAMPAIGN_MAX_ATTEMPTS", 3),
		CampaignBaseDelay: envDuration("CAMPAIGN_BACKOFF_BASE", time.Second),

		SegmindKey:          os.Getenv("SEGMIND_API_KEY"),
		SegmindBaseURL:      envOrDefault("SEGMIND_BASE_URL", "https://api.segmind.com/v1"),
		PollinationsBaseURL: envOrDefault("POLLINATIONS_BASE_URL", "https://image.pollinations.ai"),
		HuggingFaceKey:      os.Getenv("HUGGING_FACE_API_KEY"),
		HuggingFaceBaseURL:  envOrDefault("HUGGING_FACE_BASE_URL", "https://router.huggingface.co"),
		VideoModels:         envList("VIDEO_MODELS", DefaultVideoModels),
		VideoAttemptTimeout: envDuration("VIDEO_ATTEMPT_TIMEOUT", 300*time.Second),
		VideoFallbackMode:   strings.ToLower(envOrDefault("VIDEO_FALLBACK_MODE", VideoFallbackError)),
		PexelsKey:           os.Getenv("PEXELS_API_KEY"),
		PexelsBaseURL:       envOrDefault("PEXELS_BASE_URL", "https://api.pexels.com"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "us-east-1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "instaplan-media"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		CORSAllowedOrigins: envList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RateLimitRequests:  envInt("RATE_LIMIT_REQUESTS", 20),
		RateLimitWindow:    envDuration("RATE_LIMIT_WINDOW", time.Minute),

		LogLevel: strings.ToLower(envOrDefault("LOG_LEVEL", "debug")),
		LogFile:  os.Getenv("LOG_FILE"),
	}

	if cfg.Env == "production" {
		if cfg.DBEnabled && cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	switch cfg.VideoFallbackMode {
	case VideoFallbackError, VideoFallbackStock:
	default:
		return nil, fmt.Errorf("VIDEO_FALLBACK_MODE must be %q or %q, got %q",
			VideoFallbackError, VideoFallbackStock, cfg.VideoFallbackMode)
	}

	if len(cfg.VideoModels) == 0 {
		return nil, fmt.Errorf("VIDEO_MODELS must list at least one model")
	}
	if cfg.CampaignAttempts < 1 {
		return nil, fmt.Errorf("CAMPAIGN_MAX_ATTEMPTS must be at least 1")
	}
	if cfg.RateLimitRequests < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", cfg.RateLimitRequests)
	}
	if cfg.RateLimitWindow < time.Millisecond {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW must be at least 1ms, got %v", cfg.RateLimitWindow)
	}

	return cfg, nil
}

// Validate reports which optional capabilities are usable with the loaded
// credentials. The active text provider must have a key for text
// generation to count as available.
func (c *Config) Validate() Capabilities {
	return Capabilities{
		TextGeneration:  c.ProviderKey(c.AIProvider) != "",
		VideoGeneration: c.HuggingFaceKey != "",
		Storage:         c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != "",
		Database:        c.DBEnabled,
		Valkey:          c.ValkeyEnabled,
	}
}

// ProviderKey returns the API key configured for a text provider name.
func (c *Config) ProviderKey(name string) string {
	switch name {
	case "gemini":
		return c.GeminiKey
	case "openai":
		return c.OpenAIKey
	case "mistral":
		return c.MistralKey
	case "claude":
		return c.ClaudeKey
	}
	return ""
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return fallback
}

// envDuration accepts Go duration strings ("90s", "5m") or a bare number of seconds.
func envDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}

// envList splits a comma-separated variable, dropping empty items.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
