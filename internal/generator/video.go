// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generator

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"instaplan/internal/media"
	"instaplan/internal/metrics"
)

const (
	opVideo = "generate video"

	// DefaultVideoAttemptTimeout bounds a single model attempt.
	DefaultVideoAttemptTimeout = 300 * time.Second

	stockFallbackMessage = "Generated with stock footage (AI models busy)"
)

// VideoResult is the outcome of a video request. Model is set for a
// generated clip; IsFallback and Message for a stock clip.
type VideoResult struct {
	VideoURL   string `json:"videoUrl"`
	Model      string `json:"model,omitempty"`
	IsFallback bool   `json:"isFallback,omitempty"`
	Message    string `json:"message,omitempty"`
}

// StockFinder returns a stock clip URL for a prompt. It must not fail.
type StockFinder interface {
	Find(ctx context.Context, prompt string) string
}

// VideoGenerator tries text-to-video models in order, each under its own
// timeout. When every model fails it either reports the service as
// unavailable or, if a StockFinder is set, returns a stock clip.
type VideoGenerator struct {
	models         []media.Synthesizer
	attemptTimeout time.Duration
	configured     bool
	uploader       Uploader
	stock          StockFinder
}

// VideoConfig configures a VideoGenerator.
type VideoConfig struct {
	// Models are tried in this order.
	Models []media.Synthesizer

	// AttemptTimeout bounds each model call; zero uses the default.
	AttemptTimeout time.Duration

	// Configured is false when no inference API key is set. It is only
	// enforced when Stock is nil.
	Configured bool

	Uploader Uploader

	// Stock enables the stock-footage fallback when non-nil.
	Stock StockFinder
}

// NewVideoGenerator creates a generator from cfg.
func NewVideoGenerator(cfg VideoConfig) *VideoGenerator {
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = DefaultVideoAttemptTimeout
	}
	return &VideoGenerator{
		models:         cfg.Models,
		attemptTimeout: cfg.AttemptTimeout,
		configured:     cfg.Configured,
		uploader:       cfg.Uploader,
		stock:          cfg.Stock,
	}
}

// Generate returns the first model's clip. Without a stock fallback the
// credential check comes before prompt validation; with one, models are
// always attempted and the stock clip covers their failure.
func (g *VideoGenerator) Generate(ctx context.Context, prompt string) (*VideoResult, error) {
	if !g.configured && g.stock == nil {
		return nil, configurationError(opVideo, "Hugging Face API Key is missing.")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, validationError(opVideo, "Video prompt is required")
	}

	var errs []error
	for _, model := range g.models {
		res, err := g.attempt(ctx, model, prompt)
		metrics.ObserveAttempt("video", model.Name(), err)
		if err != nil {
			slog.Warn("video model failed, trying next", "model", model.Name(), "error", err)
			errs = append(errs, err)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		slog.Info("video generated", "model", model.Name(), "bytes", len(res.Data))
		return &VideoResult{
			VideoURL: publish(ctx, g.uploader, prompt, res),
			Model:    model.Name(),
		}, nil
	}

	slog.Warn("all video models failed", "models", len(g.models))

	if g.stock != nil && ctx.Err() == nil {
		return &VideoResult{
			VideoURL:   g.stock.Find(ctx, prompt),
			IsFallback: true,
			Message:    stockFallbackMessage,
		}, nil
	}

	return nil, &Error{
		Kind: KindUnavailable,
		Op:   opVideo,
		Msg:  "All AI models failed to generate video. Please try again later.",
		Err:  errors.Join(errs...),
	}
}

// attempt runs one model under the per-attempt timeout. Cancelling the
// context aborts the in-flight request.
func (g *VideoGenerator) attempt(ctx context.Context, model media.Synthesizer, prompt string) (*media.Result, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, g.attemptTimeout)
	defer cancel()

	slog.Info("trying video model", "model", model.Name())
	res, err := model.Synthesize(attemptCtx, prompt)
	if err != nil {
		if errors.Is(err, media.ErrPayloadTooSmall) {
			return nil, &Error{Kind: KindMalformed, Op: opVideo, Msg: "generated file too small", Err: err}
		}
		return nil, err
	}
	return res, nil
}
