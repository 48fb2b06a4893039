// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generator

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"instaplan/internal/media"
	"instaplan/internal/metrics"
)

const opImage = "generate image"

// ImageResult is the outcome of a successful image request.
type ImageResult struct {
	ImageURL string `json:"imageUrl"`
	Provider string `json:"provider"`
}

// ImageGenerator walks an ordered chain of image backends.
type ImageGenerator struct {
	chain    []media.Synthesizer
	uploader Uploader
}

// NewImageGenerator creates a generator over chain. uploader may be nil.
func NewImageGenerator(chain []media.Synthesizer, uploader Uploader) *ImageGenerator {
	return &ImageGenerator{chain: chain, uploader: uploader}
}

// Generate enhances prompt and returns the first backend result. Backend
// failures are logged and skipped.
func (g *ImageGenerator) Generate(ctx context.Context, prompt string) (*ImageResult, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, validationError(opImage, "Image prompt is required")
	}

	enhanced := EnhanceImagePrompt(prompt)

	var errs []error
	for _, backend := range g.chain {
		res, err := backend.Synthesize(ctx, enhanced)
		metrics.ObserveAttempt("image", backend.Name(), err)
		if err != nil {
			slog.Warn("image provider failed, trying next", "provider", backend.Name(), "error", err)
			errs = append(errs, err)
			continue
		}

		return &ImageResult{
			ImageURL: publish(ctx, g.uploader, prompt, res),
			Provider: res.Provider,
		}, nil
	}

	return nil, &Error{
		Kind: KindProvider,
		Op:   opImage,
		Msg:  "Failed to generate image. Please try again.",
		Err:  errors.Join(errs...),
	}
}
