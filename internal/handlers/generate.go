// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"instaplan/internal/generator"
	"instaplan/internal/models"
)

// CampaignGenerator produces a campaign for a brief.
type CampaignGenerator interface {
	Generate(ctx context.Context, in models.CampaignInput) (*models.CampaignOutput, error)
}

// ImageGenerator produces an image for a prompt.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (*generator.ImageResult, error)
}

// VideoGenerator produces a video for a prompt.
type VideoGenerator interface {
	Generate(ctx context.Context, prompt string) (*generator.VideoResult, error)
}

// Generate serves the three generation endpoints. Input checks live in the
// generators so every caller gets the same messages.
type Generate struct {
	campaigns CampaignGenerator
	images    ImageGenerator
	videos    VideoGenerator
}

// NewGenerate creates the generation handlers.
func NewGenerate(campaigns CampaignGenerator, images ImageGenerator, videos VideoGenerator) *Generate {
	return &Generate{campaigns: campaigns, images: images, videos: videos}
}

type promptRequest struct {
	Prompt string `json:"prompt"`
}

// Campaign handles POST /api/generate.
func (g *Generate) Campaign(w http.ResponseWriter, r *http.Request) {
	var in models.CampaignInput
	if !decodeJSON(w, r, &in) {
		return
	}

	out, err := g.campaigns.Generate(r.Context(), in)
	if err != nil {
		writeGenerationError(w, err)
		return
	}

	counts := out.CountByType()
	slog.Info("campaign generated",
		"posts", len(out.Posts),
		"carousel", counts[models.PostTypeCarousel],
		"reel", counts[models.PostTypeReel],
		"static", counts[models.PostTypeStatic],
	)
	writeJSON(w, http.StatusOK, out)
}

// Image handles POST /api/generate-image.
func (g *Generate) Image(w http.ResponseWriter, r *http.Request) {
	var req promptRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := g.images.Generate(r.Context(), req.Prompt)
	if err != nil {
		writeGenerationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Video handles POST /api/generate-video. A stock fallback is still a 200
// with isFallback set.
func (g *Generate) Video(w http.ResponseWriter, r *http.Request) {
	var req promptRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := g.videos.Generate(r.Context(), req.Prompt)
	if err != nil {
		writeGenerationError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
