// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package generator turns user briefs into campaigns, images and videos by
// driving the text providers and media backends. It owns the retry and
// fallback policies and the error taxonomy the HTTP layer reports.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"instaplan/internal/ai"
	"instaplan/internal/metrics"
	"instaplan/internal/models"
)

const (
	opCampaign = "generate campaign"

	defaultCampaignAttempts = 3
	defaultCampaignDelay    = time.Second
)

// ProviderSource yields the text provider to use for a request.
// *ai.Registry satisfies it.
type ProviderSource interface {
	Active() (ai.Provider, error)
}

// SleepFunc waits for d or until ctx is done, whichever is first.
type SleepFunc func(ctx context.Context, d time.Duration) error

// CampaignGenerator produces a content plan and post ideas for a brief.
type CampaignGenerator struct {
	providers ProviderSource
	attempts  int
	baseDelay time.Duration
	sleep     SleepFunc
}

// CampaignOption customises a CampaignGenerator.
type CampaignOption func(*CampaignGenerator)

// WithAttempts sets the total number of provider calls per request.
func WithAttempts(n int) CampaignOption {
	return func(g *CampaignGenerator) {
		if n > 0 {
			g.attempts = n
		}
	}
}

// WithBaseDelay sets the backoff unit. Attempt i (from 0) waits 2^i units.
func WithBaseDelay(d time.Duration) CampaignOption {
	return func(g *CampaignGenerator) { g.baseDelay = d }
}

// WithSleep replaces the backoff wait.
func WithSleep(fn SleepFunc) CampaignOption {
	return func(g *CampaignGenerator) { g.sleep = fn }
}

// NewCampaignGenerator creates a generator with three attempts and 2s/4s
// backoff unless overridden.
func NewCampaignGenerator(providers ProviderSource, opts ...CampaignOption) *CampaignGenerator {
	g := &CampaignGenerator{
		providers: providers,
		attempts:  defaultCampaignAttempts,
		baseDelay: defaultCampaignDelay,
		sleep:     sleepContext,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate validates the brief and asks the active provider for a campaign.
// Rate-limit failures are retried with exponential backoff; any other
// failure ends the request immediately.
func (g *CampaignGenerator) Generate(ctx context.Context, in models.CampaignInput) (*models.CampaignOutput, error) {
	if g.providers == nil {
		return nil, configurationError(opCampaign, "no text generation provider is configured")
	}
	provider, err := g.providers.Active()
	if err != nil {
		return nil, &Error{Kind: KindConfiguration, Op: opCampaign, Msg: "no text generation provider is configured", Err: err}
	}

	in.ProductDescription = strings.TrimSpace(in.ProductDescription)
	in.TargetAudience = strings.TrimSpace(in.TargetAudience)
	if in.ProductDescription == "" || in.TargetAudience == "" {
		return nil, validationError(opCampaign, "Product description and target audience are required")
	}

	prompt := CampaignPrompt(in)

	var lastErr error
	for attempt := 0; attempt < g.attempts; attempt++ {
		if attempt > 0 {
			delay := g.baseDelay * time.Duration(1<<attempt)
			metrics.GenerationRetries.WithLabelValues(provider.Name()).Inc()
			slog.Info("retrying campaign generation", "provider", provider.Name(), "attempt", attempt+1, "delay", delay)
			if err := g.sleep(ctx, delay); err != nil {
				return nil, &Error{Kind: KindProvider, Op: opCampaign, Msg: "request cancelled while waiting to retry", Err: err}
			}
		}

		text, err := ai.GenerateJSON(ctx, provider, campaignSystemPrompt, prompt, CampaignSchema)
		metrics.ObserveAttempt("text", provider.Name(), err)
		if err == nil {
			out, perr := ParseCampaign(text)
			if perr != nil {
				slog.Error("campaign response unusable", "provider", provider.Name(), "attempt", attempt+1, "error", perr)
				return nil, &Error{Kind: KindMalformed, Op: opCampaign, Msg: "Failed to generate campaign: the provider returned an unusable response", Err: perr}
			}
			return out, nil
		}

		lastErr = err
		slog.Warn("campaign generation attempt failed", "provider", provider.Name(), "attempt", attempt+1, "error", err)

		if !ai.IsRateLimit(err) {
			return nil, &Error{Kind: KindProvider, Op: opCampaign, Msg: "Failed to generate campaign. Please check your API key.", Err: err}
		}
	}

	return nil, &Error{
		Kind: KindRateLimit,
		Op:   opCampaign,
		Msg:  "Rate limit exceeded. Please wait a minute and try again. The free tier has limits on requests per minute.",
		Err:  lastErr,
	}
}

// ParseCampaign decodes provider text into a campaign. It accepts bare JSON
// as well as JSON wrapped in markdown fences or surrounded by prose. A
// result without posts is rejected.
func ParseCampaign(text string) (*models.CampaignOutput, error) {
	raw := extractJSONObject(text)
	if raw == "" {
		return nil, errors.New("no JSON object in response")
	}

	var out models.CampaignOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	if len(out.Posts) == 0 {
		return nil, errors.New("response contains no posts")
	}
	return &out, nil
}

// extractJSONObject strips markdown code fences and returns the text from
// the first '{' to the last '}'.
func extractJSONObject(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```") {
		if nl := strings.Index(response, "\n"); nl != -1 {
			response = response[nl+1:]
		}
		if idx := strings.LastIndex(response, "```"); idx != -1 {
			response = response[:idx]
		}
	}

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end < start {
		return ""
	}
	return response[start : end+1]
}

// sleepContext waits for d unless ctx ends first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
