// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

const (
	defaultSegmindBaseURL = "https://api.segmind.com/v1"
	segmindModelPath      = "/sdxl1.0-txt2img"

	// maxImageBytes bounds how much of a response body is read into memory.
	maxImageBytes = 20 << 20
)

// Segmind generates images with the Segmind SDXL text-to-image endpoint.
// Calls go through a circuit breaker so a failing upstream is skipped
// without waiting for it while the chain falls through to the next backend.
type Segmind struct {
	apiKey  string
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	seed    func() int
}

// NewSegmind creates the Segmind backend. An empty baseURL uses the public
// API; an empty apiKey sends no x-api-key header.
func NewSegmind(apiKey, baseURL string) *Segmind {
	if baseURL == "" {
		baseURL = defaultSegmindBaseURL
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "segmind",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &Segmind{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
		breaker: breaker,
		seed:    func() int { return rand.IntN(1_000_000) },
	}
}

func (s *Segmind) Name() string { return "segmind" }

// Synthesize requests a 1024x1024 image and returns it as a data URI.
func (s *Segmind) Synthesize(ctx context.Context, prompt string) (*Result, error) {
	out, err := s.breaker.Execute(func() (interface{}, error) {
		return s.request(ctx, prompt)
	})
	if err != nil {
		return nil, fmt.Errorf("segmind: %w", err)
	}

	data := out.([]byte)
	mime := DetectMIME(data, "image/jpeg")
	return &Result{
		URL:      DataURI(mime, data),
		Provider: s.Name(),
		Data:     data,
		MIME:     mime,
	}, nil
}

func (s *Segmind) request(ctx context.Context, prompt string) ([]byte, error) {
	payload, err := json.Marshal(segmindRequest{
		Prompt:            prompt,
		NegativePrompt:    "blurry, bad quality, distorted, ugly, low resolution, watermark",
		Samples:           1,
		Scheduler:         "UniPC",
		NumInferenceSteps: 25,
		GuidanceScale:     8,
		Seed:              s.seed(),
		ImgWidth:          1024,
		ImgHeight:         1024,
		Base64:            false,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+segmindModelPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("x-api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, truncate(body, 300))
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("empty image body")
	}
	return body, nil
}

type segmindRequest struct {
	Prompt            string `json:"prompt"`
	NegativePrompt    string `json:"negative_prompt"`
	Samples           int    `json:"samples"`
	Scheduler         string `json:"scheduler"`
	NumInferenceSteps int    `json:"num_inference_steps"`
	GuidanceScale     int    `json:"guidance_scale"`
	Seed              int    `json:"seed"`
	ImgWidth          int    `json:"img_width"`
	ImgHeight         int    `json:"img_height"`
	Base64            bool   `json:"base64"`
}

// truncate shortens an upstream error body for inclusion in an error.
func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
