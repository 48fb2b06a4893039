// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package media

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultPexelsBaseURL = "https://api.pexels.com"

// Canned stock clips used when Pexels is not configured or finds nothing.
const (
	StockTechVideo     = "https://cdn.coverr.co/videos/coverr-typing-on-computer-keyboard-5169/1080p.mp4"
	StockNatureVideo   = "https://cdn.coverr.co/videos/coverr-walking-in-forest-4638/1080p.mp4"
	StockBusinessVideo = "https://cdn.coverr.co/videos/coverr-people-working-in-office-5343/1080p.mp4"
	StockGenericVideo  = "https://cdn.coverr.co/videos/coverr-cloudy-sky-2765/1080p.mp4"
)

// StockVideos finds a stock clip matching a prompt. It never fails: every
// error path ends in one of the canned clips.
type StockVideos struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewStockVideos creates the finder. Without an apiKey only canned clips
// are returned.
func NewStockVideos(apiKey, baseURL string) *StockVideos {
	if baseURL == "" {
		baseURL = defaultPexelsBaseURL
	}
	return &StockVideos{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Find returns a portrait stock clip URL for prompt.
func (s *StockVideos) Find(ctx context.Context, prompt string) string {
	if s.apiKey != "" {
		link, err := s.search(ctx, prompt)
		if err != nil {
			slog.Warn("pexels search failed", "error", err)
		} else if link != "" {
			return link
		}
	}
	return CannedVideo(prompt)
}

func (s *StockVideos) search(ctx context.Context, prompt string) (string, error) {
	words := strings.Fields(prompt)
	if len(words) > 3 {
		words = words[:3]
	}

	q := url.Values{}
	q.Set("query", strings.Join(words, " "))
	q.Set("per_page", "1")
	q.Set("orientation", "portrait")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/videos/search?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("pexels request: %w", err)
	}
	req.Header.Set("Authorization", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("pexels http: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pexels API error (status %d)", resp.StatusCode)
	}

	var result pexelsSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("pexels decode: %w", err)
	}

	if len(result.Videos) == 0 || len(result.Videos[0].VideoFiles) == 0 {
		return "", nil
	}
	return result.Videos[0].VideoFiles[0].Link, nil
}

// CannedVideo picks a built-in clip by keywords in prompt.
func CannedVideo(prompt string) string {
	p := strings.ToLower(prompt)
	switch {
	case strings.Contains(p, "tech") || strings.Contains(p, "app"):
		return StockTechVideo
	case strings.Contains(p, "nature") || strings.Contains(p, "travel"):
		return StockNatureVideo
	case strings.Contains(p, "business") || strings.Contains(p, "office"):
		return StockBusinessVideo
	}
	return StockGenericVideo
}

type pexelsSearchResponse struct {
	Videos []struct {
		VideoFiles []struct {
			Link string `json:"link"`
		} `json:"video_files"`
	} `json:"videos"`
}
