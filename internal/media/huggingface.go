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
	"net/http"
	"strings"
)

const (
	defaultHuggingFaceBaseURL = "https://router.huggingface.co"

	// MinVideoBytes is the smallest body accepted as a video. Smaller 200
	// responses are JSON status messages, not media.
	MinVideoBytes = 1000

	maxVideoBytes = 200 << 20
)

// HuggingFace runs one text-to-video model on the Hugging Face inference
// router. The video generator holds one per configured model.
type HuggingFace struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewHuggingFace creates a backend for model. The client should carry no
// timeout of its own: callers bound each attempt through ctx.
func NewHuggingFace(apiKey, baseURL, model string, client *http.Client) *HuggingFace {
	if baseURL == "" {
		baseURL = defaultHuggingFaceBaseURL
	}
	if client == nil {
		client = &http.Client{}
	}
	return &HuggingFace{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  client,
	}
}

// Name returns the model identifier.
func (h *HuggingFace) Name() string { return h.model }

// Synthesize posts {"inputs": prompt} to the model and returns the video as
// a data URI.
func (h *HuggingFace) Synthesize(ctx context.Context, prompt string) (*Result, error) {
	payload, err := json.Marshal(map[string]string{"inputs": prompt})
	if err != nil {
		return nil, fmt.Errorf("huggingface marshal: %w", err)
	}

	url := h.baseURL + "/models/" + h.model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("huggingface request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("huggingface http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxVideoBytes))
	if err != nil {
		return nil, fmt.Errorf("huggingface read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("huggingface API error (status %d): %s", resp.StatusCode, truncate(body, 300))
	}
	if len(body) < MinVideoBytes {
		return nil, fmt.Errorf("%w: %d bytes from %s", ErrPayloadTooSmall, len(body), h.model)
	}

	mime := DetectMIME(body, "video/mp4")
	return &Result{
		URL:      DataURI(mime, body),
		Provider: h.model,
		Data:     body,
		MIME:     mime,
	}, nil
}
