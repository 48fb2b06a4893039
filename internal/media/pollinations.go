// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package media

import (
	"context"
	"net/url"
	"strings"
)

const defaultPollinationsBaseURL = "https://image.pollinations.ai"

// Pollinations builds a Pollinations image URL. The image is rendered when
// the client fetches the URL, so Synthesize makes no network call and only
// fails if ctx is already done.
type Pollinations struct {
	baseURL string
}

// NewPollinations creates the backend. An empty baseURL uses the public host.
func NewPollinations(baseURL string) *Pollinations {
	if baseURL == "" {
		baseURL = defaultPollinationsBaseURL
	}
	return &Pollinations{baseURL: strings.TrimRight(baseURL, "/")}
}

func (p *Pollinations) Name() string { return "pollinations" }

func (p *Pollinations) Synthesize(ctx context.Context, prompt string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Result{URL: p.URL(prompt), Provider: p.Name()}, nil
}

// URL returns the square 1024px flux URL for prompt.
func (p *Pollinations) URL(prompt string) string {
	return p.baseURL + "/prompt/" + url.PathEscape(prompt) +
		"?width=1024&height=1024&nologo=true&enhance=true&model=flux"
}
