// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package media talks to the image and video generation backends. Every
// backend implements Synthesizer so the generators can walk an ordered
// chain of them and stop at the first success.
package media

import (
	"context"
	"errors"
)

// ErrPayloadTooSmall is returned when a backend answers 200 with a body too
// small to be real media. Hugging Face does this for queued or failed jobs.
var ErrPayloadTooSmall = errors.New("media: payload too small")

// Synthesizer produces one media asset from a text prompt.
type Synthesizer interface {
	// Synthesize returns the generated asset. Implementations must honour
	// ctx cancellation for any network call they make.
	Synthesize(ctx context.Context, prompt string) (*Result, error)

	// Name identifies the backend (or model) in logs and responses.
	Name() string
}

// Result is a generated asset. URL is either a remote URL or a data URI.
// Data and MIME are set only when the backend returned the bytes itself.
type Result struct {
	URL      string
	Provider string
	Data     []byte
	MIME     string
}

// HasData reports whether the result carries raw bytes that can be stored.
func (r *Result) HasData() bool {
	return r != nil && len(r.Data) > 0
}
