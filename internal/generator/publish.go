// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generator

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"time"

	"instaplan/internal/media"
	"instaplan/internal/storage"
)

// Uploader stores generated media and returns a public URL for it.
// *storage.Client satisfies it.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	FileURL(key string) string
}

// publish uploads res.Data when an uploader is configured and returns the
// URL to hand to the client. Upload failures are logged and the inline
// data URI is kept, so storage problems never fail a generation.
func publish(ctx context.Context, up Uploader, prompt string, res *media.Result) string {
	if up == nil || !res.HasData() {
		return res.URL
	}

	key := storage.MediaKey(prompt, media.Extension(res.MIME), time.Now().UTC())
	if err := up.Upload(ctx, key, res.MIME, bytes.NewReader(res.Data), int64(len(res.Data))); err != nil {
		slog.Warn("media upload failed, returning inline data", "provider", res.Provider, "error", err)
		return res.URL
	}
	return up.FileURL(key)
}
