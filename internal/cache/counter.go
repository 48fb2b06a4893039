// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// counterKeyPrefix is the Valkey key prefix for rate-limit windows.
const counterKeyPrefix = "ratelimit:"

// WindowCounter is a fixed-window request counter. Each key gets one Valkey
// counter per window; the counter expires with its window.
type WindowCounter struct {
	client *redis.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewWindowCounter allows limit hits per key per window. Windows are
// bucketed in milliseconds, so a non-positive window falls back to one
// minute and anything shorter than 1ms is raised to 1ms.
func NewWindowCounter(client *redis.Client, limit int, window time.Duration) *WindowCounter {
	switch {
	case window <= 0:
		window = time.Minute
	case window < time.Millisecond:
		window = time.Millisecond
	}
	return &WindowCounter{client: client, limit: limit, window: window, now: time.Now}
}

// Allow records a hit for key and reports whether it is within the limit.
func (c *WindowCounter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := c.now().UnixMilli() / c.window.Milliseconds()
	k := fmt.Sprintf("%s%s:%d", counterKeyPrefix, key, bucket)

	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.PExpire(ctx, k, c.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("valkey rate counter: %w", err)
	}

	return incr.Val() <= int64(c.limit), nil
}
