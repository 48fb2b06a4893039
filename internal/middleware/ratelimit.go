// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Counter decides whether another request from key fits in the limit.
// *cache.WindowCounter and *SlidingWindow implement it.
type Counter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// limiterEntry tracks request timestamps for a single client.
type limiterEntry struct {
	mu         sync.Mutex
	timestamps []time.Time
}

// SlidingWindow is an in-process per-key sliding window counter, used when
// Valkey is not available.
type SlidingWindow struct {
	mu      sync.RWMutex
	clients map[string]*limiterEntry
	limit   int           // max requests per window
	window  time.Duration // sliding window duration
	stopCh  chan struct{}
	once    sync.Once
}

// NewSlidingWindow allows limit requests per window per key. It starts a
// background goroutine to clean up expired entries; call Stop to end it.
func NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	sw := &SlidingWindow{
		clients: make(map[string]*limiterEntry),
		limit:   limit,
		window:  window,
		stopCh:  make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sw.cleanup()
			case <-sw.stopCh:
				return
			}
		}
	}()

	return sw
}

// Stop terminates the background cleanup goroutine.
func (sw *SlidingWindow) Stop() {
	sw.once.Do(func() { close(sw.stopCh) })
}

// Allow checks whether key is within the limit and records the request.
func (sw *SlidingWindow) Allow(_ context.Context, key string) (bool, error) {
	sw.mu.RLock()
	entry, exists := sw.clients[key]
	sw.mu.RUnlock()

	if !exists {
		sw.mu.Lock()
		// Double-check after acquiring write lock.
		entry, exists = sw.clients[key]
		if !exists {
			entry = &limiterEntry{}
			sw.clients[key] = entry
		}
		sw.mu.Unlock()
	}

	now := time.Now()
	cutoff := now.Add(-sw.window)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	valid := entry.timestamps[:0]
	for _, ts := range entry.timestamps {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}
	entry.timestamps = valid

	if len(entry.timestamps) >= sw.limit {
		return false, nil
	}

	entry.timestamps = append(entry.timestamps, now)
	return true, nil
}

// cleanup removes entries with no recent activity.
func (sw *SlidingWindow) cleanup() {
	cutoff := time.Now().Add(-sw.window)

	sw.mu.Lock()
	defer sw.mu.Unlock()

	for key, entry := range sw.clients {
		entry.mu.Lock()
		hasRecent := false
		for _, ts := range entry.timestamps {
			if ts.After(cutoff) {
				hasRecent = true
				break
			}
		}
		entry.mu.Unlock()

		if !hasRecent {
			delete(sw.clients, key)
		}
	}
}

// RateLimit returns middleware that limits requests per client IP. When
// the counter itself fails the request is let through.
func RateLimit(counter Counter, retryAfter time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := counter.Allow(r.Context(), clientIP(r))
			if err != nil {
				slog.Warn("rate limiter unavailable, allowing request", "error", err)
				ok = true
			}
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
				writeError(w, http.StatusTooManyRequests, "Too many requests. Please wait a minute and try again.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the host part of RemoteAddr. chi's RealIP middleware
// runs first and has already replaced it with the proxied client address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
