// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metrics holds the Prometheus collectors shared by the HTTP layer
// and the generators. Collectors register with the default registry and are
// exposed by promhttp at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for ProviderAttempts.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	// HTTPRequests counts requests by method, route pattern and status.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration observes request latency by method, route pattern and status.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 300},
		},
		[]string{"method", "route", "status"},
	)

	// HTTPInFlight tracks requests currently being served.
	HTTPInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// ProviderAttempts counts calls to upstream generation backends.
	// kind is text, image or video.
	ProviderAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_attempts_total",
			Help: "Generation attempts against upstream providers",
		},
		[]string{"kind", "provider", "outcome"},
	)

	// GenerationRetries counts campaign retries after a rate-limit response.
	GenerationRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_retries_total",
			Help: "Campaign generation retries after rate limiting",
		},
		[]string{"provider"},
	)
)

// ObserveAttempt records one provider attempt.
func ObserveAttempt(kind, provider string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	ProviderAttempts.WithLabelValues(kind, provider, outcome).Inc()
}
