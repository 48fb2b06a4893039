// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"errors"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
)

// rateLimitMarkers are lower-cased fragments that providers put in quota
// and throttling errors. OpenAI-compatible providers surface the status
// as "(status 429)", the Google SDK as "Error 429". Anthropic reports a
// saturated API as "overloaded_error", which clears the same way.
var rateLimitMarkers = []string{
	"quota exceeded",
	"rate limit",
	"resource_exhausted",
	"resource has been exhausted",
	"too many requests",
	"status 429",
	"error 429",
	"overloaded_error",
}

// IsRateLimit reports whether err means the provider is throttling us and
// the call may succeed if retried later.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusTooManyRequests {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
