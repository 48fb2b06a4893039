// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON HTTP API: campaign, image and video
// generation, saved campaigns, the content calendar and provider switching.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"instaplan/internal/generator"
)

// maxBodyBytes caps request bodies. Saved campaigns are the largest.
const maxBodyBytes = 1 << 20

// errorBody is the shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// writeError writes {"error": msg, "details": details}.
func writeError(w http.ResponseWriter, status int, msg string, details any) {
	writeJSON(w, status, errorBody{Error: msg, Details: details})
}

// statusFor maps a generator error kind to its HTTP status.
func statusFor(kind generator.Kind) int {
	switch kind {
	case generator.KindValidation:
		return http.StatusBadRequest
	case generator.KindRateLimit:
		return http.StatusTooManyRequests
	case generator.KindUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeGenerationError reports a generator failure. Unclassified errors
// become a bare 500.
func writeGenerationError(w http.ResponseWriter, err error) {
	var gerr *generator.Error
	if !errors.As(err, &gerr) {
		slog.Error("unexpected generation error", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error", nil)
		return
	}

	status := statusFor(gerr.Kind)
	if status >= http.StatusInternalServerError {
		slog.Error("generation failed", "op", gerr.Op, "kind", gerr.Kind.String(), "error", err)
	} else {
		slog.Warn("generation rejected", "op", gerr.Op, "kind", gerr.Kind.String(), "error", err)
	}

	var details any
	if d := gerr.Details(); d != "" {
		details = d
	}
	writeError(w, status, gerr.Msg, details)
}

// decodeJSON reads the request body into dst. It writes a 400 and returns
// false when the body is not a single valid JSON value.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			writeError(w, http.StatusRequestEntityTooLarge, "Request body is too large", nil)
		case errors.Is(err, io.EOF):
			writeError(w, http.StatusBadRequest, "Request body is required", nil)
		default:
			writeError(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		}
		return false
	}
	if dec.More() {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", "unexpected data after JSON value")
		return false
	}
	return true
}

// databaseUnavailable answers persistence requests when no database is
// configured.
func databaseUnavailable(w http.ResponseWriter) {
	writeError(w, http.StatusServiceUnavailable, "Database is not configured", nil)
}
