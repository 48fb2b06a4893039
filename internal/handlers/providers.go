// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"
)

// ProviderRegistry selects the active text provider at runtime.
// *ai.Registry implements it.
type ProviderRegistry interface {
	ActiveName() string
	Available() []string
	SetActive(name string) error
}

// Providers serves provider status and switching.
type Providers struct {
	registry ProviderRegistry
}

// NewProviders creates the provider handlers.
func NewProviders(registry ProviderRegistry) *Providers {
	return &Providers{registry: registry}
}

type providerStatus struct {
	Active    string   `json:"active"`
	Available []string `json:"available"`
}

type setProviderRequest struct {
	Name string `json:"name"`
}

// Status handles GET /api/providers.
func (h *Providers) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.status())
}

// SetActive handles PUT /api/providers/active.
func (h *Providers) SetActive(w http.ResponseWriter, r *http.Request) {
	var req setProviderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "Provider name is required", nil)
		return
	}

	if err := h.registry.SetActive(name); err != nil {
		slog.Warn("failed to switch AI provider", "provider", name, "error", err)
		writeError(w, http.StatusBadRequest, "Provider is not available (no API key configured)", err.Error())
		return
	}

	slog.Info("ai provider switched", "provider", name)
	writeJSON(w, http.StatusOK, h.status())
}

func (h *Providers) status() providerStatus {
	available := h.registry.Available()
	if available == nil {
		available = []string{}
	}
	return providerStatus{Active: h.registry.ActiveName(), Available: available}
}
