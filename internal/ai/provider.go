// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai provides a unified interface for the text-generation providers
// that write campaign plans (Gemini, OpenAI, Mistral, Claude). Each provider
// implements the Provider interface, and the Registry selects the active one
// by name.
package ai

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
)

// Provider defines the interface that all AI providers must implement.
// Each provider handles its own HTTP communication and response parsing.
type Provider interface {
	// Generate sends a prompt to the LLM and returns the generated text.
	// systemPrompt sets the model's behaviour; userPrompt is the user's request.
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// Name returns the provider identifier (e.g., "gemini", "openai").
	Name() string
}

// StructuredGenerator is an optional interface for providers that can
// constrain their output to a JSON schema server-side.
type StructuredGenerator interface {
	// GenerateStructured returns JSON text that conforms to schema.
	GenerateStructured(ctx context.Context, systemPrompt, userPrompt string, schema *Schema) (string, error)
}

// ProviderConfig holds the credentials and settings for a single provider.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string

	// RequestsPerMinute caps outbound calls; 0 disables the limiter.
	RequestsPerMinute int

	// JSONMode asks OpenAI-compatible APIs for a JSON object response.
	JSONMode bool
}

// Registry manages available AI providers and selects the active one.
// It supports runtime switching by changing the active provider name.
// All methods are safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	active    string
}

// NewRegistry creates a registry and initialises providers for every config
// that has a non-empty API key. Providers without keys are silently skipped;
// providers whose client cannot be built are skipped with a warning.
func NewRegistry(active string, configs map[string]ProviderConfig) *Registry {
	r := &Registry{
		providers: make(map[string]Provider),
		active:    active,
	}

	for name, cfg := range configs {
		if cfg.APIKey == "" {
			continue
		}
		switch name {
		case "gemini":
			p, err := newGemini(context.Background(), cfg)
			if err != nil {
				slog.Warn("gemini provider unavailable", "error", err)
				continue
			}
			r.providers[name] = p
		case "openai":
			r.providers[name] = newOpenAI(name, cfg)
		case "claude":
			r.providers[name] = newClaude(cfg)
		case "mistral":
			if cfg.BaseURL == "" {
				cfg.BaseURL = "https://api.mistral.ai/v1"
			}
			r.providers[name] = newOpenAI(name, cfg)
		}
	}

	return r
}

// Generate calls the active provider's Generate method.
func (r *Registry) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	p, err := r.Active()
	if err != nil {
		return "", err
	}
	return p.Generate(ctx, systemPrompt, userPrompt)
}

// GenerateJSON asks the active provider for a JSON document matching
// schema. Providers implementing StructuredGenerator enforce the schema
// themselves; the rest get a plain prompt and the caller parses the text.
func (r *Registry) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, schema *Schema) (string, error) {
	p, err := r.Active()
	if err != nil {
		return "", err
	}
	return GenerateJSON(ctx, p, systemPrompt, userPrompt, schema)
}

// GenerateJSON asks p for a JSON document, using structured output when p
// supports it and schema is set.
func GenerateJSON(ctx context.Context, p Provider, systemPrompt, userPrompt string, schema *Schema) (string, error) {
	if sg, ok := p.(StructuredGenerator); ok && schema != nil {
		return sg.GenerateStructured(ctx, systemPrompt, userPrompt, schema)
	}
	return p.Generate(ctx, systemPrompt, userPrompt)
}

// Active returns the currently active provider.
func (r *Registry) Active() (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[r.active]
	if !ok {
		return nil, fmt.Errorf("ai: no provider configured for %q", r.active)
	}
	return p, nil
}

// SetActive switches the active provider at runtime. Returns an error if
// the named provider has no API key configured.
func (r *Registry) SetActive(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[name]; !ok {
		return fmt.Errorf("ai: provider %q is not available (no API key?)", name)
	}
	r.active = name
	return nil
}

// ActiveName returns the name of the currently active provider.
func (r *Registry) ActiveName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.active
}

// Available returns the sorted names of all providers that have valid API keys.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds or replaces a provider in the registry. This allows injecting
// custom providers at runtime (e.g. for testing or plugin-based providers).
func (r *Registry) Register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
}

// HasProvider checks whether a named provider is configured and available.
func (r *Registry) HasProvider(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.providers[name]
	return ok
}

// Close releases provider clients that hold connections.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for name, p := range r.providers {
		c, ok := p.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("ai: close %s: %w", name, err)
		}
	}
	return firstErr
}
