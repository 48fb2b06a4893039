// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

// geminiProvider implements Provider and StructuredGenerator on top of the
// Google Generative AI SDK.
type geminiProvider struct {
	config  ProviderConfig
	client  *genai.Client
	limiter *rate.Limiter
}

// newGemini creates a Gemini provider. BaseURL overrides the API endpoint.
func newGemini(ctx context.Context, cfg ProviderConfig) (*geminiProvider, error) {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	return &geminiProvider{
		config:  cfg,
		client:  client,
		limiter: newLimiter(cfg.RequestsPerMinute),
	}, nil
}

func (p *geminiProvider) Name() string { return "gemini" }

// Generate sends a generateContent request and returns the first text part.
func (p *geminiProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return p.generate(ctx, p.model(systemPrompt), userPrompt)
}

// GenerateStructured requests application/json output constrained to schema.
func (p *geminiProvider) GenerateStructured(ctx context.Context, systemPrompt, userPrompt string, schema *Schema) (string, error) {
	model := p.model(systemPrompt)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = toGenaiSchema(schema)
	return p.generate(ctx, model, userPrompt)
}

// model returns a fresh model handle; handles carry per-call config and
// must not be shared between concurrent requests.
func (p *geminiProvider) model(systemPrompt string) *genai.GenerativeModel {
	model := p.client.GenerativeModel(p.config.Model)
	if systemPrompt != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt))
	}
	return model
}

func (p *geminiProvider) generate(ctx context.Context, model *genai.GenerativeModel, userPrompt string) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("gemini rate limiter: %w", err)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini: no candidates returned")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini: no text in response")
	}
	return sb.String(), nil
}

// Close releases the SDK client's connections.
func (p *geminiProvider) Close() error {
	return p.client.Close()
}

// toGenaiSchema translates the provider-neutral schema into the SDK type.
func toGenaiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        genaiType(s.Type),
		Description: s.Description,
		Nullable:    s.Nullable,
		Required:    s.Required,
		Items:       toGenaiSchema(s.Items),
	}
	if len(s.Enum) > 0 {
		out.Format = "enum"
		out.Enum = s.Enum
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	return out
}

func genaiType(t SchemaType) genai.Type {
	switch t {
	case TypeObject:
		return genai.TypeObject
	case TypeArray:
		return genai.TypeArray
	case TypeString:
		return genai.TypeString
	case TypeInteger:
		return genai.TypeInteger
	case TypeNumber:
		return genai.TypeNumber
	case TypeBoolean:
		return genai.TypeBoolean
	}
	return genai.TypeUnspecified
}
