// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
)

func TestToGenaiSchema(t *testing.T) {
	if toGenaiSchema(nil) != nil {
		t.Error("nil schema should translate to nil")
	}

	in := &Schema{
		Type:     TypeObject,
		Required: []string{"kind", "tags"},
		Properties: map[string]*Schema{
			"kind": {Type: TypeString, Enum: []string{"a", "b"}},
			"tags": {Type: TypeArray, Items: &Schema{Type: TypeString}},
			"note": {Type: TypeString, Nullable: true, Description: "optional"},
		},
	}

	out := toGenaiSchema(in)
	if out.Type != genai.TypeObject {
		t.Errorf("Type: got %v, want object", out.Type)
	}
	if len(out.Required) != 2 {
		t.Errorf("Required: got %v", out.Required)
	}

	kind := out.Properties["kind"]
	if kind == nil || kind.Type != genai.TypeString || kind.Format != "enum" || len(kind.Enum) != 2 {
		t.Errorf("kind: got %+v", kind)
	}

	tags := out.Properties["tags"]
	if tags == nil || tags.Type != genai.TypeArray || tags.Items == nil || tags.Items.Type != genai.TypeString {
		t.Errorf("tags: got %+v", tags)
	}

	note := out.Properties["note"]
	if note == nil || !note.Nullable || note.Description != "optional" || note.Format != "" {
		t.Errorf("note: got %+v", note)
	}
}

func TestGenaiType(t *testing.T) {
	tests := []struct {
		in   SchemaType
		want genai.Type
	}{
		{TypeObject, genai.TypeObject},
		{TypeArray, genai.TypeArray},
		{TypeString, genai.TypeString},
		{TypeInteger, genai.TypeInteger},
		{TypeNumber, genai.TypeNumber},
		{TypeBoolean, genai.TypeBoolean},
		{SchemaType("mystery"), genai.TypeUnspecified},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			if got := genaiType(tt.in); got != tt.want {
				t.Errorf("genaiType(%q): got %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewGeminiDefaults(t *testing.T) {
	p, err := newGemini(context.Background(), ProviderConfig{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("newGemini: %v", err)
	}
	defer p.Close()

	if p.config.Model != "gemini-2.0-flash" {
		t.Errorf("default model: got %q", p.config.Model)
	}
	if p.Name() != "gemini" {
		t.Errorf("Name: got %q", p.Name())
	}
}
