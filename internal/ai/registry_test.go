// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

// mockProvider is a test double implementing the Provider interface.
// It records calls and returns configurable responses.
type mockProvider struct {
	name       string
	response   string
	err        error
	callCount  int
	lastSystem string
	lastUser   string
	mu         sync.Mutex
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	m.lastSystem = systemPrompt
	m.lastUser = userPrompt
	return m.response, m.err
}

// structuredMock also implements StructuredGenerator.
type structuredMock struct {
	mockProvider
	structuredCalls int
	lastSchema      *Schema
}

func (m *structuredMock) GenerateStructured(ctx context.Context, systemPrompt, userPrompt string, schema *Schema) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.structuredCalls++
	m.lastSchema = schema
	return `{"structured":true}`, nil
}

// closingMock records Close calls.
type closingMock struct {
	mockProvider
	closed bool
	err    error
}

func (m *closingMock) Close() error {
	m.closed = true
	return m.err
}

// ---------- Registry.Generate ----------

func TestRegistryGenerate(t *testing.T) {
	t.Run("delegates to active provider", func(t *testing.T) {
		mock := &mockProvider{name: "test", response: "Hello from mock"}

		reg := &Registry{
			providers: map[string]Provider{"test": mock},
			active:    "test",
		}

		result, err := reg.Generate(context.Background(), "system", "user")
		if err != nil {
			t.Fatalf("Generate: unexpected error: %v", err)
		}
		if result != "Hello from mock" {
			t.Errorf("result: got %q, want %q", result, "Hello from mock")
		}

		mock.mu.Lock()
		defer mock.mu.Unlock()
		if mock.callCount != 1 {
			t.Errorf("callCount: got %d, want 1", mock.callCount)
		}
		if mock.lastSystem != "system" || mock.lastUser != "user" {
			t.Errorf("prompts: got (%q, %q)", mock.lastSystem, mock.lastUser)
		}
	})

	t.Run("propagates provider error", func(t *testing.T) {
		mock := &mockProvider{name: "test", err: fmt.Errorf("api failure")}

		reg := &Registry{
			providers: map[string]Provider{"test": mock},
			active:    "test",
		}

		_, err := reg.Generate(context.Background(), "system", "user")
		if err == nil || err.Error() != "api failure" {
			t.Errorf("error: got %v, want api failure", err)
		}
	})

	t.Run("error when active name does not match any registered provider", func(t *testing.T) {
		reg := &Registry{
			providers: map[string]Provider{"openai": &mockProvider{name: "openai"}},
			active:    "gemini",
		}

		if _, err := reg.Generate(context.Background(), "system", "user"); err == nil {
			t.Fatal("expected error for mismatched active provider, got nil")
		}
	})
}

// ---------- Registry.GenerateJSON ----------

func TestRegistryGenerateJSON(t *testing.T) {
	schema := &Schema{Type: TypeObject}

	t.Run("uses structured output when supported", func(t *testing.T) {
		mock := &structuredMock{mockProvider: mockProvider{name: "gemini", response: "plain"}}
		reg := &Registry{providers: map[string]Provider{"gemini": mock}, active: "gemini"}

		got, err := reg.GenerateJSON(context.Background(), "sys", "usr", schema)
		if err != nil {
			t.Fatalf("GenerateJSON: unexpected error: %v", err)
		}
		if got != `{"structured":true}` {
			t.Errorf("result: got %q", got)
		}
		if mock.structuredCalls != 1 || mock.callCount != 0 {
			t.Errorf("calls: structured=%d plain=%d, want 1/0", mock.structuredCalls, mock.callCount)
		}
		if mock.lastSchema != schema {
			t.Error("schema was not passed through")
		}
	})

	t.Run("falls back to plain generation", func(t *testing.T) {
		mock := &mockProvider{name: "openai", response: `{"plain":true}`}
		reg := &Registry{providers: map[string]Provider{"openai": mock}, active: "openai"}

		got, err := reg.GenerateJSON(context.Background(), "sys", "usr", schema)
		if err != nil {
			t.Fatalf("GenerateJSON: unexpected error: %v", err)
		}
		if got != `{"plain":true}` {
			t.Errorf("result: got %q", got)
		}
	})

	t.Run("no active provider", func(t *testing.T) {
		reg := &Registry{providers: map[string]Provider{}, active: "gemini"}
		if _, err := reg.GenerateJSON(context.Background(), "sys", "usr", schema); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

// ---------- Registry.SetActive ----------

func TestRegistrySetActive(t *testing.T) {
	t.Run("switches to valid provider", func(t *testing.T) {
		mockA := &mockProvider{name: "a", response: "from a"}
		mockB := &mockProvider{name: "b", response: "from b"}

		reg := &Registry{
			providers: map[string]Provider{"a": mockA, "b": mockB},
			active:    "a",
		}

		if err := reg.SetActive("b"); err != nil {
			t.Fatalf("SetActive(b): unexpected error: %v", err)
		}
		if reg.ActiveName() != "b" {
			t.Errorf("ActiveName: got %q, want %q", reg.ActiveName(), "b")
		}

		result, err := reg.Generate(context.Background(), "sys", "usr")
		if err != nil {
			t.Fatalf("Generate: unexpected error: %v", err)
		}
		if result != "from b" {
			t.Errorf("result: got %q, want %q", result, "from b")
		}
	})

	t.Run("returns error for non-existent provider", func(t *testing.T) {
		reg := &Registry{
			providers: map[string]Provider{"openai": &mockProvider{name: "openai"}},
			active:    "openai",
		}

		if err := reg.SetActive("nonexistent"); err == nil {
			t.Fatal("expected error for non-existent provider, got nil")
		}
		if reg.ActiveName() != "openai" {
			t.Errorf("ActiveName should remain %q, got %q", "openai", reg.ActiveName())
		}
	})
}

// ---------- Registry.Available / HasProvider ----------

func TestRegistryAvailable(t *testing.T) {
	reg := &Registry{
		providers: map[string]Provider{
			"openai":  &mockProvider{name: "openai"},
			"gemini":  &mockProvider{name: "gemini"},
			"mistral": &mockProvider{name: "mistral"},
		},
		active: "openai",
	}

	available := reg.Available()
	want := []string{"gemini", "mistral", "openai"}
	if len(available) != len(want) {
		t.Fatalf("len(Available): got %d, want %d", len(available), len(want))
	}
	for i, name := range available {
		if name != want[i] {
			t.Errorf("Available[%d]: got %q, want %q", i, name, want[i])
		}
	}

	empty := &Registry{providers: map[string]Provider{}}
	if got := empty.Available(); len(got) != 0 {
		t.Errorf("empty registry Available: got %v", got)
	}
}

func TestRegistryHasProvider(t *testing.T) {
	reg := &Registry{
		providers: map[string]Provider{
			"openai": &mockProvider{name: "openai"},
			"gemini": &mockProvider{name: "gemini"},
		},
		active: "openai",
	}

	tests := []struct {
		name string
		want bool
	}{
		{"openai", true},
		{"gemini", true},
		{"mistral", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reg.HasProvider(tt.name); got != tt.want {
				t.Errorf("HasProvider(%q): got %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestRegistryRegister(t *testing.T) {
	reg := &Registry{providers: map[string]Provider{}, active: "custom"}

	reg.Register("custom", &mockProvider{name: "custom", response: "first"})
	reg.Register("custom", &mockProvider{name: "custom", response: "second"})

	got, err := reg.Generate(context.Background(), "", "")
	if err != nil {
		t.Fatalf("Generate: unexpected error: %v", err)
	}
	if got != "second" {
		t.Errorf("Register should replace: got %q, want second", got)
	}
}

func TestRegistryClose(t *testing.T) {
	a := &closingMock{mockProvider: mockProvider{name: "a"}}
	b := &closingMock{mockProvider: mockProvider{name: "b"}, err: errors.New("boom")}
	reg := &Registry{providers: map[string]Provider{
		"a": a,
		"b": b,
		"c": &mockProvider{name: "c"},
	}}

	err := reg.Close()
	if err == nil {
		t.Fatal("expected close error to surface")
	}
	if !a.closed || !b.closed {
		t.Errorf("closed: a=%v b=%v, want both true", a.closed, b.closed)
	}
}

// ---------- Concurrency ----------

func TestRegistryConcurrency(t *testing.T) {
	mockA := &mockProvider{name: "a", response: "from a"}
	mockB := &mockProvider{name: "b", response: "from b"}

	reg := &Registry{
		providers: map[string]Provider{"a": mockA, "b": mockB},
		active:    "a",
	}

	const goroutines = 100
	var wg sync.WaitGroup
	wg.Add(goroutines * 2)

	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			name := "a"
			if i%2 == 0 {
				name = "b"
			}
			reg.SetActive(name)
		}(i)
	}

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			result, err := reg.Generate(context.Background(), "sys", "usr")
			if err != nil {
				t.Errorf("Generate error during concurrency: %v", err)
				return
			}
			if result != "from a" && result != "from b" {
				t.Errorf("unexpected result: %q", result)
			}
		}()
	}

	wg.Wait()
}

// ---------- NewRegistry ----------

func TestNewRegistryProviderNames(t *testing.T) {
	for _, name := range []string{"openai", "mistral", "gemini", "claude"} {
		t.Run(name, func(t *testing.T) {
			reg := NewRegistry(name, map[string]ProviderConfig{
				name: {APIKey: "test-key", Model: "test-model"},
			})
			defer reg.Close()

			p, err := reg.Active()
			if err != nil {
				t.Fatalf("Active: unexpected error: %v", err)
			}
			if p.Name() != name {
				t.Errorf("Name: got %q, want %q", p.Name(), name)
			}
		})
	}
}

func TestNewRegistrySkipsEmptyAPIKey(t *testing.T) {
	reg := NewRegistry("openai", map[string]ProviderConfig{
		"openai":  {APIKey: "", Model: "gpt-4o"},
		"mistral": {APIKey: "valid-key", Model: "mistral-large"},
	})

	if reg.HasProvider("openai") {
		t.Error("openai should be skipped (no API key)")
	}
	if !reg.HasProvider("mistral") {
		t.Error("mistral should be available (has API key)")
	}
}

func TestNewRegistryIgnoresUnknownProvider(t *testing.T) {
	reg := NewRegistry("cohere", map[string]ProviderConfig{
		"cohere": {APIKey: "key", Model: "model"},
	})

	if reg.HasProvider("cohere") {
		t.Error("unknown provider should not be registered")
	}
	if len(reg.Available()) != 0 {
		t.Errorf("len(Available): got %d, want 0", len(reg.Available()))
	}
}

func TestNewRegistryMistralDefaultBaseURL(t *testing.T) {
	reg := NewRegistry("mistral", map[string]ProviderConfig{
		"mistral": {APIKey: "key"},
	})

	p, err := reg.Active()
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	op, ok := p.(*openAIProvider)
	if !ok {
		t.Fatalf("mistral provider type: got %T", p)
	}
	if op.config.BaseURL != "https://api.mistral.ai/v1" {
		t.Errorf("BaseURL: got %q", op.config.BaseURL)
	}
}
