package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNew_ValidProviders(t *testing.T) {
	for _, provider := range []string{ProviderClaude, ProviderOpenAI, ProviderOllama, ProviderMock} {
		t.Run(provider, func(t *testing.T) {
			g, err := New(provider, "test-key", "")
			if err != nil {
				t.Fatalf("New(%q) error: %v", provider, err)
			}
			if g.Info().Provider != provider {
				t.Errorf("Info().Provider = %q, want %q", g.Info().Provider, provider)
			}
		})
	}
}

func TestNew_InvalidProvider(t *testing.T) {
	if _, err := New("invalid", "key", ""); err == nil {
		t.Error("expected error for invalid provider")
	}
}

func TestMock_QueuedResponsesAndEcho(t *testing.T) {
	m := NewMock()
	m.Responses = []string{"first"}

	got, err := m.Generate(context.Background(), Request{Prompt: "build a navbar"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "first" {
		t.Errorf("queued response: got %q", got)
	}

	got, _ = m.Generate(context.Background(), Request{Prompt: "build a footer"})
	if got == "" {
		t.Error("echo response should not be empty")
	}
	if len(m.Requests) != 2 {
		t.Errorf("expected 2 recorded requests, got %d", len(m.Requests))
	}
}

func TestMock_Error(t *testing.T) {
	m := NewMock()
	m.Err = errors.New("provider down")
	if _, err := m.Generate(context.Background(), Request{}); err == nil {
		t.Error("expected error from mock")
	}
}

func TestOllama_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req ollamaGenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Prompt != "hello" {
			t.Errorf("prompt: got %q", req.Prompt)
		}
		json.NewEncoder(w).Encode(ollamaGenerateResponse{Response: "world", Done: true})
	}))
	defer server.Close()

	g := NewOllama(server.URL)
	got, err := g.Generate(context.Background(), Request{Prompt: "hello"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "world" {
		t.Errorf("response: got %q", got)
	}
}

func TestOllama_GenerateErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	g := NewOllama(server.URL)
	if _, err := g.Generate(context.Background(), Request{Prompt: "hello"}); err == nil {
		t.Error("expected error on non-200 status")
	}
}
