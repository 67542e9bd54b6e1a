package provider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/qascope/qascope/internal/qerrors"
)

func TestFrontierCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %q, want /v1/messages", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "sk-ant-test" {
			t.Errorf("x-api-key = %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got != anthropicVersion {
			t.Errorf("anthropic-version = %q", got)
		}

		var req messagesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.System == "" {
			t.Error("system prompt should be set")
		}
		if req.MaxTokens == 0 {
			t.Error("max_tokens must be set")
		}

		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{
				{"type": "text", "text": `{"summary":`},
				{"type": "text", "text": `"ok"}`},
			},
		})
	}))
	defer server.Close()

	p := NewFrontier(server.Client())
	cfg := Config{Endpoint: server.URL, APIKey: "sk-ant-test", Model: "claude-sonnet-4", Timeout: 5 * time.Second}

	got, err := p.Call(context.Background(), testRequest(), cfg)
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	// Text blocks are concatenated.
	if got != `{"summary":"ok"}` {
		t.Errorf("Call() = %q", got)
	}
}

func TestFrontierUsable(t *testing.T) {
	p := NewFrontier(nil)

	if err := p.Usable(Config{Endpoint: "https://api.anthropic.com", APIKey: "sk-1", Model: "claude-sonnet-4"}); err != nil {
		t.Errorf("Usable() = %v, want nil", err)
	}
	if err := p.Usable(Config{Endpoint: "https://api.anthropic.com", Model: "claude-sonnet-4"}); qerrors.CodeOf(err) != qerrors.CodeConfigInvalid {
		t.Errorf("missing key: code = %v, want %v", qerrors.CodeOf(err), qerrors.CodeConfigInvalid)
	}
	if err := p.Usable(Config{APIKey: "sk-1", Model: "claude-sonnet-4"}); qerrors.CodeOf(err) != qerrors.CodeConfigInvalid {
		t.Errorf("missing endpoint: code = %v, want %v", qerrors.CodeOf(err), qerrors.CodeConfigInvalid)
	}
	if err := p.Usable(Config{Endpoint: "https://api.anthropic.com", APIKey: "sk-1"}); qerrors.CodeOf(err) != qerrors.CodeConfigInvalid {
		t.Errorf("missing model: code = %v, want %v", qerrors.CodeOf(err), qerrors.CodeConfigInvalid)
	}
}

func TestFrontierCallUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"type": "authentication_error", "message": "invalid x-api-key"},
		})
	}))
	defer server.Close()

	p := NewFrontier(server.Client())
	cfg := Config{Endpoint: server.URL, APIKey: "bad", Model: "claude-sonnet-4", Timeout: 5 * time.Second}

	_, err := p.Call(context.Background(), testRequest(), cfg)
	if qerrors.CodeOf(err) != qerrors.CodeUnauthorized {
		t.Errorf("code = %v, want %v", qerrors.CodeOf(err), qerrors.CodeUnauthorized)
	}
}

func TestFrontierCallNoTextContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"content": []any{}})
	}))
	defer server.Close()

	p := NewFrontier(server.Client())
	cfg := Config{Endpoint: server.URL, APIKey: "sk-1", Model: "claude-sonnet-4", Timeout: 5 * time.Second}

	_, err := p.Call(context.Background(), testRequest(), cfg)
	if qerrors.CodeOf(err) != qerrors.CodeMalformedResponse {
		t.Errorf("code = %v, want %v", qerrors.CodeOf(err), qerrors.CodeMalformedResponse)
	}
}

func TestFrontierCallCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server can watch for the client
		// disconnect; otherwise r.Context() is never cancelled and
		// server.Close() deadlocks.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	p := NewFrontier(server.Client())
	cfg := Config{Endpoint: server.URL, APIKey: "sk-1", Model: "claude-sonnet-4", Timeout: 5 * time.Second}

	_, err := p.Call(ctx, testRequest(), cfg)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
