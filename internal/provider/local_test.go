package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/qascope/qascope/internal/qerrors"
	"github.com/qascope/qascope/internal/task"
)

func testRequest() task.Request {
	return task.Request{
		Kind:      task.KindImpactAnalysis,
		InputText: "Changed the checkout total calculation",
	}
}

func TestLocalCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %q, want /api/chat", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}

		var req ollamaChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "llama3.1" {
			t.Errorf("model = %q, want llama3.1", req.Model)
		}
		if req.Stream {
			t.Error("stream should be disabled")
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("expected system+user messages, got %d", len(req.Messages))
		}

		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]string{"role": "assistant", "content": `{"summary":"ok"}`},
			"done":    true,
		})
	}))
	defer server.Close()

	p := NewLocal(server.Client())
	cfg := Config{Endpoint: server.URL, Model: "llama3.1", Timeout: 5 * time.Second}

	got, err := p.Call(context.Background(), testRequest(), cfg)
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if got != `{"summary":"ok"}` {
		t.Errorf("Call() = %q", got)
	}
}

func TestLocalUsableRequiresEndpoint(t *testing.T) {
	p := NewLocal(nil)

	if err := p.Usable(Config{Endpoint: "http://localhost:11434"}); err != nil {
		t.Errorf("Usable() with endpoint = %v, want nil", err)
	}

	err := p.Usable(Config{})
	if qerrors.CodeOf(err) != qerrors.CodeConfigInvalid {
		t.Errorf("Usable() without endpoint code = %v, want %v", qerrors.CodeOf(err), qerrors.CodeConfigInvalid)
	}
}

func TestLocalCallUnreachable(t *testing.T) {
	// Closed server: connection refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	p := NewLocal(nil)
	cfg := Config{Endpoint: url, Model: "llama3.1", Timeout: 2 * time.Second}

	_, err := p.Call(context.Background(), testRequest(), cfg)
	if qerrors.CodeOf(err) != qerrors.CodeUnreachable {
		t.Errorf("code = %v, want %v", qerrors.CodeOf(err), qerrors.CodeUnreachable)
	}
}

func TestLocalCallTimeout(t *testing.T) {
	done := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-done
	}))
	defer func() {
		close(done)
		server.Close()
	}()

	p := NewLocal(server.Client())
	cfg := Config{Endpoint: server.URL, Model: "llama3.1", Timeout: 50 * time.Millisecond}

	_, err := p.Call(context.Background(), testRequest(), cfg)
	if qerrors.CodeOf(err) != qerrors.CodeTimeout {
		t.Errorf("code = %v, want %v", qerrors.CodeOf(err), qerrors.CodeTimeout)
	}
}

func TestLocalCallServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"error": "model not found"})
	}))
	defer server.Close()

	p := NewLocal(server.Client())
	cfg := Config{Endpoint: server.URL, Model: "nope", Timeout: 5 * time.Second}

	_, err := p.Call(context.Background(), testRequest(), cfg)
	if qerrors.CodeOf(err) != qerrors.CodeMalformedResponse {
		t.Errorf("code = %v, want %v", qerrors.CodeOf(err), qerrors.CodeMalformedResponse)
	}
}

func TestLocalCallNotJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>proxy error</html>"))
	}))
	defer server.Close()

	p := NewLocal(server.Client())
	cfg := Config{Endpoint: server.URL, Model: "llama3.1", Timeout: 5 * time.Second}

	_, err := p.Call(context.Background(), testRequest(), cfg)
	if qerrors.CodeOf(err) != qerrors.CodeMalformedResponse {
		t.Errorf("code = %v, want %v", qerrors.CodeOf(err), qerrors.CodeMalformedResponse)
	}
}

func TestLocalHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/version" {
			t.Errorf("path = %q, want /api/version", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"version": "0.5.1"})
	}))
	defer server.Close()

	p := NewLocal(server.Client())
	if err := p.Health(context.Background(), Config{Endpoint: server.URL}); err != nil {
		t.Errorf("Health() error = %v", err)
	}
}
