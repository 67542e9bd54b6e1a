package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/qascope/qascope/internal/prompt"
	"github.com/qascope/qascope/internal/qerrors"
	"github.com/qascope/qascope/internal/task"
)

// Local talks to an Ollama-compatible server on the developer's machine
// or network. It needs no API key.
type Local struct {
	client *http.Client
}

// NewLocal creates the local adapter. A nil client uses http.DefaultClient;
// per-request deadlines come from the call context, not the client.
func NewLocal(client *http.Client) *Local {
	if client == nil {
		client = http.DefaultClient
	}
	return &Local{client: client}
}

func (p *Local) ID() string { return IDLocal }

func (p *Local) Usable(cfg Config) error {
	return requireEndpoint(IDLocal, cfg)
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
}

type ollamaChatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done  bool   `json:"done"`
	Error string `json:"error,omitempty"`
}

func (p *Local) Call(ctx context.Context, req task.Request, cfg Config) (string, error) {
	if err := p.Usable(cfg); err != nil {
		return "", err
	}

	body, err := json.Marshal(ollamaChatRequest{
		Model: cfg.Model,
		Messages: []ollamaMessage{
			{Role: "system", Content: prompt.System(req.Kind)},
			{Role: "user", Content: prompt.User(req.Kind, req.InputText, req.Context)},
		},
		Stream:  false,
		Options: ollamaOptions{Temperature: 0.2},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	url := strings.TrimRight(cfg.Endpoint, "/") + "/api/chat"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", transportError(IDLocal, err)
	}
	defer resp.Body.Close()

	respBody, err := readBody(IDLocal, resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", statusError(IDLocal, resp.StatusCode, respBody)
	}

	var parsed ollamaChatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", qerrors.Wrap(qerrors.CodeMalformedResponse, "provider local: response is not valid JSON", err)
	}
	if parsed.Error != "" {
		return "", qerrors.Newf(qerrors.CodeMalformedResponse, "provider local: server error: %s", parsed.Error)
	}
	if parsed.Message.Content == "" {
		return "", qerrors.New(qerrors.CodeMalformedResponse, "provider local: response contains no message content")
	}
	return parsed.Message.Content, nil
}

// Health probes the server's version endpoint with a short deadline.
func (p *Local) Health(ctx context.Context, cfg Config) error {
	if err := p.Usable(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	url := strings.TrimRight(cfg.Endpoint, "/") + "/api/version"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return transportError(IDLocal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(IDLocal, resp.StatusCode, nil)
	}
	return nil
}
