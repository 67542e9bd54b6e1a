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

const anthropicVersion = "2023-06-01"

// Frontier talks to an Anthropic-style messages endpoint. It is last in
// the fallback order: the most capable backend and the most expensive.
type Frontier struct {
	client *http.Client
}

func NewFrontier(client *http.Client) *Frontier {
	if client == nil {
		client = http.DefaultClient
	}
	return &Frontier{client: client}
}

func (p *Frontier) ID() string { return IDFrontier }

func (p *Frontier) Usable(cfg Config) error {
	if err := requireEndpoint(IDFrontier, cfg); err != nil {
		return err
	}
	if err := requireAPIKey(IDFrontier, cfg); err != nil {
		return err
	}
	return requireModel(IDFrontier, cfg)
}

type messagesRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	System    string        `json:"system,omitempty"`
	Messages  []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *Frontier) Call(ctx context.Context, req task.Request, cfg Config) (string, error) {
	if err := p.Usable(cfg); err != nil {
		return "", err
	}

	body, err := json.Marshal(messagesRequest{
		Model:     cfg.Model,
		MaxTokens: 4096,
		System:    prompt.System(req.Kind),
		Messages: []chatMessage{
			{Role: "user", Content: prompt.User(req.Kind, req.InputText, req.Context)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	url := strings.TrimRight(cfg.Endpoint, "/") + "/v1/messages"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", cfg.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", transportError(IDFrontier, err)
	}
	defer resp.Body.Close()

	respBody, err := readBody(IDFrontier, resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", statusError(IDFrontier, resp.StatusCode, respBody)
	}

	var parsed messagesResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", qerrors.Wrap(qerrors.CodeMalformedResponse, "provider frontier: response is not valid JSON", err)
	}
	if parsed.Error != nil {
		return "", qerrors.Newf(qerrors.CodeMalformedResponse, "provider frontier: API error: %s", parsed.Error.Message)
	}

	var text strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", qerrors.New(qerrors.CodeMalformedResponse, "provider frontier: response contains no text content")
	}
	return text.String(), nil
}

// Health sends a minimal messages request; a 200 proves both reachability
// and a working key.
func (p *Frontier) Health(ctx context.Context, cfg Config) error {
	if err := p.Usable(cfg); err != nil {
		return err
	}

	body, err := json.Marshal(messagesRequest{
		Model:     cfg.Model,
		MaxTokens: 1,
		Messages:  []chatMessage{{Role: "user", Content: "ping"}},
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	url := strings.TrimRight(cfg.Endpoint, "/") + "/v1/messages"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", cfg.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return transportError(IDFrontier, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(IDFrontier, resp.StatusCode, nil)
	}
	return nil
}
