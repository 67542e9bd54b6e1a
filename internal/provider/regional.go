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

// Regional talks to an OpenAI-compatible chat completions endpoint, the
// wire format most regional hosted models expose.
type Regional struct {
	client *http.Client
}

func NewRegional(client *http.Client) *Regional {
	if client == nil {
		client = http.DefaultClient
	}
	return &Regional{client: client}
}

func (p *Regional) ID() string { return IDRegional }

func (p *Regional) Usable(cfg Config) error {
	if err := requireEndpoint(IDRegional, cfg); err != nil {
		return err
	}
	if err := requireAPIKey(IDRegional, cfg); err != nil {
		return err
	}
	return requireModel(IDRegional, cfg)
}

type openAIChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	Stream      bool            `json:"stream"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (p *Regional) Call(ctx context.Context, req task.Request, cfg Config) (string, error) {
	if err := p.Usable(cfg); err != nil {
		return "", err
	}

	body, err := json.Marshal(openAIChatRequest{
		Model: cfg.Model,
		Messages: []openAIMessage{
			{Role: "system", Content: prompt.System(req.Kind)},
			{Role: "user", Content: prompt.User(req.Kind, req.InputText, req.Context)},
		},
		Temperature: 0.2,
		Stream:      false,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	url := strings.TrimRight(cfg.Endpoint, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", transportError(IDRegional, err)
	}
	defer resp.Body.Close()

	respBody, err := readBody(IDRegional, resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", statusError(IDRegional, resp.StatusCode, respBody)
	}

	var parsed openAIChatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", qerrors.Wrap(qerrors.CodeMalformedResponse, "provider regional: response is not valid JSON", err)
	}
	if parsed.Error != nil {
		return "", qerrors.Newf(qerrors.CodeMalformedResponse, "provider regional: API error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", qerrors.New(qerrors.CodeMalformedResponse, "provider regional: response contains no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// Health lists models, the cheapest authenticated call the API offers.
func (p *Regional) Health(ctx context.Context, cfg Config) error {
	if err := p.Usable(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	url := strings.TrimRight(cfg.Endpoint, "/") + "/models"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return transportError(IDRegional, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(IDRegional, resp.StatusCode, nil)
	}
	return nil
}
