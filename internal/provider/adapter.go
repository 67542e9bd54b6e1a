// Package provider contains the backend adapters that turn a QA task into
// a raw model response. Each adapter speaks one wire protocol and maps its
// transport failures onto the shared error codes, so the orchestrator can
// treat every backend uniformly.
package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/qascope/qascope/internal/qerrors"
	"github.com/qascope/qascope/internal/task"
)

// Adapter is the uniform contract every backend implements.
type Adapter interface {
	// ID returns the stable provider identifier (local, regional, frontier).
	ID() string

	// Usable reports whether the given configuration is sufficient to
	// attempt a call. A non-nil error carries CodeConfigInvalid.
	Usable(cfg Config) error

	// Call sends the task to the backend and returns the raw text of the
	// model's reply. The context bounds the whole exchange.
	Call(ctx context.Context, req task.Request, cfg Config) (string, error)
}

// maxResponseBytes caps how much of a reply we read; model responses for
// these tasks are a few KB, anything near the cap is garbage.
const maxResponseBytes = 4 << 20

// healthTimeout bounds health probes, which should answer fast or not at all.
const healthTimeout = 5 * time.Second

func requireEndpoint(id string, cfg Config) error {
	if cfg.Endpoint == "" {
		return qerrors.Newf(qerrors.CodeConfigInvalid, "provider %s: endpoint not configured", id).
			WithSuggestion(fmt.Sprintf("set provider.%s.endpoint in qascope.yaml", id))
	}
	return nil
}

func requireAPIKey(id string, cfg Config) error {
	if cfg.APIKey == "" {
		return qerrors.Newf(qerrors.CodeConfigInvalid, "provider %s: api_key not configured", id).
			WithSuggestion(fmt.Sprintf("set provider.%s.api_key or QASCOPE_PROVIDER_%s_API_KEY", id, envSegment(id)))
	}
	return nil
}

func requireModel(id string, cfg Config) error {
	if cfg.Model == "" {
		return qerrors.Newf(qerrors.CodeConfigInvalid, "provider %s: model not configured", id).
			WithSuggestion(fmt.Sprintf("set provider.%s.model in qascope.yaml", id))
	}
	return nil
}

func envSegment(id string) string {
	out := make([]byte, len(id))
	for i := 0; i < len(id); i++ {
		c := id[i]
		if 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

// transportError maps a failed http.Client.Do onto the shared codes.
// Deadline and cancellation are distinguished from plain connectivity
// failures so the orchestrator can report them separately.
func transportError(id string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return qerrors.Wrap(qerrors.CodeTimeout, fmt.Sprintf("provider %s: request timed out", id), err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return qerrors.Wrap(qerrors.CodeUnreachable, fmt.Sprintf("provider %s: endpoint unreachable", id), err).
		WithSuggestion("check that the endpoint is running and the URL is correct")
}

// statusError maps a non-2xx HTTP response onto the shared codes.
func statusError(id string, status int, body []byte) error {
	msg := fmt.Sprintf("provider %s: HTTP %d", id, status)
	if len(body) > 0 {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		msg = fmt.Sprintf("%s: %s", msg, snippet)
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return qerrors.New(qerrors.CodeUnauthorized, msg).
			WithSuggestion("verify the API key is valid and not expired")
	case status == http.StatusTooManyRequests:
		return qerrors.New(qerrors.CodeRateLimited, msg).
			WithSuggestion("wait before retrying or raise the account quota")
	default:
		return qerrors.New(qerrors.CodeUnreachable, msg).
			WithSuggestion("check that the endpoint is running and the URL is correct")
	}
}

func readBody(id string, r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, maxResponseBytes))
	if err != nil {
		return nil, transportError(id, err)
	}
	return body, nil
}
