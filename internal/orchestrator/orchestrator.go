// Package orchestrator runs a QA task against the configured providers.
// It resolves the attempt order, calls providers strictly one at a time,
// normalizes the first usable response, and records every attempt.
package orchestrator

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/qascope/qascope/internal/log"
	"github.com/qascope/qascope/internal/normalize"
	"github.com/qascope/qascope/internal/provider"
	"github.com/qascope/qascope/internal/qerrors"
	"github.com/qascope/qascope/internal/task"
)

// Outcome is the result of a run: the normalized artifact, which provider
// produced it, and the full attempt trail.
type Outcome struct {
	RunID    string
	Result   *task.Result
	Provider string
	Attempts []task.Attempt
}

// Normalizer parses raw model output into a canonical result. It exists
// as a seam for tests; production code uses normalize.Normalize.
type Normalizer func(raw string, kind task.Kind) (*task.Result, error)

// Orchestrator coordinates provider attempts for a single process.
type Orchestrator struct {
	registry  *provider.Registry
	normalize Normalizer
	logger    *log.Logger
}

// New builds an orchestrator over the given registry. A nil logger uses
// the process default.
func New(registry *provider.Registry, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.L()
	}
	return &Orchestrator{
		registry:  registry,
		normalize: normalize.Normalize,
		logger:    logger,
	}
}

// WithNormalizer overrides the normalization step. Intended for tests.
func (o *Orchestrator) WithNormalizer(n Normalizer) *Orchestrator {
	o.normalize = n
	return o
}

// Run executes the request against the resolved provider order. Providers
// are tried strictly sequentially; the first response that survives
// normalization wins. Configuration errors short-circuit: a broken config
// looks the same from every provider, so trying the next one cannot help.
func (o *Orchestrator) Run(ctx context.Context, req task.Request) (*Outcome, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := o.logger.With("run_id", runID, "kind", string(req.Kind))

	order, err := o.registry.ResolveOrder()
	if err != nil {
		return nil, err
	}

	attempts := make([]task.Attempt, 0, len(order))
	for _, adapter := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		id := adapter.ID()
		cfg := o.registry.Config(id)

		start := time.Now()
		raw, callErr := adapter.Call(ctx, req, cfg)
		latency := time.Since(start)

		if callErr == nil {
			var result *task.Result
			result, callErr = o.normalize(raw, req.Kind)
			if callErr == nil {
				attempts = append(attempts, task.Attempt{Provider: id, Succeeded: true, Latency: latency})
				logger.Info("provider attempt succeeded",
					"provider", id,
					"latency_ms", latency.Milliseconds(),
					"attempt", len(attempts))
				return &Outcome{RunID: runID, Result: result, Provider: id, Attempts: attempts}, nil
			}
		}

		if ctx.Err() != nil && qerrors.CodeOf(callErr) != qerrors.CodeTimeout {
			// The run was cancelled mid-attempt, not the attempt's own
			// deadline. Stop without recording a misleading failure.
			return nil, ctx.Err()
		}

		attempts = append(attempts, task.Attempt{Provider: id, Err: callErr, Latency: latency})
		logger.WithError(callErr).Warn("provider attempt failed",
			"provider", id,
			"latency_ms", latency.Milliseconds(),
			"attempt", len(attempts))

		if qerrors.CodeOf(callErr) == qerrors.CodeConfigInvalid {
			return &Outcome{RunID: runID, Attempts: attempts}, callErr
		}
	}

	lastCode := qerrors.Code("")
	if n := len(attempts); n > 0 {
		lastCode = qerrors.CodeOf(attempts[n-1].Err)
	}
	err = qerrors.Newf(qerrors.CodeAllProvidersFailed, "all %d provider(s) failed", len(attempts)).
		WithSuggestion("run 'qascope providers' to check provider health and configuration")
	logger.WithError(err).Error("all providers exhausted", "attempts", len(attempts), "last_code", string(lastCode))
	return &Outcome{RunID: runID, Attempts: attempts}, err
}
