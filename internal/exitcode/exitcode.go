// Package exitcode maps errors to process exit codes so scripts can
// branch on failure class without parsing stderr.
package exitcode

import (
	"context"
	"errors"
	"os"

	"github.com/qascope/qascope/internal/qerrors"
)

const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// ConfigError indicates invalid or missing provider configuration
	ConfigError = 3

	// AuthError indicates an authentication or authorization failure
	AuthError = 4

	// NetworkError indicates a provider was unreachable or timed out
	NetworkError = 5

	// ProvidersExhausted indicates every configured provider failed
	ProvidersExhausted = 6

	// Cancelled indicates the run was interrupted
	Cancelled = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	Exit(FromError(err))
}

// FromError maps an error to its exit code.
func FromError(err error) int {
	if err == nil {
		return Success
	}
	if errors.Is(err, context.Canceled) {
		return Cancelled
	}

	switch qerrors.CodeOf(err) {
	case qerrors.CodeRequestInvalid:
		return UsageError
	case qerrors.CodeConfigInvalid, qerrors.CodeNoProviderConfigured:
		return ConfigError
	case qerrors.CodeUnauthorized:
		return AuthError
	case qerrors.CodeUnreachable, qerrors.CodeTimeout:
		return NetworkError
	case qerrors.CodeAllProvidersFailed:
		return ProvidersExhausted
	}
	return GeneralError
}
