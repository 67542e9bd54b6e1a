// Package qerrors defines the typed error taxonomy shared across the
// provider, normalizer, and orchestrator layers.
package qerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a unique error identifier.
type Code string

const (
	// Task errors (TASK-001 to TASK-099)
	CodeRequestInvalid Code = "TASK-001"

	// Provider errors (PROVIDER-001 to PROVIDER-099)
	CodeConfigInvalid     Code = "PROVIDER-001"
	CodeUnreachable       Code = "PROVIDER-002"
	CodeTimeout           Code = "PROVIDER-003"
	CodeUnauthorized      Code = "PROVIDER-004"
	CodeRateLimited       Code = "PROVIDER-005"
	CodeMalformedResponse Code = "PROVIDER-006"

	// Normalizer errors (NORMALIZE-001 to NORMALIZE-099)
	CodeSchemaInvalid Code = "NORMALIZE-001"

	// Orchestration errors (ORCH-001 to ORCH-099)
	CodeNoProviderConfigured Code = "ORCH-001"
	CodeAllProvidersFailed   Code = "ORCH-002"
)

// Error is an error with a stable code, an optional cause, and remediation
// suggestions surfaced by the CLI.
type Error struct {
	Code        Code
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap creates an Error wrapping an existing error.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion appends a remediation suggestion to the error.
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// CodeOf returns the code carried by err, or the empty Code when err is not
// a typed Error.
func CodeOf(err error) Code {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Code
	}
	return ""
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// IsConfigError reports whether err is a configuration-level failure, which
// must never be retried against a different provider.
func IsConfigError(err error) bool {
	switch CodeOf(err) {
	case CodeConfigInvalid, CodeNoProviderConfigured:
		return true
	}
	return false
}

// kindLabels maps provider failure codes to the short labels shown to users.
var kindLabels = map[Code]string{
	CodeConfigInvalid:     "provider configuration is incomplete",
	CodeUnreachable:       "provider could not be reached",
	CodeTimeout:           "provider timed out",
	CodeUnauthorized:      "provider rejected the credential",
	CodeRateLimited:       "provider rate limit reached",
	CodeMalformedResponse: "provider returned an unreadable response",
	CodeSchemaInvalid:     "provider response did not match the expected shape",

	CodeNoProviderConfigured: "no provider is configured",
}

// UserSummary renders a single-line failure message: the last attempt's
// failure kind plus, when more than one provider was tried, the attempt
// count. Raw transport errors are never included.
func UserSummary(lastCode Code, attempts int) string {
	label, ok := kindLabels[lastCode]
	if !ok {
		label = "request failed"
	}
	if attempts > 1 {
		return fmt.Sprintf("%s (%d providers tried)", label, attempts)
	}
	return label
}
