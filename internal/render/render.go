// Package render formats task results for the terminal or for machine
// consumption.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/qascope/qascope/internal/task"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown output format %q (expected text, json, or yaml)", s)
}

// Write renders the result to w in the requested format.
func Write(w io.Writer, result *task.Result, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(payload(result))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(payload(result))
	default:
		return writeText(w, result)
	}
}

// payload unwraps the kind-specific artifact so machine output is the
// bare report, not the envelope.
func payload(result *task.Result) any {
	if result.Impact != nil {
		return result.Impact
	}
	return result.Tests
}

func writeText(w io.Writer, result *task.Result) error {
	if result.Impact != nil {
		return writeImpactText(w, result.Impact)
	}
	if result.Tests != nil {
		return writeTestPlanText(w, result.Tests)
	}
	return fmt.Errorf("result carries no artifact")
}
