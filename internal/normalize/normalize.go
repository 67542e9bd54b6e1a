// Package normalize turns raw model output into a canonical task.Result.
// Models wrap JSON in markdown fences, prose, or emit slightly broken JSON;
// the normalizer tries progressively more aggressive recovery strategies
// before giving up.
package normalize

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/qascope/qascope/internal/qerrors"
	"github.com/qascope/qascope/internal/task"
)

// Normalize parses raw model output into the canonical result for the
// given task kind. It returns a CodeSchemaInvalid error when no recovery
// strategy yields a result satisfying the kind's required fields.
func Normalize(raw string, kind task.Kind) (*task.Result, error) {
	candidate, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	switch kind {
	case task.KindTestGeneration:
		plan, err := decodeTestPlan(candidate)
		if err != nil {
			return nil, err
		}
		return &task.Result{Kind: kind, Tests: plan}, nil
	default:
		report, err := decodeImpactReport(candidate)
		if err != nil {
			return nil, err
		}
		return &task.Result{Kind: kind, Impact: report}, nil
	}
}

// extractJSON walks the recovery chain and returns the first candidate
// that parses as a JSON object.
func extractJSON(raw string) ([]byte, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, qerrors.New(qerrors.CodeSchemaInvalid, "response is empty")
	}

	// Strategy 1: the response is already clean JSON.
	if validObject(trimmed) {
		return []byte(trimmed), nil
	}

	// Strategy 2: strip markdown code fences.
	if stripped := stripFences(trimmed); stripped != "" && validObject(stripped) {
		return []byte(stripped), nil
	}

	// Strategy 3: repair near-JSON (trailing commas, single quotes,
	// unquoted keys).
	if repaired, err := jsonrepair.JSONRepair(stripFencesOrSelf(trimmed)); err == nil && validObject(repaired) {
		return []byte(repaired), nil
	}

	// Strategy 4: extract the first balanced object span from prose,
	// repairing it if the direct parse fails.
	if span := extractObjectSpan(trimmed); span != "" {
		if validObject(span) {
			return []byte(span), nil
		}
		if repaired, err := jsonrepair.JSONRepair(span); err == nil && validObject(repaired) {
			return []byte(repaired), nil
		}
	}

	return nil, qerrors.New(qerrors.CodeSchemaInvalid, "no JSON object found in response").
		WithSuggestion("the model may need a stricter prompt or a different provider")
}

func validObject(s string) bool {
	var probe map[string]json.RawMessage
	return json.Unmarshal([]byte(s), &probe) == nil
}

// stripFences removes a surrounding markdown code fence, with or without
// a language tag. Returns "" if the input is not fenced.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return ""
	}
	rest := s[3:]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		// Drop the language tag line (```json).
		rest = rest[nl+1:]
	}
	end := strings.LastIndex(rest, "```")
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}

func stripFencesOrSelf(s string) string {
	if stripped := stripFences(s); stripped != "" {
		return stripped
	}
	return s
}

// extractObjectSpan returns the first balanced top-level {...} span,
// tracking strings and escapes so braces inside values don't confuse the
// scan. Returns "" when no balanced span exists.
func extractObjectSpan(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1]
				}
			}
		}
	}
	return ""
}

func decodeImpactReport(data []byte) (*task.ImpactReport, error) {
	var report task.ImpactReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, qerrors.Wrap(qerrors.CodeSchemaInvalid, "response does not match the impact report shape", err)
	}
	if strings.TrimSpace(report.Summary) == "" {
		return nil, qerrors.New(qerrors.CodeSchemaInvalid, "impact report is missing a summary")
	}

	report.RegressionPriority = task.ParseRegressionPriority(string(report.RegressionPriority))
	for i := range report.ImpactAreas {
		area := &report.ImpactAreas[i]
		area.Severity = task.ParseSeverity(string(area.Severity))
		area.Items = ensure(area.Items)
	}
	report.ImpactAreas = ensureAreas(report.ImpactAreas)
	report.SpecificTestCases = ensure(report.SpecificTestCases)
	report.EdgeCases = ensure(report.EdgeCases)
	report.DownstreamRisks = ensure(report.DownstreamRisks)
	return &report, nil
}

func decodeTestPlan(data []byte) (*task.TestPlan, error) {
	var plan task.TestPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, qerrors.Wrap(qerrors.CodeSchemaInvalid, "response does not match the test plan shape", err)
	}
	if len(plan.TestCategories) == 0 {
		return nil, qerrors.New(qerrors.CodeSchemaInvalid, "test plan contains no categories")
	}

	for i := range plan.TestCategories {
		cat := &plan.TestCategories[i]
		if cat.Tests == nil {
			cat.Tests = []task.TestCase{}
		}
		for j := range cat.Tests {
			tc := &cat.Tests[j]
			tc.Priority = task.ParseTestPriority(string(tc.Priority))
			tc.Steps = ensure(tc.Steps)
		}
	}
	plan.EdgeCases = ensure(plan.EdgeCases)
	return &plan, nil
}

func ensure(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func ensureAreas(s []task.ImpactArea) []task.ImpactArea {
	if s == nil {
		return []task.ImpactArea{}
	}
	return s
}
