// Package task defines the canonical request and result shapes exchanged
// between callers, providers, and the normalizer.
package task

import (
	"strings"
	"time"

	"github.com/qascope/qascope/internal/qerrors"
)

// Kind identifies the type of QA artifact being requested.
type Kind string

const (
	// KindImpactAnalysis produces the blast-radius report for a change
	KindImpactAnalysis Kind = "impact-analysis"

	// KindTestGeneration produces concrete test cases from a PRD
	KindTestGeneration Kind = "test-generation"
)

// Request describes one unit of work. It is constructed per invocation and
// never mutated after construction.
type Request struct {
	// Kind selects the artifact shape the caller expects back
	Kind Kind

	// InputText is the change description or PRD content
	InputText string

	// Context carries selected feature-tag checklist items, in order.
	// Contents are passed to the provider verbatim and never validated.
	Context []string
}

// Validate checks the request invariants: non-empty input and a known kind.
func (r Request) Validate() error {
	if r.InputText == "" {
		return qerrors.New(qerrors.CodeRequestInvalid, "input text must not be empty")
	}
	switch r.Kind {
	case KindImpactAnalysis, KindTestGeneration:
		return nil
	}
	return qerrors.Newf(qerrors.CodeRequestInvalid, "unknown task kind: %q", r.Kind)
}

// Severity rates how strongly an impact area is affected.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ParseSeverity clamps a raw value to the declared set, defaulting unknown
// values to the lowest severity rather than failing the result. Matching
// ignores case and surrounding whitespace; models are sloppy about both.
func ParseSeverity(s string) Severity {
	v := Severity(fold(s))
	switch v {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return v
	}
	return SeverityLow
}

// fold normalizes a model-emitted enum value for comparison.
func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// RegressionPriority rates how urgently regression testing is needed.
type RegressionPriority string

const (
	RegressionLow      RegressionPriority = "LOW"
	RegressionMedium   RegressionPriority = "MEDIUM"
	RegressionHigh     RegressionPriority = "HIGH"
	RegressionCritical RegressionPriority = "CRITICAL"
)

// ParseRegressionPriority clamps a raw value to the declared set, defaulting
// unknown values to LOW.
func ParseRegressionPriority(s string) RegressionPriority {
	v := RegressionPriority(strings.ToUpper(strings.TrimSpace(s)))
	switch v {
	case RegressionLow, RegressionMedium, RegressionHigh, RegressionCritical:
		return v
	}
	return RegressionLow
}

// TestPriority rates a single generated test case.
type TestPriority string

const (
	TestPriorityLow    TestPriority = "low"
	TestPriorityMedium TestPriority = "medium"
	TestPriorityHigh   TestPriority = "high"
)

// ParseTestPriority clamps a raw value to the declared set, defaulting
// unknown values to low.
func ParseTestPriority(s string) TestPriority {
	v := TestPriority(fold(s))
	switch v {
	case TestPriorityLow, TestPriorityMedium, TestPriorityHigh:
		return v
	}
	return TestPriorityLow
}

// ImpactArea describes one affected area of the system.
type ImpactArea struct {
	Title    string   `json:"title" yaml:"title"`
	Severity Severity `json:"severity" yaml:"severity"`
	Items    []string `json:"items" yaml:"items"`
}

// ImpactReport is the canonical impact-analysis result. Every slice field is
// non-nil after normalization so callers need no presence checks.
type ImpactReport struct {
	Summary            string             `json:"summary" yaml:"summary"`
	ImpactAreas        []ImpactArea       `json:"impactAreas" yaml:"impactAreas"`
	SpecificTestCases  []string           `json:"specificTestCases" yaml:"specificTestCases"`
	EdgeCases          []string           `json:"edgeCases" yaml:"edgeCases"`
	DownstreamRisks    []string           `json:"downstreamRisks" yaml:"downstreamRisks"`
	RegressionPriority RegressionPriority `json:"regressionPriority" yaml:"regressionPriority"`
	Recommendation     string             `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
}

// TestCase is one concrete generated test.
type TestCase struct {
	ID       string       `json:"id" yaml:"id"`
	Title    string       `json:"title" yaml:"title"`
	Steps    []string     `json:"steps" yaml:"steps"`
	Expected string       `json:"expected" yaml:"expected"`
	Priority TestPriority `json:"priority" yaml:"priority"`
}

// TestCategory groups generated tests under a category label.
type TestCategory struct {
	Category string     `json:"category" yaml:"category"`
	Tests    []TestCase `json:"tests" yaml:"tests"`
}

// TestPlan is the canonical test-generation result.
type TestPlan struct {
	TestCategories []TestCategory `json:"testCategories" yaml:"testCategories"`
	EdgeCases      []string       `json:"edgeCases" yaml:"edgeCases"`
}

// Result is the canonical output of a run. Exactly one of Impact or Tests is
// set, matching Kind.
type Result struct {
	Kind   Kind          `json:"kind" yaml:"kind"`
	Impact *ImpactReport `json:"impact,omitempty" yaml:"impact,omitempty"`
	Tests  *TestPlan     `json:"tests,omitempty" yaml:"tests,omitempty"`
}

// Attempt records the outcome of one provider attempt during orchestration.
// Retained for observability; not required for correctness.
type Attempt struct {
	Provider  string        `json:"provider"`
	Succeeded bool          `json:"succeeded"`
	Err       error         `json:"-"`
	Latency   time.Duration `json:"latency"`
}
