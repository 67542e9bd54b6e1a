package task

import (
	"testing"

	"github.com/qascope/qascope/internal/qerrors"
)

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr bool
	}{
		{
			name:    "valid impact analysis",
			req:     Request{Kind: KindImpactAnalysis, InputText: "change the login flow"},
			wantErr: false,
		},
		{
			name:    "valid test generation with context",
			req:     Request{Kind: KindTestGeneration, InputText: "PRD body", Context: []string{"auth: verify lockout"}},
			wantErr: false,
		},
		{
			name:    "empty input",
			req:     Request{Kind: KindImpactAnalysis, InputText: ""},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			req:     Request{Kind: Kind("summarize"), InputText: "x"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && qerrors.CodeOf(err) != qerrors.CodeRequestInvalid {
				t.Errorf("Validate() code = %s, want %s", qerrors.CodeOf(err), qerrors.CodeRequestInvalid)
			}
		})
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		input string
		want  Severity
	}{
		{"low", SeverityLow},
		{"medium", SeverityMedium},
		{"high", SeverityHigh},
		{"critical", SeverityCritical},
		{"High", SeverityHigh},
		{"CRITICAL", SeverityCritical},
		{" critical ", SeverityCritical},
		{"CATASTROPHIC", SeverityLow},
		{"", SeverityLow},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseSeverity(tt.input); got != tt.want {
				t.Errorf("ParseSeverity(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRegressionPriority(t *testing.T) {
	tests := []struct {
		input string
		want  RegressionPriority
	}{
		{"LOW", RegressionLow},
		{"MEDIUM", RegressionMedium},
		{"HIGH", RegressionHigh},
		{"CRITICAL", RegressionCritical},
		{"high", RegressionHigh},
		{"Critical", RegressionCritical},
		{" HIGH\n", RegressionHigh},
		{"urgent", RegressionLow},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseRegressionPriority(tt.input); got != tt.want {
				t.Errorf("ParseRegressionPriority(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTestPriority(t *testing.T) {
	if got := ParseTestPriority("high"); got != TestPriorityHigh {
		t.Errorf("ParseTestPriority(high) = %q", got)
	}
	if got := ParseTestPriority("Medium"); got != TestPriorityMedium {
		t.Errorf("ParseTestPriority(Medium) = %q, want medium", got)
	}
	if got := ParseTestPriority("P0"); got != TestPriorityLow {
		t.Errorf("ParseTestPriority(P0) = %q, want low", got)
	}
}
