// Package prompt builds the kind-specific instruction prompts sent to
// providers. Prompts instruct the model to answer with JSON only; the
// normalizer still tolerates prose-wrapped output.
package prompt

import (
	"fmt"
	"strings"

	"github.com/qascope/qascope/internal/task"
)

// System returns the system prompt for the given task kind.
func System(kind task.Kind) string {
	switch kind {
	case task.KindTestGeneration:
		return systemTestGeneration
	default:
		return systemImpactAnalysis
	}
}

// User returns the user prompt embedding the input text and the selected
// checklist context lines.
func User(kind task.Kind, input string, context []string) string {
	var b strings.Builder

	switch kind {
	case task.KindTestGeneration:
		b.WriteString("Generate concrete QA test cases for the following requirements document.\n\n")
		b.WriteString("Requirements:\n")
	default:
		b.WriteString("Analyze the impact of the following software change.\n\n")
		b.WriteString("Change description:\n")
	}
	b.WriteString(input)
	b.WriteString("\n")

	if len(context) > 0 {
		b.WriteString("\nRelevant QA checklist items to consider:\n")
		for _, line := range context {
			b.WriteString(fmt.Sprintf("- %s\n", line))
		}
	}

	b.WriteString("\n")
	b.WriteString(shapeInstructions(kind))
	return b.String()
}

func shapeInstructions(kind task.Kind) string {
	if kind == task.KindTestGeneration {
		return `Output the result as JSON with this exact structure:
{
  "testCategories": [
    {
      "category": "Category Name",
      "tests": [
        {
          "id": "TC-001",
          "title": "Test title",
          "steps": ["Step 1", "Step 2"],
          "expected": "Expected outcome",
          "priority": "high"
        }
      ]
    }
  ],
  "edgeCases": ["Edge case 1"]
}

Important:
- Return ONLY the JSON, no additional text or markdown
- priority must be one of: low, medium, high
- Make test IDs sequential (TC-001, TC-002, ...)
- Every category must contain at least one test`
	}

	return `Output the result as JSON with this exact structure:
{
  "summary": "One-paragraph impact summary",
  "impactAreas": [
    {
      "title": "Affected area",
      "severity": "high",
      "items": ["What specifically is affected"]
    }
  ],
  "specificTestCases": ["Test to run"],
  "edgeCases": ["Edge case to cover"],
  "downstreamRisks": ["Risk in a dependent system"],
  "regressionPriority": "HIGH",
  "recommendation": "Optional short recommendation"
}

Important:
- Return ONLY the JSON, no additional text or markdown
- severity must be one of: low, medium, high, critical
- regressionPriority must be one of: LOW, MEDIUM, HIGH, CRITICAL
- summary is required and must not be empty`
}

const systemImpactAnalysis = `You are a senior QA engineer performing change-impact analysis. Given a description of a software change, you identify the blast radius: which areas of the system are affected and how severely, which specific tests should be run, which edge cases deserve attention, and which downstream systems carry risk.

Guidelines:
1. Be concrete; name the functionality affected, not generic categories
2. Rate severity per impact area, not for the change as a whole
3. Derive specific test cases a QA engineer could execute as written
4. Call out risks in systems the change does not touch directly
5. Assign a single overall regression priority

Output Requirements:
- Return ONLY valid JSON matching the requested structure
- Do NOT include markdown formatting or explanations
- Ensure all required fields are populated`

const systemTestGeneration = `You are a senior QA engineer turning product requirements into an executable test plan. Given a requirements document, you produce categorized test cases with numbered steps and expected outcomes, plus a list of edge cases.

Guidelines:
1. Group tests into meaningful categories (functional, negative, boundary, integration)
2. Write steps an engineer could follow without extra context
3. State one observable expected outcome per test
4. Prioritize tests by user impact
5. List edge cases separately from the main test cases

Output Requirements:
- Return ONLY valid JSON matching the requested structure
- Do NOT include markdown formatting or explanations
- Ensure all required fields are populated`
