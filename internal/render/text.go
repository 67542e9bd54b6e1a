package render

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/qascope/qascope/internal/task"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	severityStyles = map[task.Severity]lipgloss.Style{
		task.SeverityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		task.SeverityMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		task.SeverityHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		task.SeverityCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}

	priorityStyles = map[task.RegressionPriority]lipgloss.Style{
		task.RegressionLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		task.RegressionMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		task.RegressionHigh:     lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
		task.RegressionCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
)

func writeImpactText(w io.Writer, r *task.ImpactReport) error {
	fmt.Fprintln(w, titleStyle.Render("Impact Analysis"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, r.Summary)

	if len(r.ImpactAreas) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, sectionStyle.Render("Impact Areas"))
		for _, area := range r.ImpactAreas {
			sev := severityStyles[area.Severity].Render(string(area.Severity))
			fmt.Fprintf(w, "  %s [%s]\n", area.Title, sev)
			for _, item := range area.Items {
				fmt.Fprintln(w, itemStyle.Render("  - "+item))
			}
		}
	}

	writeList(w, "Specific Test Cases", r.SpecificTestCases)
	writeList(w, "Edge Cases", r.EdgeCases)
	writeList(w, "Downstream Risks", r.DownstreamRisks)

	fmt.Fprintln(w)
	prio := priorityStyles[r.RegressionPriority].Render(string(r.RegressionPriority))
	fmt.Fprintf(w, "%s %s\n", sectionStyle.Render("Regression Priority:"), prio)

	if r.Recommendation != "" {
		fmt.Fprintln(w, mutedStyle.Render(r.Recommendation))
	}
	return nil
}

func writeTestPlanText(w io.Writer, plan *task.TestPlan) error {
	fmt.Fprintln(w, titleStyle.Render("Generated Test Plan"))

	for _, cat := range plan.TestCategories {
		fmt.Fprintln(w)
		fmt.Fprintln(w, sectionStyle.Render(cat.Category))
		for _, tc := range cat.Tests {
			fmt.Fprintf(w, "  %s: %s (%s)\n", tc.ID, tc.Title, tc.Priority)
			for i, step := range tc.Steps {
				fmt.Fprintln(w, itemStyle.Render(fmt.Sprintf("  %d. %s", i+1, step)))
			}
			if tc.Expected != "" {
				fmt.Fprintln(w, itemStyle.Render(mutedStyle.Render("  Expected: "+tc.Expected)))
			}
		}
	}

	writeList(w, "Edge Cases", plan.EdgeCases)
	return nil
}

func writeList(w io.Writer, header string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, sectionStyle.Render(header))
	for _, item := range items {
		fmt.Fprintln(w, itemStyle.Render("- "+item))
	}
}
