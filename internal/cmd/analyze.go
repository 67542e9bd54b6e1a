package cmd

import (
	"github.com/spf13/cobra"

	"github.com/qascope/qascope/internal/checklist"
	"github.com/qascope/qascope/internal/task"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file|-]",
	Short: "Analyze the QA impact of a change description",
	Long: `Analyze reads a change description from a file (or stdin when the
argument is "-" or omitted) and produces a structured impact analysis:
affected areas with severities, specific test cases, edge cases,
downstream risks, and an overall regression priority.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

var analyzeTags []string

func init() {
	analyzeCmd.Flags().StringSliceVarP(&analyzeTags, "tag", "t", nil,
		"checklist tags to include as context (available: "+joinTags()+")")

	rootCmd.AddCommand(analyzeCmd)
}

func joinTags() string {
	out := ""
	for i, tag := range checklist.Tags() {
		if i > 0 {
			out += ", "
		}
		out += tag
	}
	return out
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	return runTask(cmd, args, task.KindImpactAnalysis, analyzeTags)
}
