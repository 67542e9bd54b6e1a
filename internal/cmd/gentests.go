package cmd

import (
	"github.com/spf13/cobra"

	"github.com/qascope/qascope/internal/task"
)

var gentestsCmd = &cobra.Command{
	Use:   "gentests [file|-]",
	Short: "Generate QA test cases from a requirements document",
	Long: `Gentests reads a requirements document (PRD, feature description)
from a file (or stdin when the argument is "-" or omitted) and produces a
categorized test plan with numbered steps, expected outcomes, priorities,
and a list of edge cases.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGentests,
}

var gentestsTags []string

func init() {
	gentestsCmd.Flags().StringSliceVarP(&gentestsTags, "tag", "t", nil,
		"checklist tags to include as context (available: "+joinTags()+")")

	rootCmd.AddCommand(gentestsCmd)
}

func runGentests(cmd *cobra.Command, args []string) error {
	return runTask(cmd, args, task.KindTestGeneration, gentestsTags)
}
