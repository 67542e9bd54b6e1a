package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/qascope/qascope/internal/checklist"
	"github.com/qascope/qascope/internal/orchestrator"
	"github.com/qascope/qascope/internal/qerrors"
	"github.com/qascope/qascope/internal/render"
	"github.com/qascope/qascope/internal/task"
)

// readInput reads the task input from the file argument, or from stdin
// when the argument is "-" or absent.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read input file: %w", err)
	}
	return string(data), nil
}

// runTask drives one task end to end: read input, select checklist
// context, orchestrate, render.
func runTask(cmd *cobra.Command, args []string, kind task.Kind, tags []string) error {
	input, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	format, err := render.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	store, err := newStore()
	if err != nil {
		return err
	}

	req := task.Request{
		Kind:      kind,
		InputText: strings.TrimSpace(input),
		Context:   checklist.ItemsFor(tags),
	}

	outcome, err := newOrchestrator(store).Run(cmd.Context(), req)
	if err != nil {
		reportFailure(cmd, outcome, err)
		return err
	}

	return render.Write(cmd.OutOrStdout(), outcome.Result, format)
}

// reportFailure prints the user-facing failure summary, and the attempt
// trail when --verbose is set. The raw error still reaches main for exit
// code mapping; this is the part meant for humans.
func reportFailure(cmd *cobra.Command, outcome *orchestrator.Outcome, err error) {
	out := cmd.ErrOrStderr()

	attempts := 0
	lastCode := qerrors.CodeOf(err)
	if outcome != nil {
		attempts = len(outcome.Attempts)
		if attempts > 0 && outcome.Attempts[attempts-1].Err != nil {
			lastCode = qerrors.CodeOf(outcome.Attempts[attempts-1].Err)
		}
	}
	fmt.Fprintln(out, qerrors.UserSummary(lastCode, attempts))

	var qerr *qerrors.Error
	if errors.As(err, &qerr) {
		for _, s := range qerr.Suggestions {
			fmt.Fprintf(out, "  hint: %s\n", s)
		}
	}

	if verbose && outcome != nil {
		for i, attempt := range outcome.Attempts {
			status := "ok"
			if attempt.Err != nil {
				status = string(qerrors.CodeOf(attempt.Err))
			}
			fmt.Fprintf(out, "  attempt %d: %-8s %-14s %s\n",
				i+1, attempt.Provider, status, attempt.Latency.Round(time.Millisecond))
		}
	}
}
