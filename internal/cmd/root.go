// Package cmd wires the qascope CLI commands.
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/qascope/qascope/internal/config"
	"github.com/qascope/qascope/internal/log"
	"github.com/qascope/qascope/internal/orchestrator"
	"github.com/qascope/qascope/internal/provider"
)

var rootCmd = &cobra.Command{
	Use:   "qascope",
	Short: "QA impact analysis and test generation from change descriptions",
	Long: `qascope turns change descriptions and requirements documents into
structured QA artifacts: impact analyses and test plans. It queries the
configured model providers in order (local, regional, frontier), falling
back to the next provider when one fails, and normalizes whatever the
model returns into a canonical report.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	cfgFile      string
	outputFormat string
	verbose      bool
)

// ExecuteContext runs the root command with the given context.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./qascope.yaml or $HOME/.qascope/qascope.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "text", "output format: text, json, or yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging, per-attempt details)")

	cobra.OnInitialize(initLogging)
}

func initLogging() {
	cfg := log.DefaultConfig()
	if verbose {
		cfg.Level = log.LevelDebug
	}
	log.SetDefault(log.New(cfg))
}

// newStore opens the configuration store honoring the --config flag.
func newStore() (config.Store, error) {
	return config.NewFileStore(cfgFile)
}

// newOrchestrator builds the production orchestrator over the store.
func newOrchestrator(store config.Store) *orchestrator.Orchestrator {
	return orchestrator.New(provider.NewDefaultRegistry(store), log.L())
}
