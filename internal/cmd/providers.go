package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qascope/qascope/internal/config"
	"github.com/qascope/qascope/internal/provider"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Show provider configuration and health",
	Long: `Providers shows each known provider, whether its configuration is
complete, whether it currently answers a health probe, and where it sits
in the resolved fallback order.`,
	RunE: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

// healthChecker is implemented by adapters that can probe their backend.
type healthChecker interface {
	Health(ctx context.Context, cfg provider.Config) error
}

func runProviders(cmd *cobra.Command, _ []string) error {
	store, err := newStore()
	if err != nil {
		return err
	}
	registry := provider.NewDefaultRegistry(store)
	out := cmd.OutOrStdout()

	position := map[string]int{}
	if order, err := registry.ResolveOrder(); err == nil {
		for i, a := range order {
			position[a.ID()] = i + 1
		}
	}

	primary, _ := store.Get(config.KeyPrimaryProvider)
	fallback := config.GetBool(store, config.KeyFallbackEnabled, true)
	fmt.Fprintf(out, "primary: %s  fallback: %v\n\n", orDefault(primary, "(none)"), fallback)

	for _, id := range provider.IDs {
		adapter := registry.Get(id)
		cfg := registry.Config(id)

		status := "ready"
		if err := adapter.Usable(cfg); err != nil {
			status = "not configured"
		} else if hc, ok := adapter.(healthChecker); ok {
			if err := hc.Health(cmd.Context(), cfg); err != nil {
				status = fmt.Sprintf("unhealthy (%v)", err)
			}
		}

		order := "-"
		if pos, ok := position[id]; ok {
			order = fmt.Sprintf("%d", pos)
		}

		fmt.Fprintf(out, "%-10s order=%-2s model=%-20s timeout=%-6s %s\n",
			id, order, orDefault(cfg.Model, "(unset)"), cfg.Timeout, status)
	}
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
