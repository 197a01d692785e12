package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Deterministic double-entry ledger for a trading execution pipeline",
	Long: `Ledger applies execution fills to a double-entry accounting journal
with decimal arithmetic and canonical, reproducible output.

It provides tools for:
  - Replaying fill events into a ledger and exporting valuation snapshots
  - Pre-trade risk checks against position size and notional limits
  - Persisting the append-only audit trail to SQLite or CSV`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// newLogger builds the process logger. Diagnostics go to stderr so
// stdout carries only canonical output.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
