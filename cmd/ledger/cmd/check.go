package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/peaktrade/ledger/config"
	"github.com/peaktrade/ledger/risk"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the pre-trade risk gate on a batch of orders",
	Long: `Check evaluates a JSON order batch against configured size and
notional limits and prints the structured result.

The limits file is the flat gate configuration (max_units_per_order and
friends); the orders file is a JSON array of {id, symbol, side, quantity}.
An optional prices file maps symbol to current price for notional checks.

Exit status is 1 when the batch is not allowed.

Example:
  ledger check -f limits.toml -o orders.json -p prices.json`,
	RunE: runCheck,
}

var (
	checkLimitsPath string
	checkOrdersPath string
	checkPricesPath string
	checkVerbose    bool
)

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkLimitsPath, "limits", "f", "", "path to risk limits file (TOML, YAML, or JSON) (required)")
	checkCmd.Flags().StringVarP(&checkOrdersPath, "orders", "o", "", "path to JSON order batch (required)")
	checkCmd.Flags().StringVarP(&checkPricesPath, "prices", "p", "", "path to JSON price map for notional checks")
	checkCmd.Flags().BoolVarP(&checkVerbose, "verbose", "v", false, "debug logging")
	checkCmd.MarkFlagRequired("limits")
	checkCmd.MarkFlagRequired("orders")
}

func runCheck(cmd *cobra.Command, args []string) error {
	log, err := newLogger(checkVerbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	limits, err := config.LoadLimits(checkLimitsPath)
	if err != nil {
		return err
	}
	gate, err := risk.NewGate(limits, log)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(checkOrdersPath)
	if err != nil {
		return fmt.Errorf("read orders: %w", err)
	}
	var orders []risk.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return fmt.Errorf("parse orders: %w", err)
	}

	prices, err := loadMarks(checkPricesPath)
	if err != nil {
		return err
	}

	result := gate.CheckOrders(orders, prices)
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if !result.Allowed {
		return fmt.Errorf("risk check failed: %s", result.Severity)
	}
	return nil
}
