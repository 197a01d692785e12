package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/peaktrade/ledger/config"
	"github.com/peaktrade/ledger/event"
	"github.com/peaktrade/ledger/journal"
	"github.com/peaktrade/ledger/ledger"
	"github.com/peaktrade/ledger/quant"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay fill events into a ledger and export a snapshot",
	Long: `Replay reads newline-delimited JSON events, applies the FILL events to
a fresh ledger, and writes a canonical valuation snapshot.

Mark prices for the snapshot are read from a JSON object file mapping
symbol to decimal price string.

Example:
  ledger replay -f session.toml -i fills.jsonl -m marks.json --ts-sim 1700000000000000000`,
	RunE: runReplay,
}

var (
	replayConfigPath string
	replayInputPath  string
	replayMarksPath  string
	replayOutPath    string
	replayTsSim      int64
	replayVerbose    bool
)

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVarP(&replayConfigPath, "config", "f", "", "path to session config (TOML, YAML, or JSON) (required)")
	replayCmd.Flags().StringVarP(&replayInputPath, "input", "i", "", "path to JSONL event file (required)")
	replayCmd.Flags().StringVarP(&replayMarksPath, "marks", "m", "", "path to JSON mark-price map (required with open positions)")
	replayCmd.Flags().StringVarP(&replayOutPath, "out", "o", "", "snapshot output path (default stdout)")
	replayCmd.Flags().Int64Var(&replayTsSim, "ts-sim", 0, "simulation timestamp (unix nanoseconds) for the snapshot")
	replayCmd.Flags().BoolVarP(&replayVerbose, "verbose", "v", false, "debug logging")
	replayCmd.MarkFlagRequired("config")
	replayCmd.MarkFlagRequired("input")
}

func runReplay(cmd *cobra.Command, args []string) error {
	log, err := newLogger(replayVerbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg, err := config.LoadFromFile(replayConfigPath)
	if err != nil {
		return err
	}
	policy, err := cfg.Ledger.Policy()
	if err != nil {
		return err
	}

	store, err := openStore(cfg, policy)
	if err != nil {
		return err
	}
	defer store.Close()

	engine := ledger.NewEngine(cfg.Ledger.QuoteCurrency, policy, store)

	opening, err := cfg.Ledger.OpeningCashAmount()
	if err != nil {
		return err
	}
	if opening.IsPositive() {
		if _, err := engine.OpenCash(replayTsSim, opening); err != nil {
			return fmt.Errorf("open cash: %w", err)
		}
	}

	in, err := os.Open(replayInputPath)
	if err != nil {
		return fmt.Errorf("open events: %w", err)
	}
	defer in.Close()

	events, err := event.ReadJSONL(in)
	if err != nil {
		return err
	}

	applied, skipped := 0, 0
	for i, ev := range events {
		_, ok, err := engine.Apply(replayTsSim, ev)
		if err != nil {
			var inputErr *ledger.InputError
			if errors.As(err, &inputErr) {
				// Malformed events are skipped; the ledger stays clean.
				log.Warn("skipping malformed event",
					zap.Int("index", i),
					zap.String("reason", inputErr.Reason),
				)
				skipped++
				continue
			}
			// Invariant violations and store failures halt the replay.
			return fmt.Errorf("apply event %d: %w", i, err)
		}
		if ok {
			applied++
		}
	}
	log.Info("replay complete",
		zap.Int("events", len(events)),
		zap.Int("applied", applied),
		zap.Int("skipped", skipped),
	)

	marks, err := loadMarks(replayMarksPath)
	if err != nil {
		return err
	}
	out, err := engine.ExportSnapshotJSON(replayTsSim, marks)
	if err != nil {
		return fmt.Errorf("export snapshot: %w", err)
	}
	if err := store.RecordSnapshot(replayTsSim, out); err != nil {
		return fmt.Errorf("record snapshot: %w", err)
	}

	if replayOutPath == "" {
		fmt.Println(string(out))
		return nil
	}
	return os.WriteFile(replayOutPath, out, 0o644)
}

func openStore(cfg *config.Config, policy quant.Policy) (journal.Store, error) {
	switch cfg.Journal.Type {
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath, policy)
	case "csv":
		return journal.NewCSV(cfg.Journal.EntriesFile, policy)
	default:
		return journal.Nop{}, nil
	}
}

func loadMarks(path string) (map[string]decimal.Decimal, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read marks: %w", err)
	}
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse marks: %w", err)
	}
	marks := make(map[string]decimal.Decimal, len(raw))
	for sym, s := range raw {
		d, err := quant.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("mark price for %s: %w", sym, err)
		}
		marks[sym] = d
	}
	return marks, nil
}
