// Package config loads the session configuration: ledger settings, risk
// gate limits, and journal persistence. Files are parsed once at startup
// and converted into validated structs; nothing re-reads configuration
// mid-session.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/peaktrade/ledger/quant"
	"github.com/peaktrade/ledger/risk"
)

// Config is the complete session configuration.
type Config struct {
	Ledger  LedgerConfig  `toml:"ledger" yaml:"ledger" json:"ledger"`
	Risk    RiskConfig    `toml:"risk" yaml:"risk" json:"risk"`
	Journal JournalConfig `toml:"journal" yaml:"journal" json:"journal"`
}

// LedgerConfig contains accounting engine parameters. OpeningCash is a
// decimal string so configuration never passes through binary floats.
type LedgerConfig struct {
	QuoteCurrency string `toml:"quote_currency" yaml:"quote_currency" json:"quote_currency"`
	OpeningCash   string `toml:"opening_cash" yaml:"opening_cash" json:"opening_cash"`
	DecimalPlaces int32  `toml:"decimal_places" yaml:"decimal_places" json:"decimal_places"`
}

// RiskConfig contains the pre-trade gate limits. Values are floats to
// match the wire format; they are converted to decimals exactly once at
// load time.
type RiskConfig struct {
	MaxUnitsPerOrder      float64            `toml:"max_units_per_order" yaml:"max_units_per_order" json:"max_units_per_order"`
	MaxNotionalPerOrder   float64            `toml:"max_notional_per_order" yaml:"max_notional_per_order" json:"max_notional_per_order"`
	AllowClipPositionSize bool               `toml:"allow_clip_position_size" yaml:"allow_clip_position_size" json:"allow_clip_position_size"`
	WarningRatio          float64            `toml:"warning_ratio" yaml:"warning_ratio" json:"warning_ratio"`
	PerSymbolMaxUnits     map[string]float64 `toml:"per_symbol_max_units" yaml:"per_symbol_max_units" json:"per_symbol_max_units"`
}

// JournalConfig selects the audit-trail store.
type JournalConfig struct {
	Type        string `toml:"type" yaml:"type" json:"type"` // "sqlite", "csv", or "none"
	DBPath      string `toml:"db_path,omitempty" yaml:"db_path,omitempty" json:"db_path,omitempty"`
	EntriesFile string `toml:"entries_file,omitempty" yaml:"entries_file,omitempty" json:"entries_file,omitempty"`
}

// Limits converts the gate section into risk limits.
func (r RiskConfig) Limits() risk.Limits {
	var perSymbol map[string]decimal.Decimal
	if len(r.PerSymbolMaxUnits) > 0 {
		perSymbol = make(map[string]decimal.Decimal, len(r.PerSymbolMaxUnits))
		for sym, v := range r.PerSymbolMaxUnits {
			perSymbol[sym] = decimal.NewFromFloat(v)
		}
	}
	return risk.Limits{
		MaxUnitsPerOrder:      decimal.NewFromFloat(r.MaxUnitsPerOrder),
		MaxNotionalPerOrder:   decimal.NewFromFloat(r.MaxNotionalPerOrder),
		PerSymbolMaxUnits:     perSymbol,
		AllowClipPositionSize: r.AllowClipPositionSize,
		WarningRatio:          decimal.NewFromFloat(r.WarningRatio),
	}
}

// Policy builds the quantization policy from the ledger section.
func (l LedgerConfig) Policy() (quant.Policy, error) {
	if l.DecimalPlaces == 0 {
		return quant.DefaultPolicy(), nil
	}
	return quant.NewPolicy(l.DecimalPlaces)
}

// OpeningCashAmount parses the configured opening balance (zero when
// unset).
func (l LedgerConfig) OpeningCashAmount() (decimal.Decimal, error) {
	if l.OpeningCash == "" {
		return decimal.Zero, nil
	}
	return quant.Parse(l.OpeningCash)
}

// LoadFromFile loads a full session configuration. The format follows
// the extension: .toml, .json, or YAML with a JSON fallback.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := unmarshalByExt(path, data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadLimits loads a standalone risk-gate limits file, i.e. the flat
// shape with max_units_per_order at the top level.
func LoadLimits(path string) (risk.Limits, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return risk.Limits{}, fmt.Errorf("read limits file: %w", err)
	}

	var rc RiskConfig
	if err := unmarshalByExt(path, data, &rc); err != nil {
		return risk.Limits{}, err
	}
	limits := rc.Limits()
	if err := limits.Validate(); err != nil {
		return risk.Limits{}, fmt.Errorf("invalid limits %s: %w", path, err)
	}
	return limits, nil
}

func unmarshalByExt(path string, data []byte, v any) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("parse TOML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("parse JSON config: %w", err)
		}
	default:
		// Try YAML first, fall back to JSON.
		if err := yaml.Unmarshal(data, v); err != nil {
			if jsonErr := json.Unmarshal(data, v); jsonErr != nil {
				return fmt.Errorf("parse config (tried YAML and JSON): %w", err)
			}
		}
	}
	return nil
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if c.Ledger.QuoteCurrency == "" {
		return fmt.Errorf("ledger.quote_currency is required")
	}
	if c.Ledger.DecimalPlaces < 0 {
		return fmt.Errorf("ledger.decimal_places must be >= 0")
	}
	if _, err := c.Ledger.OpeningCashAmount(); err != nil {
		return fmt.Errorf("ledger.opening_cash: %w", err)
	}
	if err := c.Risk.Limits().Validate(); err != nil {
		return fmt.Errorf("risk: %w", err)
	}
	switch c.Journal.Type {
	case "", "none":
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path is required for sqlite journal")
		}
	case "csv":
		if c.Journal.EntriesFile == "" {
			return fmt.Errorf("journal.entries_file is required for csv journal")
		}
	default:
		return fmt.Errorf("unknown journal.type %q", c.Journal.Type)
	}
	return nil
}
