// Package risk implements the pre-trade position-size gate. The gate is
// a pure function over an order batch, static limits, and an optional
// price context: no hidden state, no wall clock, no I/O. It sits in
// front of execution; breached orders never reach the ledger.
package risk

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultWarningRatio is the fraction of a limit at which a check turns
// from OK to WARNING.
var DefaultWarningRatio = decimal.RequireFromString("0.8")

// Limits is the static gate configuration, constructed once at startup.
// A zero limit means the check is not configured. A per-symbol units
// limit replaces the global one for that symbol; it does not combine.
type Limits struct {
	MaxUnitsPerOrder      decimal.Decimal
	MaxNotionalPerOrder   decimal.Decimal
	PerSymbolMaxUnits     map[string]decimal.Decimal
	AllowClipPositionSize bool
	WarningRatio          decimal.Decimal
}

// Validate checks limit values for internal consistency.
func (l Limits) Validate() error {
	if l.MaxUnitsPerOrder.IsNegative() {
		return fmt.Errorf("max_units_per_order must be >= 0")
	}
	if l.MaxNotionalPerOrder.IsNegative() {
		return fmt.Errorf("max_notional_per_order must be >= 0")
	}
	for sym, v := range l.PerSymbolMaxUnits {
		if !v.IsPositive() {
			return fmt.Errorf("per_symbol_max_units[%s] must be > 0", sym)
		}
	}
	if l.WarningRatio.IsNegative() || l.WarningRatio.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("warning_ratio must be within [0, 1]")
	}
	return nil
}

// warningRatio returns the configured warning threshold or the default.
func (l Limits) warningRatio() decimal.Decimal {
	if l.WarningRatio.IsZero() {
		return DefaultWarningRatio
	}
	return l.WarningRatio
}

// unitsLimit resolves the effective per-order units limit for a symbol.
func (l Limits) unitsLimit(symbol string) (limit decimal.Decimal, name string, ok bool) {
	if v, found := l.PerSymbolMaxUnits[symbol]; found {
		return v, "per_symbol_max_units", true
	}
	if l.MaxUnitsPerOrder.IsPositive() {
		return l.MaxUnitsPerOrder, "max_units_per_order", true
	}
	return decimal.Decimal{}, "", false
}
