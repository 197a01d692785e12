// Package quant provides the single point of truth for parsing and
// rounding monetary and quantity values. Every number the ledger stores,
// compares, or serializes passes through one Policy so identical inputs
// yield bit-identical outputs on every run and platform.
package quant

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultPlaces is the fractional precision used when no policy is
// configured explicitly.
const DefaultPlaces = 8

// Policy fixes the fractional precision for all stored values. Rounding
// is round-half-even (banker's rounding). Immutable once constructed.
type Policy struct {
	Places int32
}

// DefaultPolicy returns the 8-decimal-place policy.
func DefaultPolicy() Policy {
	return Policy{Places: DefaultPlaces}
}

// NewPolicy builds a policy with the given fractional precision.
func NewPolicy(places int32) (Policy, error) {
	if places < 0 {
		return Policy{}, fmt.Errorf("quant: places must be >= 0, got %d", places)
	}
	return Policy{Places: places}, nil
}

// Quantize rounds d to the policy precision using round-half-even.
// Idempotent: Quantize(Quantize(x)) == Quantize(x).
func (p Policy) Quantize(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(p.Places)
}

// Format renders d with exactly p.Places fractional digits. The value is
// quantized first so formatting never truncates.
func (p Policy) Format(d decimal.Decimal) string {
	return p.Quantize(d).StringFixed(p.Places)
}

// Parse converts a raw numeric string into a decimal. Non-numeric input,
// NaN and infinities fail with a *QuantizationError. The result is not
// quantized; callers quantize at the storage boundary.
func Parse(value string) (decimal.Decimal, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return decimal.Decimal{}, &QuantizationError{Input: value, Reason: "empty value"}
	}
	switch strings.ToLower(strings.TrimLeft(s, "+-")) {
	case "nan", "inf", "infinity":
		return decimal.Decimal{}, &QuantizationError{Input: value, Reason: "not a finite number"}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, &QuantizationError{Input: value, Reason: "not a number"}
	}
	return d, nil
}

// MustParse is Parse for trusted literals in tests and fixtures.
func MustParse(value string) decimal.Decimal {
	d, err := Parse(value)
	if err != nil {
		panic(err)
	}
	return d
}

// QuantizationError reports malformed numeric input. It is always
// surfaced to the caller, never silently defaulted.
type QuantizationError struct {
	Input  string
	Reason string
}

func (e *QuantizationError) Error() string {
	return fmt.Sprintf("quantization: %s: %q", e.Reason, e.Input)
}
