// Package event defines the closed set of pipeline events the ledger
// consumes. Only FILL events carry accounting-relevant payload; the
// remaining kinds exist so upstream streams can be replayed through the
// ledger without loose typing.
package event

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind identifies an event variant.
type Kind string

const (
	KindIntent     Kind = "INTENT"
	KindOrder      Kind = "ORDER"
	KindFill       Kind = "FILL"
	KindRiskReject Kind = "RISK_REJECT"
)

// Known reports whether k is a member of the closed kind set.
func (k Kind) Known() bool {
	switch k {
	case KindIntent, KindOrder, KindFill, KindRiskReject:
		return true
	}
	return false
}

// Side is the direction of a fill or order.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// ParseSide normalizes a raw side string.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToUpper(strings.TrimSpace(s))) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	}
	return "", fmt.Errorf("unknown side %q", s)
}

// Fill is the execution payload applied to the ledger.
//
// TsUTC is the producer's wall-clock stamp. The ledger ignores it: wall
// clocks are not reproducible, so valuation ordering uses the
// caller-supplied simulation timestamp instead.
type Fill struct {
	Symbol      string          `json:"symbol"`
	Side        Side            `json:"side"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Fee         decimal.Decimal `json:"fee"`
	FeeCurrency string          `json:"fee_currency"`
	TsUTC       int64           `json:"ts_utc,omitempty"`
}

// Event is the tagged union handed to the ledger. Fill is set iff Kind
// is KindFill.
type Event struct {
	Kind Kind  `json:"kind"`
	Fill *Fill `json:"fill,omitempty"`
}

// NewFill wraps a fill payload in an event.
func NewFill(f Fill) Event {
	return Event{Kind: KindFill, Fill: &f}
}

// Validate checks the event schema. It does not quantize or reinterpret
// any value.
func (e Event) Validate() error {
	if !e.Kind.Known() {
		return fmt.Errorf("unknown event kind %q", e.Kind)
	}
	if e.Kind != KindFill {
		if e.Fill != nil {
			return fmt.Errorf("%s event must not carry a fill payload", e.Kind)
		}
		return nil
	}
	if e.Fill == nil {
		return fmt.Errorf("FILL event missing payload")
	}
	return e.Fill.Validate()
}

// Validate checks the fill schema: known side, positive quantity and
// price, non-negative fee.
func (f Fill) Validate() error {
	if f.Symbol == "" {
		return fmt.Errorf("fill missing symbol")
	}
	if f.Side != Buy && f.Side != Sell {
		return fmt.Errorf("fill has invalid side %q", f.Side)
	}
	if !f.Quantity.IsPositive() {
		return fmt.Errorf("fill quantity must be > 0, got %s", f.Quantity)
	}
	if !f.Price.IsPositive() {
		return fmt.Errorf("fill price must be > 0, got %s", f.Price)
	}
	if f.Fee.IsNegative() {
		return fmt.Errorf("fill fee must be >= 0, got %s", f.Fee)
	}
	if f.FeeCurrency == "" {
		return fmt.Errorf("fill missing fee currency")
	}
	return nil
}
