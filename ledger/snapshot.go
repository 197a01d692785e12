package ledger

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/gowebpki/jcs"
	"github.com/shopspring/decimal"
)

// SnapshotPosition is the mark-to-market view of one open position. All
// numeric fields are fixed-precision decimal strings.
type SnapshotPosition struct {
	Symbol        string `json:"symbol"`
	Quantity      string `json:"quantity"`
	AvgCost       string `json:"avg_cost"`
	MarkPrice     string `json:"mark_price"`
	MarketValue   string `json:"market_value"`
	UnrealizedPnL string `json:"unrealized_pnl"`
}

// ValuationSnapshot is a point-in-time export of the whole ledger:
// positions, account balances, realized and unrealized P/L, and total
// equity, valued at caller-supplied mark prices and simulation time.
// It is recomputed on demand and never persisted incrementally.
type ValuationSnapshot struct {
	TsSim         int64              `json:"ts_sim"`
	QuoteCurrency string             `json:"quote_currency"`
	Cash          string             `json:"cash"`
	Equity        string             `json:"equity"`
	RealizedPnL   string             `json:"realized_pnl"`
	UnrealizedPnL string             `json:"unrealized_pnl"`
	FeesPaid      string             `json:"fees_paid"`
	Positions     []SnapshotPosition `json:"positions"`
	Balances      map[string]string  `json:"balances"`
}

// Snapshot values the ledger at tsSim with the given mark prices.
// Deterministic: identical ledger state and marks produce an identical
// snapshot. Every open position must have a mark price.
func (e *Engine) Snapshot(tsSim int64, marks map[string]decimal.Decimal) (ValuationSnapshot, error) {
	symbols := make([]string, 0, len(e.positions))
	for s := range e.positions {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	cash := e.balances[CashAccount(e.quote)]
	equity := cash
	unrealizedTotal := decimal.Zero

	positions := make([]SnapshotPosition, 0, len(symbols))
	for _, sym := range symbols {
		pos := e.positions[sym]
		mark, ok := marks[sym]
		if !ok {
			return ValuationSnapshot{}, fmt.Errorf("no mark price for open position %q", sym)
		}
		mark = e.policy.Quantize(mark)
		marketValue := e.policy.Quantize(pos.Quantity.Mul(mark))
		unrealized := e.policy.Quantize(mark.Sub(pos.AvgCost).Mul(pos.Quantity))

		equity = equity.Add(marketValue)
		unrealizedTotal = unrealizedTotal.Add(unrealized)
		positions = append(positions, SnapshotPosition{
			Symbol:        sym,
			Quantity:      e.policy.Format(pos.Quantity),
			AvgCost:       e.policy.Format(pos.AvgCost),
			MarkPrice:     e.policy.Format(mark),
			MarketValue:   e.policy.Format(marketValue),
			UnrealizedPnL: e.policy.Format(unrealized),
		})
	}

	balances := make(map[string]string, len(e.balances))
	for acct, amount := range e.balances {
		balances[string(acct)] = e.policy.Format(amount)
	}

	// REALIZED_PNL is credit-normal: negate for reporting.
	realized := e.balances[RealizedPnLAccount(e.quote)].Neg()

	return ValuationSnapshot{
		TsSim:         tsSim,
		QuoteCurrency: e.quote,
		Cash:          e.policy.Format(cash),
		Equity:        e.policy.Format(equity),
		RealizedPnL:   e.policy.Format(realized),
		UnrealizedPnL: e.policy.Format(unrealizedTotal),
		FeesPaid:      e.policy.Format(e.balances[FeesAccount(e.quote)]),
		Positions:     positions,
		Balances:      balances,
	}, nil
}

// ExportSnapshotJSON serializes a snapshot as RFC 8785 canonical JSON:
// sorted keys, no insignificant whitespace, decimal values as
// fixed-precision strings. Identical inputs always produce byte-identical
// output.
func (e *Engine) ExportSnapshotJSON(tsSim int64, marks map[string]decimal.Decimal) ([]byte, error) {
	snap, err := e.Snapshot(tsSim, marks)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	out, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("canonicalize snapshot: %w", err)
	}
	return out, nil
}
