package ledger

import (
	"github.com/shopspring/decimal"
)

// Position is the open exposure in one symbol: signed quantity (positive
// long, negative short) and the weighted-average cost of that exposure in
// the quote currency. A position exists only while quantity is non-zero.
type Position struct {
	Symbol   string
	Quantity decimal.Decimal
	AvgCost  decimal.Decimal
}

// sameDirection reports whether a signed fill delta increases the
// current exposure (or opens a fresh one).
func sameDirection(pos, delta decimal.Decimal) bool {
	if pos.IsZero() {
		return true
	}
	return pos.Sign() == delta.Sign()
}

// increase returns the position after adding |delta| units at price,
// re-averaging the cost basis over the combined quantity.
func (p Position) increase(delta, price decimal.Decimal, places int32) Position {
	absPos := p.Quantity.Abs()
	absDelta := delta.Abs()
	total := absPos.Add(absDelta)

	// WAC over the combined exposure. Division is the only non-exact
	// step, so it is rounded at policy precision immediately, half-even
	// like every other stored value.
	basis := absPos.Mul(p.AvgCost).Add(absDelta.Mul(price))
	avg := basis.DivRound(total, places+4).RoundBank(places)

	return Position{
		Symbol:   p.Symbol,
		Quantity: p.Quantity.Add(delta),
		AvgCost:  avg,
	}
}

// reduce returns the position after removing closeQty units of exposure.
// Average cost is unchanged for the remainder; a fully closed position
// zeroes its cost basis.
func (p Position) reduce(closeQty decimal.Decimal) Position {
	var next decimal.Decimal
	if p.Quantity.Sign() > 0 {
		next = p.Quantity.Sub(closeQty)
	} else {
		next = p.Quantity.Add(closeQty)
	}
	out := Position{Symbol: p.Symbol, Quantity: next, AvgCost: p.AvgCost}
	if next.IsZero() {
		out.AvgCost = decimal.Zero
	}
	return out
}
