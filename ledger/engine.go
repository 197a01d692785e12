// Package ledger implements a deterministic double-entry accounting
// engine for a trading execution pipeline. One Engine instance owns the
// whole journal, balance, and position state for a session; callers are
// expected to feed it fill events sequentially, one at a time, in the
// order the pipeline emits them.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/peaktrade/ledger/event"
	"github.com/peaktrade/ledger/pkg/id"
	"github.com/peaktrade/ledger/quant"
)

// Recorder receives every committed journal entry, e.g. for durable
// audit-trail storage. A Recorder error aborts the Apply call before any
// engine state mutates.
type Recorder interface {
	RecordEntry(JournalEntry) error
}

// Engine applies fill events to a double-entry journal in a single quote
// currency. All arithmetic is decimal; no binary floats ever enter the
// books. Not safe for concurrent use: the surrounding pipeline serializes
// calls (single-writer).
type Engine struct {
	policy    quant.Policy
	quote     string
	seq       uint64
	entries   []JournalEntry
	balances  map[Account]decimal.Decimal
	positions map[string]Position
	recorder  Recorder
	fatal     error
}

// NewEngine creates an empty ledger for the given quote currency.
// rec may be nil for purely in-memory sessions.
func NewEngine(quote string, policy quant.Policy, rec Recorder) *Engine {
	return &Engine{
		policy:    policy,
		quote:     strings.ToUpper(quote),
		balances:  make(map[Account]decimal.Decimal),
		positions: make(map[string]Position),
		recorder:  rec,
	}
}

// Quote returns the ledger's quote currency.
func (e *Engine) Quote() string { return e.quote }

// Policy returns the quantization policy in force.
func (e *Engine) Policy() quant.Policy { return e.policy }

// Entries returns the append-only journal. The returned slice must be
// treated as read-only.
func (e *Engine) Entries() []JournalEntry { return e.entries }

// Balance returns the current balance of an account (zero if the account
// has never been posted to).
func (e *Engine) Balance(a Account) decimal.Decimal { return e.balances[a] }

// Position returns the open position for a symbol, if any.
func (e *Engine) Position(symbol string) (Position, bool) {
	p, ok := e.positions[symbol]
	return p, ok
}

// OpenCash seeds the cash account with a non-negative opening balance via
// an EQUITY_OPENING journal entry.
func (e *Engine) OpenCash(tsSim int64, amount decimal.Decimal) (JournalEntry, error) {
	if e.fatal != nil {
		return JournalEntry{}, e.fatal
	}
	if amount.IsNegative() {
		return JournalEntry{}, &InputError{Reason: fmt.Sprintf("opening cash must be >= 0, got %s", amount)}
	}
	amt := e.policy.Quantize(amount)
	entry := e.newEntry(EntryOpening, tsSim, "", []Posting{
		{Account: CashAccount(e.quote), Amount: amt},
		{Account: OpeningEquityAccount(e.quote), Amount: amt.Neg()},
	})
	return entry, e.commit(entry, nil)
}

// Apply consumes one event. Only FILL events mutate the ledger; the
// other kinds of the closed event set are validated and skipped, with
// applied=false. The call is atomic: either the full journal entry is
// committed or no state changes at all.
func (e *Engine) Apply(tsSim int64, ev event.Event) (entry JournalEntry, applied bool, err error) {
	if e.fatal != nil {
		return JournalEntry{}, false, e.fatal
	}
	if err := ev.Validate(); err != nil {
		return JournalEntry{}, false, &InputError{Reason: err.Error()}
	}
	if ev.Kind != event.KindFill {
		return JournalEntry{}, false, nil
	}

	fill, err := e.quantizeFill(*ev.Fill)
	if err != nil {
		return JournalEntry{}, false, err
	}

	postings, next, err := e.fillPostings(fill)
	if err != nil {
		return JournalEntry{}, false, err
	}

	entry = e.newEntry(EntryFill, tsSim, fill.Symbol, postings)
	if err := e.commit(entry, &next); err != nil {
		return JournalEntry{}, false, err
	}
	return entry, true, nil
}

// quantizeFill normalizes a validated fill to policy precision and checks
// it still makes sense afterwards.
func (e *Engine) quantizeFill(f event.Fill) (event.Fill, error) {
	if f.FeeCurrency != e.quote {
		return event.Fill{}, &InputError{Reason: fmt.Sprintf(
			"fee currency %q does not match ledger quote currency %q", f.FeeCurrency, e.quote)}
	}
	f.Quantity = e.policy.Quantize(f.Quantity)
	f.Price = e.policy.Quantize(f.Price)
	f.Fee = e.policy.Quantize(f.Fee)
	if !f.Quantity.IsPositive() {
		return event.Fill{}, &InputError{Reason: "fill quantity quantizes to zero"}
	}
	if !f.Price.IsPositive() {
		return event.Fill{}, &InputError{Reason: "fill price quantizes to zero"}
	}
	return f, nil
}

// fillPostings builds the balanced posting set for a fill and the
// resulting position, without touching engine state.
func (e *Engine) fillPostings(f event.Fill) ([]Posting, Position, error) {
	pos, ok := e.positions[f.Symbol]
	if !ok {
		pos = Position{Symbol: f.Symbol}
	}

	fillSign := decimal.NewFromInt(1)
	if f.Side == event.Sell {
		fillSign = decimal.NewFromInt(-1)
	}
	delta := f.Quantity.Mul(fillSign)
	inventory := InventoryAccount(baseAsset(f.Symbol), e.quote)

	var postings []Posting
	cash := decimal.Zero

	if sameDirection(pos.Quantity, delta) {
		// Opening or increasing exposure: no realized P/L, basis grows.
		notional := e.policy.Quantize(f.Quantity.Mul(f.Price))
		leg := notional.Mul(fillSign)
		postings = appendPosting(postings, inventory, leg)
		cash = cash.Sub(leg)
		pos = pos.increase(delta, f.Price, e.policy.Places)
	} else {
		posSign := decimal.NewFromInt(int64(pos.Quantity.Sign()))
		closeQty := decimal.Min(f.Quantity, pos.Quantity.Abs())
		remainder := f.Quantity.Sub(closeQty)

		// Realized P/L is the exact difference between the quantized
		// close notional and the quantized basis released, so the entry
		// sums to zero by construction.
		closeNotional := e.policy.Quantize(closeQty.Mul(f.Price))
		basisOut := e.policy.Quantize(closeQty.Mul(pos.AvgCost))
		realized := closeNotional.Sub(basisOut).Mul(posSign)

		postings = appendPosting(postings, inventory, basisOut.Mul(posSign).Neg())
		postings = appendPosting(postings, RealizedPnLAccount(e.quote), realized.Neg())
		cash = cash.Sub(closeNotional.Mul(fillSign))
		pos = pos.reduce(closeQty)

		if remainder.IsPositive() {
			// Flip: the remainder opens fresh exposure in the fill's
			// direction, with average cost reset to the fill price.
			openNotional := e.policy.Quantize(remainder.Mul(f.Price))
			leg := openNotional.Mul(fillSign)
			postings = appendPosting(postings, inventory, leg)
			cash = cash.Sub(leg)
			pos = Position{Symbol: f.Symbol}.increase(remainder.Mul(fillSign), f.Price, e.policy.Places)
		}
	}

	postings = appendPosting(postings, FeesAccount(e.quote), f.Fee)
	cash = cash.Sub(f.Fee)
	postings = appendPosting(postings, CashAccount(e.quote), cash)

	return postings, pos, nil
}

// newEntry stamps a journal entry with a ULID minted from simulation
// time, so replays of the same session order identically.
func (e *Engine) newEntry(kind EntryKind, tsSim int64, symbol string, postings []Posting) JournalEntry {
	return JournalEntry{
		ID:       id.NewAt(time.Unix(0, tsSim).UTC()),
		Seq:      e.seq + 1,
		Kind:     kind,
		TsSim:    tsSim,
		Symbol:   symbol,
		Postings: postings,
	}
}

// commit verifies the double-entry invariant, records the entry, and
// only then mutates engine state. next is nil for entries that do not
// touch a position.
func (e *Engine) commit(entry JournalEntry, next *Position) error {
	if !entry.balanced() {
		err := &InvariantError{
			EntryID: entry.ID,
			Detail:  fmt.Sprintf("postings sum to %s, want 0", entry.Sum()),
		}
		e.fatal = err
		return err
	}
	if e.recorder != nil {
		if err := e.recorder.RecordEntry(entry); err != nil {
			return fmt.Errorf("record journal entry: %w", err)
		}
	}

	for _, p := range entry.Postings {
		e.balances[p.Account] = e.balances[p.Account].Add(p.Amount)
	}
	if next != nil {
		if next.Quantity.IsZero() {
			delete(e.positions, next.Symbol)
		} else {
			e.positions[next.Symbol] = *next
		}
	}
	e.seq = entry.Seq
	e.entries = append(e.entries, entry)
	return nil
}

// appendPosting drops zero-amount legs so entries stay minimal.
func appendPosting(postings []Posting, a Account, amount decimal.Decimal) []Posting {
	if amount.IsZero() {
		return postings
	}
	return append(postings, Posting{Account: a, Amount: amount})
}

// baseAsset extracts the base asset from a pair symbol like "BTC/EUR".
// Symbols without a separator are used as-is.
func baseAsset(symbol string) string {
	if i := strings.IndexByte(symbol, '/'); i > 0 {
		return symbol[:i]
	}
	return symbol
}
