package ledger

import (
	"github.com/shopspring/decimal"
)

// EntryKind distinguishes why a journal entry was booked.
type EntryKind string

const (
	EntryOpening EntryKind = "OPENING"
	EntryFill    EntryKind = "FILL"
)

// Posting is one leg of a journal entry. Amount is signed: positive is a
// debit, negative a credit. A posting is owned by its parent entry and
// never mutated after the entry is recorded.
type Posting struct {
	Account Account
	Amount  decimal.Decimal
}

// JournalEntry is one atomic accounting transaction. Entries are
// append-only: once recorded they are never modified, forming the audit
// trail. The postings of every recorded entry sum to exactly zero.
type JournalEntry struct {
	ID       string
	Seq      uint64
	Kind     EntryKind
	TsSim    int64
	Symbol   string
	Postings []Posting
}

// Sum returns the exact sum of all posting amounts.
func (e JournalEntry) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range e.Postings {
		sum = sum.Add(p.Amount)
	}
	return sum
}

// balanced reports whether the double-entry invariant holds.
func (e JournalEntry) balanced() bool {
	return e.Sum().IsZero()
}
