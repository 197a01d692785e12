// Package journal persists the ledger audit trail: journal entries with
// their postings, plus exported valuation snapshots. Stores are
// append-only; recorded entries are never updated or deleted.
package journal

import "github.com/peaktrade/ledger/ledger"

// Store is the durable audit-trail sink.
type Store interface {
	RecordEntry(ledger.JournalEntry) error
	RecordSnapshot(tsSim int64, body []byte) error
	Close() error
}

// Nop discards everything, for purely in-memory sessions.
type Nop struct{}

func (Nop) RecordEntry(ledger.JournalEntry) error { return nil }
func (Nop) RecordSnapshot(int64, []byte) error    { return nil }
func (Nop) Close() error                          { return nil }
