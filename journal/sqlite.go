package journal

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/peaktrade/ledger/ledger"
	"github.com/peaktrade/ledger/quant"
)

// SQLite persists the audit trail in a SQLite database.
type SQLite struct {
	db     *sql.DB
	policy quant.Policy
}

// NewSQLite opens (or creates) the journal database at path.
func NewSQLite(path string, policy quant.Policy) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}
	return &SQLite{db: db, policy: policy}, nil
}

// RecordEntry inserts the entry and all its postings in one transaction,
// so a partially written entry can never appear in the audit trail.
func (j *SQLite) RecordEntry(e ledger.JournalEntry) error {
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO journal_entries (entry_id, seq, kind, ts_sim, symbol)
		VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Seq, string(e.Kind), e.TsSim, e.Symbol,
	); err != nil {
		return fmt.Errorf("insert entry %s: %w", e.ID, err)
	}
	for i, p := range e.Postings {
		if _, err := tx.Exec(`
			INSERT INTO postings (entry_id, leg, account, amount)
			VALUES (?, ?, ?, ?)`,
			e.ID, i, string(p.Account), j.policy.Format(p.Amount),
		); err != nil {
			return fmt.Errorf("insert posting %s/%d: %w", e.ID, i, err)
		}
	}
	return tx.Commit()
}

// RecordSnapshot stores one canonical snapshot export.
func (j *SQLite) RecordSnapshot(tsSim int64, body []byte) error {
	_, err := j.db.Exec(`INSERT INTO snapshots (ts_sim, body) VALUES (?, ?)`, tsSim, string(body))
	return err
}

// AccountSum is one row of a trial balance.
type AccountSum struct {
	Account ledger.Account
	Balance decimal.Decimal
}

// TrialBalance recomputes per-account balances from the stored postings,
// for reconciliation against a live engine. Sums are computed in decimal
// in-process; SQLite never does float arithmetic on the amounts.
func (j *SQLite) TrialBalance(ctx context.Context) ([]AccountSum, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT account, amount FROM postings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sums := make(map[ledger.Account]decimal.Decimal)
	for rows.Next() {
		var account, amount string
		if err := rows.Scan(&account, &amount); err != nil {
			return nil, err
		}
		d, err := quant.Parse(amount)
		if err != nil {
			return nil, fmt.Errorf("stored amount for %s: %w", account, err)
		}
		acct := ledger.Account(account)
		sums[acct] = sums[acct].Add(d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]AccountSum, 0, len(sums))
	for acct, bal := range sums {
		out = append(out, AccountSum{Account: acct, Balance: bal})
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Account < out[k].Account })
	return out, nil
}

// EntryCount returns the number of recorded journal entries.
func (j *SQLite) EntryCount(ctx context.Context) (int64, error) {
	var n int64
	err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM journal_entries`).Scan(&n)
	return n, err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
