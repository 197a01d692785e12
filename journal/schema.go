package journal

// Amounts are stored as fixed-precision TEXT, never REAL: SQLite floats
// are binary doubles and would break reproducibility.
const Schema = `
CREATE TABLE IF NOT EXISTS journal_entries (
	entry_id TEXT PRIMARY KEY,
	seq INTEGER NOT NULL,
	kind TEXT NOT NULL,
	ts_sim INTEGER NOT NULL,
	symbol TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS postings (
	entry_id TEXT NOT NULL REFERENCES journal_entries(entry_id),
	leg INTEGER NOT NULL,
	account TEXT NOT NULL,
	amount TEXT NOT NULL,
	PRIMARY KEY (entry_id, leg)
);

CREATE TABLE IF NOT EXISTS snapshots (
	ts_sim INTEGER NOT NULL,
	body TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entries_seq ON journal_entries(seq);
CREATE INDEX IF NOT EXISTS idx_postings_account ON postings(account);
`
