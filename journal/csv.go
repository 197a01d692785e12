package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/peaktrade/ledger/ledger"
	"github.com/peaktrade/ledger/quant"
)

// CSV appends journal postings to a flat file, one row per posting.
// Snapshots are not persisted by this store.
type CSV struct {
	file   *os.File
	w      *csv.Writer
	policy quant.Policy
}

var csvHeader = []string{"entry_id", "seq", "kind", "ts_sim", "symbol", "leg", "account", "amount"}

// NewCSV creates (or truncates) the postings file at path.
func NewCSV(path string, policy quant.Policy) (*CSV, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	return &CSV{file: f, w: w, policy: policy}, nil
}

func (j *CSV) RecordEntry(e ledger.JournalEntry) error {
	for i, p := range e.Postings {
		row := []string{
			e.ID,
			strconv.FormatUint(e.Seq, 10),
			string(e.Kind),
			strconv.FormatInt(e.TsSim, 10),
			e.Symbol,
			strconv.Itoa(i),
			string(p.Account),
			j.policy.Format(p.Amount),
		}
		if err := j.w.Write(row); err != nil {
			return fmt.Errorf("write posting row: %w", err)
		}
	}
	j.w.Flush()
	return j.w.Error()
}

// RecordSnapshot is a no-op for the CSV store.
func (j *CSV) RecordSnapshot(int64, []byte) error { return nil }

func (j *CSV) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		j.file.Close()
		return err
	}
	return j.file.Close()
}
