package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peaktrade/ledger/quant"
)

func TestCSVRecordEntry(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "postings.csv")
	j, err := NewCSV(path, quant.DefaultPolicy())
	require.NoError(t, err)

	require.NoError(t, j.RecordEntry(testEntry("01CSV", 1)))
	require.NoError(t, j.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	// Header plus one row per posting.
	require.Len(t, rows, 4)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "01CSV", rows[1][0])
	assert.Equal(t, "FILL", rows[1][2])
	assert.Equal(t, "INVENTORY_COST:BTC:EUR", rows[1][6])
	assert.Equal(t, "50000.00000000", rows[1][7])
	assert.Equal(t, "CASH:EUR", rows[3][6])
	assert.Equal(t, "-50010.00000000", rows[3][7])
}
