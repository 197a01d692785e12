package ledger

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peaktrade/ledger/event"
	"github.com/peaktrade/ledger/quant"
)

func marks(pairs ...string) map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		m[pairs[i]] = quant.MustParse(pairs[i+1])
	}
	return m
}

func TestSnapshotValuation(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	_, err := e.OpenCash(tsSim, quant.MustParse("100000"))
	require.NoError(t, err)
	_, _, err = e.Apply(tsSim, fill(event.Buy, "1", "50000", "10"))
	require.NoError(t, err)

	snap, err := e.Snapshot(tsSim, marks("BTC/EUR", "55000"))
	require.NoError(t, err)

	assert.Equal(t, tsSim, snap.TsSim)
	assert.Equal(t, "EUR", snap.QuoteCurrency)
	assert.Equal(t, "49990.00000000", snap.Cash)
	assert.Equal(t, "104990.00000000", snap.Equity)
	assert.Equal(t, "0.00000000", snap.RealizedPnL)
	assert.Equal(t, "5000.00000000", snap.UnrealizedPnL)
	assert.Equal(t, "10.00000000", snap.FeesPaid)

	require.Len(t, snap.Positions, 1)
	pos := snap.Positions[0]
	assert.Equal(t, "BTC/EUR", pos.Symbol)
	assert.Equal(t, "1.00000000", pos.Quantity)
	assert.Equal(t, "50000.00000000", pos.AvgCost)
	assert.Equal(t, "55000.00000000", pos.MarkPrice)
	assert.Equal(t, "55000.00000000", pos.MarketValue)
	assert.Equal(t, "5000.00000000", pos.UnrealizedPnL)
}

func TestSnapshotShortUnrealized(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	_, _, err := e.Apply(tsSim, fill(event.Sell, "2", "100", "0"))
	require.NoError(t, err)

	snap, err := e.Snapshot(tsSim, marks("BTC/EUR", "90"))
	require.NoError(t, err)

	require.Len(t, snap.Positions, 1)
	// (90 - 100) * -2 = +20 on a short when price falls.
	assert.Equal(t, "20.00000000", snap.Positions[0].UnrealizedPnL)
	assert.Equal(t, "-180.00000000", snap.Positions[0].MarketValue)
	// equity = cash(+200) + market value(-180)
	assert.Equal(t, "20.00000000", snap.Equity)
}

func TestSnapshotMissingMark(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	_, _, err := e.Apply(tsSim, fill(event.Buy, "1", "100", "0"))
	require.NoError(t, err)

	_, err = e.Snapshot(tsSim, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "BTC/EUR")
}

func TestExportSnapshotJSONDeterministic(t *testing.T) {
	t.Parallel()

	build := func() *Engine {
		e := NewEngine("EUR", quant.DefaultPolicy(), nil)
		_, err := e.OpenCash(tsSim, quant.MustParse("100000"))
		require.NoError(t, err)
		for _, ev := range []event.Event{
			fill(event.Buy, "0.7", "41234.56789", "1.5"),
			fill(event.Sell, "0.2", "43000.12345678", "0.9"),
		} {
			_, _, err := e.Apply(tsSim, ev)
			require.NoError(t, err)
		}
		return e
	}

	m := marks("BTC/EUR", "42000.5")
	e := build()
	first, err := e.ExportSnapshotJSON(tsSim, m)
	require.NoError(t, err)
	second, err := e.ExportSnapshotJSON(tsSim, m)
	require.NoError(t, err)
	assert.Equal(t, first, second, "same engine, same marks must be byte-identical")

	// A separately replayed engine with the same inputs exports the same
	// bytes too.
	other, err := build().ExportSnapshotJSON(tsSim, m)
	require.NoError(t, err)
	assert.Equal(t, first, other)
}

func TestExportSnapshotJSONCanonicalShape(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	_, err := e.OpenCash(tsSim, quant.MustParse("1000"))
	require.NoError(t, err)
	_, _, err = e.Apply(tsSim, fill(event.Buy, "1", "100", "0"))
	require.NoError(t, err)

	out, err := e.ExportSnapshotJSON(tsSim, marks("BTC/EUR", "110"))
	require.NoError(t, err)

	// Canonical form: no insignificant whitespace.
	assert.NotContains(t, string(out), "\n")
	assert.NotContains(t, string(out), ": ")

	// Round-trips as JSON with all decimals as strings.
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.IsType(t, "", decoded["cash"])
	assert.IsType(t, "", decoded["equity"])

	balances, ok := decoded["balances"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, balances, "CASH:EUR")
	assert.Contains(t, balances, "INVENTORY_COST:BTC:EUR")
	assert.Contains(t, balances, "EQUITY_OPENING:EUR")
}
