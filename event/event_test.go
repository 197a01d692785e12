package event

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func validFill() Fill {
	return Fill{
		Symbol:      "BTC/EUR",
		Side:        Buy,
		Quantity:    dec("1.5"),
		Price:       dec("50000"),
		Fee:         dec("10"),
		FeeCurrency: "EUR",
	}
}

func TestParseSide(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Side
		wantErr bool
	}{
		{"BUY", Buy, false},
		{"buy", Buy, false},
		{" Sell ", Sell, false},
		{"HOLD", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseSide(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestEventValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Event)
		wantErr string
	}{
		{"valid_fill", func(e *Event) {}, ""},
		{"unknown_kind", func(e *Event) { e.Kind = "TRADE" }, "unknown event kind"},
		{"fill_missing_payload", func(e *Event) { e.Fill = nil }, "missing payload"},
		{"intent_with_payload", func(e *Event) { e.Kind = KindIntent }, "must not carry"},
		{"missing_symbol", func(e *Event) { e.Fill.Symbol = "" }, "missing symbol"},
		{"bad_side", func(e *Event) { e.Fill.Side = "HOLD" }, "invalid side"},
		{"zero_quantity", func(e *Event) { e.Fill.Quantity = decimal.Zero }, "quantity must be > 0"},
		{"negative_price", func(e *Event) { e.Fill.Price = dec("-1") }, "price must be > 0"},
		{"negative_fee", func(e *Event) { e.Fill.Fee = dec("-0.1") }, "fee must be >= 0"},
		{"missing_fee_currency", func(e *Event) { e.Fill.FeeCurrency = "" }, "missing fee currency"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ev := NewFill(validFill())
			tt.mutate(&ev)
			err := ev.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIntentWithoutPayloadIsValid(t *testing.T) {
	t.Parallel()

	for _, kind := range []Kind{KindIntent, KindOrder, KindRiskReject} {
		assert.NoError(t, Event{Kind: kind}.Validate())
	}
}

func TestReadJSONL(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		`{"kind":"FILL","fill":{"symbol":"BTC/EUR","side":"BUY","quantity":"1.0","price":"50000","fee":"10","fee_currency":"EUR","ts_utc":1700000000}}`,
		``,
		`{"symbol":"ETH/EUR","side":"SELL","quantity":"2.5","price":"3000.25","fee":"0.5","fee_currency":"EUR"}`,
		`{"kind":"INTENT"}`,
	}, "\n")

	events, err := ReadJSONL(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, KindFill, events[0].Kind)
	require.NotNil(t, events[0].Fill)
	assert.True(t, events[0].Fill.Quantity.Equal(dec("1.0")))
	assert.Equal(t, int64(1700000000), events[0].Fill.TsUTC)

	// A bare fill line becomes a FILL event.
	assert.Equal(t, KindFill, events[1].Kind)
	require.NotNil(t, events[1].Fill)
	assert.Equal(t, Sell, events[1].Fill.Side)
	assert.True(t, events[1].Fill.Price.Equal(dec("3000.25")))

	assert.Equal(t, KindIntent, events[2].Kind)
	assert.Nil(t, events[2].Fill)
}

func TestReadJSONLBadLine(t *testing.T) {
	t.Parallel()

	_, err := ReadJSONL(strings.NewReader("{not json}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}
