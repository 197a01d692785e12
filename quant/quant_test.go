package quant

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"integer", "50000", "50000"},
		{"fraction", "0.00000001", "0.00000001"},
		{"negative", "-1.5", "-1.5"},
		{"leading_plus", "+2.25", "2.25"},
		{"whitespace", "  10 ", "10"},
		{"scientific", "1e-8", "0.00000001"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.input)
			assert.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s want %s", got, tt.want)
		})
	}
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"letters", "abc"},
		{"nan", "NaN"},
		{"inf", "Inf"},
		{"neg_inf", "-Infinity"},
		{"mixed", "12x.5"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(tt.input)
			assert.Error(t, err)
			var qe *QuantizationError
			assert.ErrorAs(t, err, &qe)
		})
	}
}

func TestQuantizeHalfEven(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"round_down", "0.123456784", "0.12345678"},
		{"round_up", "0.123456786", "0.12345679"},
		{"half_to_even_down", "0.123456785", "0.12345678"},
		{"half_to_even_up", "0.123456775", "0.12345678"},
		{"already_exact", "1.00000001", "1.00000001"},
		{"negative_half", "-0.123456785", "-0.12345678"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := p.Quantize(MustParse(tt.input))
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestQuantizeIdempotent(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()
	inputs := []string{
		"0.123456785", "1", "-57.99999999", "0.000000005", "123456.123456789",
	}
	for _, s := range inputs {
		once := p.Quantize(MustParse(s))
		twice := p.Quantize(once)
		assert.True(t, once.Equal(twice), "quantize not idempotent for %s", s)
	}
}

func TestFormatFixedWidth(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()
	assert.Equal(t, "49990.00000000", p.Format(MustParse("49990")))
	assert.Equal(t, "-0.50000000", p.Format(MustParse("-0.5")))
	assert.Equal(t, "0.12345679", p.Format(MustParse("0.123456786")))
}

func TestNewPolicyRejectsNegative(t *testing.T) {
	t.Parallel()

	_, err := NewPolicy(-1)
	assert.Error(t, err)

	p, err := NewPolicy(2)
	assert.NoError(t, err)
	assert.Equal(t, "10.12", p.Format(MustParse("10.125")))
}
