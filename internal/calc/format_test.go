package calc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCurrency(t *testing.T) {
	cases := map[float64]string{
		0:          "$0.00",
		5:          "$5.00",
		-5:         "-$5.00",
		1234.5:     "$1,234.50",
		999.999:    "$1,000.00",
		1234567.89: "$1,234,567.89",
		0.125:      "$0.13",
	}

	for in, want := range cases {
		assert.Equal(t, want, FormatCurrency(in), "amount %v", in)
	}
}

func TestFormatCurrency_NonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.NotPanics(t, func() { assert.Equal(t, "n/a", FormatCurrency(v)) })
	}
}

func TestRound2_NonFinite(t *testing.T) {
	assert.Zero(t, Round2(math.NaN()))
	assert.Zero(t, Round2(math.Inf(-1)))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.24, Round2(1.235))
	assert.Equal(t, -1.24, Round2(-1.235))
	assert.Equal(t, 7.0, Round2(7))
}

func TestDaysBetween(t *testing.T) {
	days, err := DaysBetween("2025-01-01", "2025-01-31")
	require.NoError(t, err)
	assert.Equal(t, 30, days)

	days, err = DaysBetween("2025-01-31", "2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, 30, days)

	_, err = DaysBetween("not-a-date", "2025-01-01")
	assert.Error(t, err)
}
