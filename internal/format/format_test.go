package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		expected string
	}{
		{"zero", 0, "Rp 0"},
		{"hundreds", 950, "Rp 950"},
		{"thousands", 1500, "Rp 1.500"},
		{"millions", 1500000, "Rp 1.500.000"},
		{"billions", 2750000000, "Rp 2.750.000.000"},
		{"negative", -1500, "-Rp 1.500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCurrency(tt.amount))
		})
	}
}

func TestFormatDecimalCurrency(t *testing.T) {
	assert.Equal(t, "Rp 288", FormatDecimalCurrency(decimal.RequireFromString("287.5")))
	assert.Equal(t, "Rp 275", FormatDecimalCurrency(decimal.NewFromInt(275)))
}

func TestFormatPeriod(t *testing.T) {
	tests := []struct {
		period   string
		expected string
	}{
		{"2024-01", "Januari 2024"},
		{"2024-03", "Maret 2024"},
		{"2023-12", "Desember 2023"},
		// Malformed keys are echoed back.
		{"2024-13", "2024-13"},
		{"2024-1", "2024-1"},
		{"March 2024", "March 2024"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatPeriod(tt.period))
		})
	}
}

func TestFormatPeriod_Stable(t *testing.T) {
	first := FormatPeriod("2024-08")
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, FormatPeriod("2024-08"))
	}
	assert.Equal(t, "Agustus 2024", first)
}

func TestParsePeriod(t *testing.T) {
	got, err := ParsePeriod("2024-06")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), got)

	_, err = ParsePeriod("2024-00")
	assert.ErrorIs(t, err, ErrFormat)

	_, err = ParsePeriod("24-06")
	assert.ErrorIs(t, err, ErrFormat)
}

func TestPeriodOf(t *testing.T) {
	assert.Equal(t, "2024-02", PeriodOf(time.Date(2024, time.February, 29, 23, 0, 0, 0, time.UTC)))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "15 Maret 2024", FormatDate(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)))
}

func TestAvailablePeriods(t *testing.T) {
	got := AvailablePeriods([]string{"2024-02", "bad", "2024-11", "2023-12", "2024-02", "2024-13"})
	assert.Equal(t, []string{"2024-11", "2024-02", "2023-12"}, got)

	assert.Empty(t, AvailablePeriods(nil))
}
