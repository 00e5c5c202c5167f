package sales

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/retailload/pkg/retailload"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{" 2024-01-15 ", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-01-15 13:45:10", time.Date(2024, 1, 15, 13, 45, 10, 0, time.UTC)},
		{"2024-01-15 13:45:10.250", time.Date(2024, 1, 15, 13, 45, 10, 250_000_000, time.UTC)},
		{"2024-01-15T13:45:10", time.Date(2024, 1, 15, 13, 45, 10, 0, time.UTC)},
		{"2024-01-15T13:45:10+02:00", time.Date(2024, 1, 15, 11, 45, 10, 0, time.UTC)},
		{"2024/01/15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"01/02/2024", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"1/2/2024", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"2024-1-5", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"2024-1-5 7:05:09", time.Date(2024, 1, 5, 7, 5, 9, 0, time.UTC)},
		{"2024-1-5 13:45:10", time.Date(2024, 1, 5, 13, 45, 10, 0, time.UTC)},
		{"2024/1/5", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"Jan 15, 2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"January 5, 2024", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"15 Jan 2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"2 January 2024", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseTimestamp(tt.raw)
			require.NoError(t, err)
			require.True(t, got.Valid)
			assert.True(t, tt.want.Equal(got.Time), "want %v, got %v", tt.want, got.Time)
			assert.Equal(t, time.UTC, got.Time.Location())
		})
	}
}

func TestParseTimestamp_Missing(t *testing.T) {
	for _, raw := range []string{"", "NaN", "NULL", "N/A"} {
		got, err := ParseTimestamp(raw)
		require.NoError(t, err, raw)
		assert.False(t, got.Valid, raw)
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	for _, raw := range []string{"yesterday", "2024-13-45", "15.01.2024", "2024-01-15 25:00:00"} {
		_, err := ParseTimestamp(raw)
		assert.ErrorIs(t, err, retailload.ErrCoercion, raw)
	}
}

func TestParseDecimal(t *testing.T) {
	got, err := ParseDecimal("2.50")
	require.NoError(t, err)
	require.True(t, got.Valid)
	assert.Equal(t, "2.5", got.Decimal.String())
	assert.Equal(t, int32(-2), got.Decimal.Exponent(), "scale is preserved")

	got, err = ParseDecimal("nan")
	require.NoError(t, err)
	assert.False(t, got.Valid)

	_, err = ParseDecimal("two")
	assert.ErrorIs(t, err, retailload.ErrCoercion)
}

func TestParseInteger(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		valid   bool
		wantErr bool
	}{
		{"3", 3, true, false},
		{"3.0", 3, true, false},
		{" -7 ", -7, true, false},
		{"", 0, false, false},
		{"NA", 0, false, false},
		{"3.5", 0, false, true},
		{"three", 0, false, true},
		{"99999999999999999999", 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseInteger(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, retailload.ErrCoercion)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.valid, got.Valid)
			assert.Equal(t, tt.want, got.Int64)
		})
	}
}

func TestIsNA(t *testing.T) {
	assert.True(t, IsNA(""))
	assert.True(t, IsNA("NaN"))
	assert.True(t, IsNA("<NA>"))
	assert.False(t, IsNA("No"))
	assert.False(t, IsNA(" "))
}
