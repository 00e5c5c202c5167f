package sales

import (
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vvka-141/retailload/pkg/retailload"
)

// naValues are the cell values read as missing, in addition to the empty string.
// This is the set spreadsheet exports and pandas-produced files use.
var naValues = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {},
	"N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {},
	"n/a": {}, "nan": {}, "null": {},
}

// IsNA reports whether a raw cell value means "missing".
func IsNA(raw string) bool {
	if raw == "" {
		return true
	}
	_, ok := naValues[raw]
	return ok
}

// timestampLayouts are tried in order. Date-only and ISO forms come first
// because they are what the sales exports contain; slash dates are month-first.
// Fractional seconds are accepted after any seconds field. The "1" and "2"
// elements also match two-digit months and days, so unpadded dates such as
// 2024-1-5 parse too.
var timestampLayouts = []string{
	"2006-1-2",
	"2006-1-2 15:04:05",
	"2006-01-02T15:04:05",
	"2006-1-2 15:04",
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006/1/2",
	"2006/1/2 15:04:05",
	"1/2/2006",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

var (
	minInt64 = decimal.NewFromInt(math.MinInt64)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
)

func parseText(raw string) sql.NullString {
	if IsNA(raw) {
		return sql.NullString{}
	}
	return sql.NullString{String: raw, Valid: true}
}

// ParseTimestamp parses a trans_date cell. Values with a UTC offset are
// converted to UTC; values without one are taken as UTC wall-clock time.
func ParseTimestamp(raw string) (sql.NullTime, error) {
	s := strings.TrimSpace(raw)
	if IsNA(s) {
		return sql.NullTime{}, nil
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return sql.NullTime{Time: t.UTC(), Valid: true}, nil
		}
	}
	return sql.NullTime{}, fmt.Errorf("cannot parse %q as a date/time: %w", raw, retailload.ErrCoercion)
}

// ParseDecimal parses a price cell exactly, without going through float64.
func ParseDecimal(raw string) (decimal.NullDecimal, error) {
	s := strings.TrimSpace(raw)
	if IsNA(s) {
		return decimal.NullDecimal{}, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("cannot parse %q as a decimal number: %w", raw, retailload.ErrCoercion)
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

// ParseInteger parses a quantity cell. Integral decimals such as "3.0" are
// accepted, since exports that passed through a float column write them that way.
func ParseInteger(raw string) (sql.NullInt64, error) {
	s := strings.TrimSpace(raw)
	if IsNA(s) {
		return sql.NullInt64{}, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return sql.NullInt64{}, fmt.Errorf("cannot parse %q as an integer: %w", raw, retailload.ErrCoercion)
	}
	if !d.IsInteger() {
		return sql.NullInt64{}, fmt.Errorf("%q is not a whole number: %w", raw, retailload.ErrCoercion)
	}
	if d.LessThan(minInt64) || d.GreaterThan(maxInt64) {
		return sql.NullInt64{}, fmt.Errorf("%q is out of range for a 64-bit integer: %w", raw, retailload.ErrCoercion)
	}
	return sql.NullInt64{Int64: d.IntPart(), Valid: true}, nil
}
