package sales

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vvka-141/retailload/pkg/retailload"
)

// Record is one sales transaction. Null fields come from empty or NA cells.
type Record struct {
	TransID         sql.NullString
	CustID          sql.NullString
	Category        sql.NullString
	ItemCode        sql.NullString
	PricePerUnit    decimal.NullDecimal
	Quantity        sql.NullInt64
	TotalPrice      decimal.NullDecimal
	PayType         sql.NullString
	Location        sql.NullString
	TransDate       sql.NullTime
	DiscountApplied sql.NullString
}

// FromFields converts one CSV row, already in schema order, into a Record.
func FromFields(fields []string) (Record, error) {
	if len(fields) != ColumnCount {
		return Record{}, fmt.Errorf("expected %d fields, found %d: %w",
			ColumnCount, len(fields), retailload.ErrSchemaMismatch)
	}

	var (
		rec Record
		err error
	)

	rec.TransID = parseText(fields[0])
	rec.CustID = parseText(fields[1])
	rec.Category = parseText(fields[2])
	rec.ItemCode = parseText(fields[3])
	if rec.PricePerUnit, err = ParseDecimal(fields[4]); err != nil {
		return Record{}, columnError(ColPricePerUnit, err)
	}
	if rec.Quantity, err = ParseInteger(fields[5]); err != nil {
		return Record{}, columnError(ColQuantity, err)
	}
	if rec.TotalPrice, err = ParseDecimal(fields[6]); err != nil {
		return Record{}, columnError(ColTotalPrice, err)
	}
	rec.PayType = parseText(fields[7])
	rec.Location = parseText(fields[8])
	if rec.TransDate, err = ParseTimestamp(fields[9]); err != nil {
		return Record{}, columnError(ColTransDate, err)
	}
	rec.DiscountApplied = parseText(fields[10])

	return rec, nil
}

// Coerce converts every data row into a Record.
// The first failing cell aborts the conversion; its error names the 1-based
// data row and the column.
func Coerce(rows [][]string) ([]Record, error) {
	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		rec, err := FromFields(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func columnError(column string, err error) error {
	return fmt.Errorf("column %s: %w", column, err)
}
