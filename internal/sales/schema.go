// Package sales defines the fixed retail sales schema and converts raw CSV
// rows into typed records.
package sales

import (
	"fmt"

	"github.com/vvka-141/retailload/pkg/retailload"
)

// ColumnType is the semantic type of a sales column.
type ColumnType int

const (
	TypeText ColumnType = iota
	TypeDecimal
	TypeInteger
	TypeTimestamp
)

// String returns the type name used in error messages.
func (t ColumnType) String() string {
	switch t {
	case TypeText:
		return "text"
	case TypeDecimal:
		return "decimal"
	case TypeInteger:
		return "integer"
	case TypeTimestamp:
		return "timestamp"
	default:
		return fmt.Sprintf("ColumnType(%d)", int(t))
	}
}

// Column is one field of a sales record.
type Column struct {
	Name string
	Type ColumnType
}

// Column names, in file order.
const (
	ColTransID         = "trans_id"
	ColCustID          = "cust_id"
	ColCategory        = "category"
	ColItemCode        = "item_code"
	ColPricePerUnit    = "price_per_unit"
	ColQuantity        = "quantity"
	ColTotalPrice      = "total_price"
	ColPayType         = "pay_type"
	ColLocation        = "location"
	ColTransDate       = "trans_date"
	ColDiscountApplied = "discount_applied"
)

// Columns is the fixed schema. CSV columns are mapped onto it by position.
var Columns = []Column{
	{ColTransID, TypeText},
	{ColCustID, TypeText},
	{ColCategory, TypeText},
	{ColItemCode, TypeText},
	{ColPricePerUnit, TypeDecimal},
	{ColQuantity, TypeInteger},
	{ColTotalPrice, TypeDecimal},
	{ColPayType, TypeText},
	{ColLocation, TypeText},
	{ColTransDate, TypeTimestamp},
	{ColDiscountApplied, TypeText},
}

// ColumnCount is the number of columns a sales CSV must have.
var ColumnCount = len(Columns)

// ColumnNames returns the schema column names in order.
func ColumnNames() []string {
	names := make([]string, len(Columns))
	for i, c := range Columns {
		names[i] = c.Name
	}
	return names
}

// Rename maps a CSV header onto the schema by position and returns the new
// column names. The header text itself is ignored; only its width is checked.
func Rename(header []string) ([]string, error) {
	if len(header) != ColumnCount {
		return nil, fmt.Errorf("expected %d columns, found %d (%q): %w",
			ColumnCount, len(header), header, retailload.ErrSchemaMismatch)
	}
	return ColumnNames(), nil
}
