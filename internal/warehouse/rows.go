package warehouse

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/vvka-141/retailload/internal/sales"
)

// rowValues returns the values for one record in Table.Columns() order.
// pos is the record's zero-based position in the source file.
func rowValues(t Table, pos int, r sales.Record) []any {
	values := make([]any, 0, sales.ColumnCount+1)
	if t.Index {
		values = append(values, int64(pos))
	}
	return append(values,
		pgtype.Text{String: r.TransID.String, Valid: r.TransID.Valid},
		pgtype.Text{String: r.CustID.String, Valid: r.CustID.Valid},
		pgtype.Text{String: r.Category.String, Valid: r.Category.Valid},
		pgtype.Text{String: r.ItemCode.String, Valid: r.ItemCode.Valid},
		numeric(r.PricePerUnit),
		pgtype.Int8{Int64: r.Quantity.Int64, Valid: r.Quantity.Valid},
		numeric(r.TotalPrice),
		pgtype.Text{String: r.PayType.String, Valid: r.PayType.Valid},
		pgtype.Text{String: r.Location.String, Valid: r.Location.Valid},
		pgtype.Timestamp{Time: r.TransDate.Time, Valid: r.TransDate.Valid},
		pgtype.Text{String: r.DiscountApplied.String, Valid: r.DiscountApplied.Valid},
	)
}

// numeric converts an exact decimal to pgtype.Numeric without rounding.
func numeric(d decimal.NullDecimal) pgtype.Numeric {
	if !d.Valid {
		return pgtype.Numeric{}
	}
	return pgtype.Numeric{Int: d.Decimal.Coefficient(), Exp: d.Decimal.Exponent(), Valid: true}
}
