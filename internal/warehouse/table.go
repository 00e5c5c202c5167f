// Package warehouse writes sales records into PostgreSQL: it replaces the
// destination table's structure and appends rows to it.
package warehouse

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/retailload/internal/sales"
)

// Table identifies the destination table and its column layout.
type Table struct {
	Schema string
	Name   string

	// Index adds a leading BIGINT column named IndexLabel holding each row's
	// zero-based position in the source file, with a non-unique index on it.
	Index      bool
	IndexLabel string
}

// Identifier returns the (optionally schema-qualified) table identifier.
func (t Table) Identifier() pgx.Identifier {
	if t.Schema != "" {
		return pgx.Identifier{t.Schema, t.Name}
	}
	return pgx.Identifier{t.Name}
}

// QualifiedName returns the sanitized identifier for use in SQL text.
func (t Table) QualifiedName() string {
	return t.Identifier().Sanitize()
}

// Columns returns the destination column names in write order.
func (t Table) Columns() []string {
	names := sales.ColumnNames()
	if !t.Index {
		return names
	}
	return append([]string{t.IndexLabel}, names...)
}

// IndexName is the name of the index on the row-position column: ix_<table>_<label>.
func (t Table) IndexName() string {
	return fmt.Sprintf("ix_%s_%s", t.Name, t.IndexLabel)
}

func columnType(c sales.ColumnType) string {
	switch c {
	case sales.TypeDecimal:
		return "NUMERIC"
	case sales.TypeInteger:
		return "BIGINT"
	case sales.TypeTimestamp:
		return "TIMESTAMP WITHOUT TIME ZONE"
	default:
		return "TEXT"
	}
}

// DropTableSQL returns the statement removing any previous table.
func DropTableSQL(t Table) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", t.QualifiedName())
}

// CreateTableSQL returns the statement creating the empty table structure.
func CreateTableSQL(t Table) string {
	defs := make([]string, 0, sales.ColumnCount+1)
	if t.Index {
		defs = append(defs, pgx.Identifier{t.IndexLabel}.Sanitize()+" BIGINT")
	}
	for _, c := range sales.Columns {
		defs = append(defs, pgx.Identifier{c.Name}.Sanitize()+" "+columnType(c.Type))
	}
	return fmt.Sprintf("CREATE TABLE %s (\n\t%s\n)", t.QualifiedName(), strings.Join(defs, ",\n\t"))
}

// CreateIndexSQL returns the statement indexing the row-position column.
// It is empty when the table has no index column.
func CreateIndexSQL(t Table) string {
	if !t.Index {
		return ""
	}
	return fmt.Sprintf("CREATE INDEX %s ON %s (%s)",
		pgx.Identifier{t.IndexName()}.Sanitize(),
		t.QualifiedName(),
		pgx.Identifier{t.IndexLabel}.Sanitize())
}

// InsertSQL returns a single-row parameterized INSERT for the table.
func InsertSQL(t Table) string {
	cols := t.Columns()
	quoted := make([]string, len(cols))
	params := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pgx.Identifier{c}.Sanitize()
		params[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		t.QualifiedName(), strings.Join(quoted, ", "), strings.Join(params, ", "))
}
