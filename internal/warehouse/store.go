package warehouse

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vvka-141/retailload/internal/sales"
	"github.com/vvka-141/retailload/pkg/retailload"
)

// Beginner starts transactions. *pgxpool.Pool, *pgx.Conn and pgx.Tx satisfy it;
// beginning on a pgx.Tx creates a savepoint.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// AppendOptions control how rows are written.
type AppendOptions struct {
	Method retailload.InsertMethod

	// ChunkSize is the number of INSERTs per batch round trip for
	// InsertMethodInsert. 0 sends every row in a single batch.
	ChunkSize int
}

// Writer performs the two write steps of a load.
type Writer interface {
	// ReplaceTable drops the table if it exists and recreates its structure with no rows.
	ReplaceTable(ctx context.Context, table Table) error

	// AppendRows writes records into the table and returns the number of rows written.
	AppendRows(ctx context.Context, table Table, records []sales.Record, opts AppendOptions) (int64, error)
}

// Store runs Writer operations against a database.
type Store struct {
	db     Beginner
	logger retailload.Logger
}

// NewStore creates a Store on db.
func NewStore(db Beginner, logger retailload.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Run calls fn with a Writer. Each Writer call commits on its own unless
// atomic is set, in which case all calls share one transaction that commits
// when fn returns nil and rolls back otherwise.
func (s *Store) Run(ctx context.Context, atomic bool, fn func(ctx context.Context, w Writer) error) error {
	if !atomic {
		return fn(ctx, &session{db: s.db, logger: s.logger})
	}

	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		return fn(ctx, &session{db: tx, logger: s.logger})
	})
	if err != nil && !errors.Is(err, retailload.ErrTableReplace) && !errors.Is(err, retailload.ErrAppend) {
		return fmt.Errorf("%w: transaction: %w", retailload.ErrAppend, err)
	}
	return err
}

// session implements Writer on top of a Beginner.
type session struct {
	db     Beginner
	logger retailload.Logger
}

func (s *session) ReplaceTable(ctx context.Context, table Table) error {
	statements := []string{DropTableSQL(table), CreateTableSQL(table)}
	if idx := CreateIndexSQL(table); idx != "" {
		statements = append(statements, idx)
	}

	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		for _, stmt := range statements {
			s.logger.Verbose("Executing: %s", stmt)
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", retailload.ErrTableReplace, table.QualifiedName(), err)
	}
	return nil
}

func (s *session) AppendRows(ctx context.Context, table Table, records []sales.Record, opts AppendOptions) (int64, error) {
	var written int64

	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		var err error
		switch opts.Method {
		case retailload.InsertMethodInsert:
			written, err = insertRows(ctx, tx, table, records, opts.ChunkSize)
		default:
			written, err = copyRows(ctx, tx, table, records)
		}
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", retailload.ErrAppend, table.QualifiedName(), err)
	}

	s.logger.Verbose("Appended %d rows to %s using %s", written, table.QualifiedName(), methodName(opts.Method))
	return written, nil
}

func methodName(m retailload.InsertMethod) string {
	if m == "" {
		return string(retailload.InsertMethodCopy)
	}
	return string(m)
}

// copyRows streams records with the COPY protocol.
func copyRows(ctx context.Context, tx pgx.Tx, table Table, records []sales.Record) (int64, error) {
	source := pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
		return rowValues(table, i, records[i]), nil
	})
	return tx.CopyFrom(ctx, table.Identifier(), table.Columns(), source)
}

// insertRows sends one INSERT per record, chunkSize records per batch.
func insertRows(ctx context.Context, tx pgx.Tx, table Table, records []sales.Record, chunkSize int) (int64, error) {
	if chunkSize <= 0 {
		chunkSize = len(records)
	}

	query := InsertSQL(table)
	var written int64

	for start := 0; start < len(records); start += chunkSize {
		end := min(start+chunkSize, len(records))

		batch := &pgx.Batch{}
		for i := start; i < end; i++ {
			batch.Queue(query, rowValues(table, i, records[i])...)
		}

		n, err := execBatch(ctx, tx, batch)
		written += n
		if err != nil {
			return written, fmt.Errorf("batch starting at row %d: %w", start+1, err)
		}
	}

	return written, nil
}

func execBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch) (n int64, err error) {
	results := tx.SendBatch(ctx, batch)
	defer func() {
		if closeErr := results.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	for i := 0; i < batch.Len(); i++ {
		tag, err := results.Exec()
		if err != nil {
			return n, err
		}
		n += tag.RowsAffected()
	}
	return n, nil
}
