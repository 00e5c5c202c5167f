package retailload

import (
	"fmt"
	"strings"
	"time"
)

// ConnectionConfig is the connection descriptor built from the DB_* environment variables.
type ConnectionConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Database string

	// AppName is reported to PostgreSQL as application_name.
	AppName string

	// ConnectTimeout bounds establishing a single connection (0 = driver default).
	ConnectTimeout time.Duration
}

// String returns a log-safe description of the connection; the password is never included.
func (c *ConnectionConfig) String() string {
	return fmt.Sprintf("%s@%s:%d/%s", c.Username, c.Host, c.Port, c.Database)
}

// InsertMethod selects how rows are written during the append step.
type InsertMethod string

const (
	// InsertMethodCopy streams rows with the PostgreSQL COPY protocol.
	InsertMethodCopy InsertMethod = "copy"

	// InsertMethodInsert sends batched INSERT statements.
	InsertMethodInsert InsertMethod = "insert"
)

// ParseInsertMethod converts a flag value into an InsertMethod.
func ParseInsertMethod(s string) (InsertMethod, error) {
	switch m := InsertMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case InsertMethodCopy, InsertMethodInsert:
		return m, nil
	case "":
		return InsertMethodCopy, nil
	default:
		return "", fmt.Errorf("unknown insert method %q (want copy or insert): %w", s, ErrInvalidConfig)
	}
}

// LoadConfig holds the options of a single load.
type LoadConfig struct {
	// SourcePath is the CSV file to read.
	SourcePath string

	// Table is the destination table; Schema optionally qualifies it.
	Table  string
	Schema string

	// Index writes the zero-based row position as a leading column named IndexLabel.
	Index      bool
	IndexLabel string

	// Method and ChunkSize control the append step.
	// ChunkSize only applies to InsertMethodInsert; 0 sends all rows in one batch.
	Method    InsertMethod
	ChunkSize int

	// Atomic runs replace and append in one transaction.
	Atomic bool
}

// DefaultLoadConfig returns the options matching the classic one-shot load:
// retail_store_sales.csv into sales_data, with the row index column, over COPY.
func DefaultLoadConfig() LoadConfig {
	return LoadConfig{
		SourcePath: DefaultSourcePath,
		Table:      DefaultTable,
		Index:      true,
		IndexLabel: DefaultIndexLabel,
		Method:     InsertMethodCopy,
	}
}

// Validate checks that the options are usable.
func (c LoadConfig) Validate() error {
	if strings.TrimSpace(c.SourcePath) == "" {
		return fmt.Errorf("source path is required: %w", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Table) == "" {
		return fmt.Errorf("table name is required: %w", ErrInvalidConfig)
	}
	if c.Index && strings.TrimSpace(c.IndexLabel) == "" {
		return fmt.Errorf("index label is required when the index column is enabled: %w", ErrInvalidConfig)
	}
	if c.ChunkSize < 0 {
		return fmt.Errorf("chunk size must not be negative, got %d: %w", c.ChunkSize, ErrInvalidConfig)
	}
	if _, err := ParseInsertMethod(string(c.Method)); err != nil {
		return err
	}
	return nil
}

// LoadResult summarizes a successful load.
type LoadResult struct {
	RunID string
	Table string

	// SourceChecksum is the hex SHA-256 of the CSV file that was loaded.
	SourceChecksum string

	// RowsRead is the number of data rows in the CSV file.
	RowsRead int

	// RowsWritten is the number of rows the database reported as written.
	RowsWritten int64

	// AppendDuration is the wall-clock time of the append step only.
	AppendDuration time.Duration
}
