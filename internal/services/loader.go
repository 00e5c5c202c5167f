// Package services implements the load workflow: connect to PostgreSQL, read
// and coerce the sales CSV, replace the destination table and append the rows.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/retailload/internal/db"
	"github.com/vvka-141/retailload/internal/sales"
	"github.com/vvka-141/retailload/internal/source"
	"github.com/vvka-141/retailload/internal/warehouse"
	"github.com/vvka-141/retailload/pkg/retailload"
)

// Sink is the database side of a load. *warehouse.Store provides Run.
type Sink interface {
	Run(ctx context.Context, atomic bool, fn func(ctx context.Context, w warehouse.Writer) error) error
	Close()
}

type sinkOpener func(ctx context.Context, config *retailload.ConnectionConfig) (Sink, error)

// Connection is an open, not necessarily established, database handle for one run.
type Connection struct {
	RunID  string
	config *retailload.ConnectionConfig
	sink   Sink
}

// Config returns the connection descriptor, including the run's application_name.
func (c *Connection) Config() *retailload.ConnectionConfig {
	return c.config
}

// Close releases the underlying pool.
func (c *Connection) Close() {
	if c.sink != nil {
		c.sink.Close()
	}
}

// LoadService implements the connect and load operations.
// Thread-Safety: a LoadService may be shared, but a Connection must not be
// used by concurrent Load calls since both would replace the same table.
type LoadService struct {
	connectorFactory retailload.ConnectorFactory
	logger           retailload.Logger
	openSink         sinkOpener
	now              func() time.Time
	newRunID         func() string
}

// NewLoadService creates a LoadService. It panics on nil dependencies,
// which are programmer errors.
func NewLoadService(connectorFactory retailload.ConnectorFactory, logger retailload.Logger) *LoadService {
	if connectorFactory == nil {
		panic("connectorFactory cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	svc := &LoadService{
		connectorFactory: connectorFactory,
		logger:           logger,
		now:              time.Now,
		newRunID:         uuid.NewString,
	}
	svc.openSink = svc.defaultSink
	return svc
}

type poolSink struct {
	*warehouse.Store
	pool *pgxpool.Pool
}

func (s *poolSink) Close() {
	s.pool.Close()
}

func (s *LoadService) defaultSink(ctx context.Context, config *retailload.ConnectionConfig) (Sink, error) {
	connector, err := s.connectorFactory(config, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create connector: %w", err)
	}

	pool, err := connector.Connect(ctx)
	if err != nil {
		return nil, err
	}

	return &poolSink{Store: warehouse.NewStore(pool, s.logger), pool: pool}, nil
}

// Connect opens a lazy connection handle for config. Nothing is sent to the
// server until Load writes; a wrong password or host surfaces from Load as
// retailload.ErrConnectionFailed.
func (s *LoadService) Connect(ctx context.Context, config *retailload.ConnectionConfig) (*Connection, error) {
	if config == nil {
		return nil, fmt.Errorf("connection config is nil: %w", retailload.ErrInvalidConfig)
	}

	runID := s.newRunID()
	runConfig := *config
	runConfig.AppName = applicationName(config.AppName, runID)

	s.logger.Verbose("Run %s: connecting to %s", runID, &runConfig)

	sink, err := s.openSink(ctx, &runConfig)
	if err != nil {
		return nil, db.ClassifyError(err, &runConfig)
	}

	return &Connection{RunID: runID, config: &runConfig, sink: sink}, nil
}

// applicationName suffixes base with the first block of the run ID so a load
// can be found in pg_stat_activity.
func applicationName(base, runID string) string {
	if base == "" {
		base = retailload.DefaultAppName
	}
	if len(runID) > 8 {
		runID = runID[:8]
	}
	return base + "-" + runID
}

// Load reads the CSV file, replaces the destination table and appends every row.
// The file is fully read and coerced before the first statement is sent, so a
// malformed file never drops the existing table.
func (s *LoadService) Load(ctx context.Context, conn *Connection, cfg retailload.LoadConfig) (*retailload.LoadResult, error) {
	if conn == nil || conn.sink == nil {
		return nil, fmt.Errorf("load requires an open connection: %w", retailload.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid load configuration: %w", err)
	}

	frame, records, err := s.readRecords(cfg.SourcePath)
	if err != nil {
		return nil, err
	}

	table := warehouse.Table{
		Schema:     cfg.Schema,
		Name:       cfg.Table,
		Index:      cfg.Index,
		IndexLabel: cfg.IndexLabel,
	}
	opts := warehouse.AppendOptions{Method: cfg.Method, ChunkSize: cfg.ChunkSize}

	result := &retailload.LoadResult{
		RunID:          conn.RunID,
		Table:          table.QualifiedName(),
		SourceChecksum: frame.Checksum,
		RowsRead:       len(records),
	}

	err = conn.sink.Run(ctx, cfg.Atomic, func(ctx context.Context, w warehouse.Writer) error {
		if err := w.ReplaceTable(ctx, table); err != nil {
			return err
		}
		s.logger.Verbose("Run %s: replaced table %s", conn.RunID, result.Table)

		start := s.now()
		written, err := w.AppendRows(ctx, table, records, opts)
		result.AppendDuration = s.now().Sub(start)
		result.RowsWritten = written
		return err
	})
	if err != nil {
		return nil, db.ClassifyError(err, conn.config)
	}

	s.logger.Verbose("Run %s: wrote %d rows to %s in %s",
		conn.RunID, result.RowsWritten, result.Table, result.AppendDuration)
	return result, nil
}

// readRecords parses the CSV file, applies the positional rename and coerces
// every row.
func (s *LoadService) readRecords(path string) (*source.Frame, []sales.Record, error) {
	frame, err := source.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	header, err := sales.Rename(frame.Header)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	s.logger.Verbose("Read %d rows from %s (sha256 %s); columns renamed to %v",
		frame.Len(), path, frame.Checksum, header)

	records, err := sales.Coerce(frame.Rows)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return frame, records, nil
}
