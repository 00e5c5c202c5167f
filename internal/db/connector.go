package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/retailload/pkg/retailload"
)

// Connection pool configuration constants
const (
	// DefaultMaxConns is enough for a loader: one writer, plus headroom for
	// the pool's health checks.
	DefaultMaxConns = 2

	// DefaultMinConns is zero so that opening the pool never dials.
	// The first connection is established by the first statement.
	DefaultMinConns = 0

	// DefaultMaxConnIdleTime keeps the writer connection alive during a large COPY.
	DefaultMaxConnIdleTime = 30 * time.Minute
)

func configurePool(poolConfig *pgxpool.Config, logger retailload.Logger) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = DefaultMinConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
	poolConfig.ConnConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
		logger.Verbose("postgres %s: %s", notice.Severity, notice.Message)
	}
}

// StandardConnector implements the Connector interface for
// username/password authentication.
//
// Connect is lazy: it builds and validates the pool configuration but does
// not contact the server. Connectivity and authentication failures surface
// from the first statement and are classified by ClassifyError.
type StandardConnector struct {
	config *retailload.ConnectionConfig
	logger retailload.Logger
}

// NewStandardConnector creates a new StandardConnector with the given configuration.
func NewStandardConnector(config *retailload.ConnectionConfig, logger retailload.Logger) *StandardConnector {
	return &StandardConnector{
		config: config,
		logger: logger,
	}
}

// Connect opens a connection pool without establishing any connection.
func (c *StandardConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(BuildConnectionString(c.config))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %v: %w", err, retailload.ErrInvalidConfig)
	}

	configurePool(poolConfig, c.logger)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, ClassifyError(err, c.config)
	}

	c.logger.Verbose("Connection pool opened for %s", RedactedConnectionString(c.config))
	return pool, nil
}

// NewConnector is the default retailload.ConnectorFactory.
func NewConnector(config *retailload.ConnectionConfig, logger retailload.Logger) (retailload.Connector, error) {
	if config == nil {
		return nil, fmt.Errorf("connection config is nil: %w", retailload.ErrInvalidConfig)
	}
	return NewStandardConnector(config, logger), nil
}

var _ retailload.ConnectorFactory = NewConnector
