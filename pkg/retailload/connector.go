package retailload

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connector opens the connection pool used by a load.
type Connector interface {
	// Connect returns a pool for the configured database.
	// The returned pool should be closed by the caller when done.
	Connect(ctx context.Context) (*pgxpool.Pool, error)
}

// ConnectorFactory builds a Connector from a connection descriptor.
type ConnectorFactory func(config *ConnectionConfig, logger Logger) (Connector, error)
