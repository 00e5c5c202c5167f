package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vvka-141/retailload/pkg/retailload"
)

// ClassifyError marks connectivity and authentication failures with
// retailload.ErrConnectionFailed and adds guidance naming the DB_* variable
// most likely to be wrong. Other errors are returned unchanged.
func ClassifyError(err error, config *retailload.ConnectionConfig) error {
	if err == nil || errors.Is(err, retailload.ErrConnectionFailed) {
		return err
	}
	if !IsConnectionError(err) {
		return err
	}
	return wrapConnectionError(err, config)
}

// IsConnectionError reports whether err happened while establishing a connection.
func IsConnectionError(err error) bool {
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08 - Connection Exception, 28 - Invalid Authorization, 3D000 - invalid_catalog_name
		return strings.HasPrefix(pgErr.Code, "08") ||
			strings.HasPrefix(pgErr.Code, "28") ||
			pgErr.Code == "3D000"
	}

	errStr := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"failed to connect",
		"connection refused",
		"no such host",
		"server closed the connection",
		"connection reset",
	} {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}

// wrapConnectionError wraps raw pgx connection errors with actionable guidance.
func wrapConnectionError(err error, config *retailload.ConnectionConfig) error {
	errStr := strings.ToLower(err.Error())
	addr := describeAddr(config)

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf(`%w: connection refused to %s

Possible causes:
  - PostgreSQL is not running or not yet accepting connections
  - Wrong DB_HOST or DB_PORT

Original error: %w`, retailload.ErrConnectionFailed, addr, err)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		return fmt.Errorf(`%w: cannot resolve host "%s"

Possible causes:
  - DB_HOST is misspelled
  - The database container is not on the same network

Original error: %w`, retailload.ErrConnectionFailed, config.Host, err)

	case strings.Contains(errStr, "password authentication failed"):
		return fmt.Errorf(`%w: password authentication failed for user "%s"

Possible causes:
  - Wrong DB_PASSWORD
  - Wrong DB_USER

Original error: %w`, retailload.ErrConnectionFailed, config.Username, err)

	case strings.Contains(errStr, "does not exist"):
		return fmt.Errorf(`%w: database "%s" does not exist

Check DB_NAME, or create it:
  createdb %s

Original error: %w`, retailload.ErrConnectionFailed, config.Database, config.Database, err)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		return fmt.Errorf(`%w: connection timed out to %s

Original error: %w`, retailload.ErrConnectionFailed, addr, err)

	default:
		return fmt.Errorf("%w: failed to connect to %s: %w", retailload.ErrConnectionFailed, addr, err)
	}
}
