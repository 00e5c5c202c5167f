package testinfra

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/retailload/pkg/retailload"
)

// TestConnEnv overrides the container with an existing server.
const TestConnEnv = "RETAILLOAD_TEST_CONN"

var (
	containerOnce sync.Once
	containerConn string
	containerErr  error
)

func getOrStartContainer() (string, error) {
	containerOnce.Do(func() {
		container, err := StartPostgres(context.Background())
		if err != nil {
			containerErr = err
			return
		}
		containerConn = container.ConnString
	})
	return containerConn, containerErr
}

// GetTestConnectionString returns the test database connection string.
// Priority: RETAILLOAD_TEST_CONN env var > auto-started testcontainer > skip test.
func GetTestConnectionString(t *testing.T) string {
	t.Helper()

	if connString := os.Getenv(TestConnEnv); connString != "" {
		return connString
	}

	connString, err := getOrStartContainer()
	if err != nil {
		t.Skipf("%s not set and Docker unavailable: %v", TestConnEnv, err)
	}
	return connString
}

// RequireDatabase skips the test in -short mode and returns a connection string otherwise.
func RequireDatabase(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	return GetTestConnectionString(t)
}

// ConnectionConfig converts a connection string into the descriptor the loader
// builds from DB_* variables.
func ConnectionConfig(t *testing.T, connString string) *retailload.ConnectionConfig {
	t.Helper()

	cfg, err := pgx.ParseConfig(connString)
	if err != nil {
		t.Fatalf("parse test connection string: %v", err)
	}
	return &retailload.ConnectionConfig{
		Host:     cfg.Host,
		Port:     int(cfg.Port),
		Username: cfg.User,
		Password: cfg.Password,
		Database: cfg.Database,
		AppName:  retailload.DefaultAppName,
	}
}

// Pool opens a pool for assertions; it is closed when the test ends.
func Pool(t *testing.T, connString string) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("open test pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// UniqueTableName returns a table name that does not collide between tests
// sharing one server.
func UniqueTableName(t *testing.T) string {
	t.Helper()

	name := strings.ToLower(t.Name())
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	return fmt.Sprintf("%s_%d", name, time.Now().UnixNano()%1_000_000)
}

// DropTable removes a table created by a test when the test ends.
func DropTable(t *testing.T, pool *pgxpool.Pool, table string) {
	t.Helper()

	t.Cleanup(func() {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s", pgx.Identifier{table}.Sanitize())
		if _, err := pool.Exec(context.Background(), query); err != nil {
			t.Logf("cleanup: drop %s: %v", table, err)
		}
	})
}

// TableExists reports whether a table exists in the current search path.
func TableExists(t *testing.T, pool *pgxpool.Pool, table string) bool {
	t.Helper()

	var exists bool
	err := pool.QueryRow(context.Background(),
		"SELECT to_regclass($1) IS NOT NULL", pgx.Identifier{table}.Sanitize()).Scan(&exists)
	if err != nil {
		t.Fatalf("check table %s: %v", table, err)
	}
	return exists
}

// CountRows returns the number of rows in a table.
func CountRows(t *testing.T, pool *pgxpool.Pool, table string) int64 {
	t.Helper()

	var n int64
	query := fmt.Sprintf("SELECT count(*) FROM %s", pgx.Identifier{table}.Sanitize())
	if err := pool.QueryRow(context.Background(), query).Scan(&n); err != nil {
		t.Fatalf("count rows in %s: %v", table, err)
	}
	return n
}
