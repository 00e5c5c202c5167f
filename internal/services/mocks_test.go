package services

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/retailload/internal/sales"
	"github.com/vvka-141/retailload/internal/warehouse"
	"github.com/vvka-141/retailload/pkg/retailload"
)

type mockConnector struct {
	pool *pgxpool.Pool
	err  error
}

func (m *mockConnector) Connect(_ context.Context) (*pgxpool.Pool, error) {
	return m.pool, m.err
}

type mockLogger struct {
	mu      sync.Mutex
	verbose []string
	info    []string
	errors  []string
}

func (m *mockLogger) Verbose(format string, _ ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.verbose = append(m.verbose, format)
}

func (m *mockLogger) Info(format string, _ ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.info = append(m.info, format)
}

func (m *mockLogger) Error(format string, _ ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, format)
}

// mockWriter records the calls the loader makes, in order.
type mockWriter struct {
	calls      []string
	replaceErr error
	appendErr  error
	written    int64

	table   warehouse.Table
	records []sales.Record
	opts    warehouse.AppendOptions
}

func (m *mockWriter) ReplaceTable(_ context.Context, table warehouse.Table) error {
	m.calls = append(m.calls, "replace")
	m.table = table
	return m.replaceErr
}

func (m *mockWriter) AppendRows(_ context.Context, table warehouse.Table, records []sales.Record, opts warehouse.AppendOptions) (int64, error) {
	m.calls = append(m.calls, "append")
	m.records = records
	m.opts = opts
	if m.appendErr != nil {
		return 0, m.appendErr
	}
	if m.written != 0 {
		return m.written, nil
	}
	return int64(len(records)), nil
}

type mockSink struct {
	writer *mockWriter
	runs   int
	atomic bool
	closed bool
}

func (m *mockSink) Run(ctx context.Context, atomic bool, fn func(ctx context.Context, w warehouse.Writer) error) error {
	m.runs++
	m.atomic = atomic
	return fn(ctx, m.writer)
}

func (m *mockSink) Close() {
	m.closed = true
}

var _ retailload.Logger = (*mockLogger)(nil)
var _ Sink = (*mockSink)(nil)
