package casskit

import (
	"context"

	"github.com/casskit/casskit/config"
	"github.com/casskit/casskit/driver"
	"github.com/casskit/casskit/executor"
	"github.com/casskit/casskit/schema"
	"github.com/casskit/casskit/statement"
	"github.com/casskit/casskit/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/casskit/casskit")

// Driver is the connection surface a Session needs: schema metadata queries,
// paged selects, plain execution and shutdown. *driver.Conn implements it.
type Driver interface {
	schema.Querier
	executor.Pager
	Exec(ctx context.Context, stmt *statement.Statement) error
	Close()
}

var _ Driver = (*driver.Conn)(nil)

// Session is the top-level entry point. It owns a driver connection, the
// type-string parser cache and the logger, and acquires a fresh schema
// snapshot for each operation that needs one, so driver-side metadata
// refreshes are picked up between calls.
type Session struct {
	drv             Driver
	defaultKeyspace types.Keyspace
	parser          *schema.TypeParser
	logger          *zap.Logger
}

// NewSession wraps an already connected driver.
func NewSession(drv Driver, defaultKeyspace string, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		drv:             drv,
		defaultKeyspace: types.Keyspace(defaultKeyspace),
		parser:          schema.NewTypeParser(),
		logger:          logger,
	}
}

// Connect opens a driver connection from the configuration and wraps it in a
// Session. The returned Session owns the connection.
func Connect(cfg *config.Config, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	conn, err := driver.Connect(cfg.Cluster, logger)
	if err != nil {
		return nil, err
	}
	return NewSession(conn, cfg.Cluster.Keyspace, logger), nil
}

// Close shuts the underlying connection down.
func (s *Session) Close() {
	s.drv.Close()
}

// Schema loads a fresh read-only schema snapshot from the cluster's system
// tables. Callers that build several statements against the same view of the
// schema should load once and reuse the snapshot.
func (s *Session) Schema(ctx context.Context) (*schema.Snapshot, error) {
	ctx, span := tracer.Start(ctx, "Session.Schema")
	defer span.End()
	return schema.Load(ctx, s.drv, s.defaultKeyspace, s.parser, s.logger)
}

// Upsert writes a flat key/value pair list into the table as an INSERT.
// Unknown-column handling follows the options; see statement.UpsertOptions.
func (s *Session) Upsert(ctx context.Context, qualifiedTable string, pairs []any, opts statement.UpsertOptions) error {
	ctx, span := tracer.Start(ctx, "Session.Upsert", trace.WithAttributes(
		attribute.String("db.table", qualifiedTable),
	))
	defer span.End()

	snap, err := s.Schema(ctx)
	if err != nil {
		return err
	}
	stmt, err := statement.BuildUpsert(snap, qualifiedTable, pairs, opts)
	if err != nil {
		return err
	}
	return s.drv.Exec(ctx, stmt)
}

// Select builds a statement from the query and options, executes it page by
// page and feeds every row to perRow. pageSize <= 0 uses the driver default.
func (s *Session) Select(ctx context.Context, query string, opts statement.BuildOptions, pageSize int, perRow executor.RowHandler) error {
	ctx, span := tracer.Start(ctx, "Session.Select", trace.WithAttributes(
		attribute.Int("db.page_size", pageSize),
	))
	defer span.End()

	stmt, err := s.build(ctx, query, opts)
	if err != nil {
		return err
	}
	return executor.Run(ctx, s.drv, stmt, pageSize, perRow, s.logger)
}

// Exec builds a statement from the query and options and executes it without
// consuming rows.
func (s *Session) Exec(ctx context.Context, query string, opts statement.BuildOptions) error {
	ctx, span := tracer.Start(ctx, "Session.Exec")
	defer span.End()

	stmt, err := s.build(ctx, query, opts)
	if err != nil {
		return err
	}
	return s.drv.Exec(ctx, stmt)
}

// Prepare validates the table against the current schema and returns a
// prepared-statement handle for use with BuildOptions.Prepared.
func (s *Session) Prepare(ctx context.Context, qualifiedTable, query string) (*statement.Prepared, error) {
	ctx, span := tracer.Start(ctx, "Session.Prepare", trace.WithAttributes(
		attribute.String("db.table", qualifiedTable),
	))
	defer span.End()

	snap, err := s.Schema(ctx)
	if err != nil {
		return nil, err
	}
	ks, table := snap.SplitTableName(qualifiedTable)
	if _, err := snap.FindTable(ks, table); err != nil {
		return nil, err
	}
	return statement.NewPrepared(qualifiedTable, query), nil
}

// ListKeyspaces returns the sorted keyspace names of the cluster.
func (s *Session) ListKeyspaces(ctx context.Context) ([]string, error) {
	snap, err := s.Schema(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Keyspaces(), nil
}

// ListTables returns the sorted table names of a keyspace.
func (s *Session) ListTables(ctx context.Context, keyspace string) ([]string, error) {
	snap, err := s.Schema(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Tables(types.Keyspace(keyspace))
}

// ListColumns returns the column names of a table, partition and clustering
// keys first.
func (s *Session) ListColumns(ctx context.Context, qualifiedTable string) ([]string, error) {
	snap, err := s.Schema(ctx)
	if err != nil {
		return nil, err
	}
	ks, table := snap.SplitTableName(qualifiedTable)
	return snap.Columns(ks, table)
}

// ListColumnTypes returns (column, CQL type) pairs for a table.
func (s *Session) ListColumnTypes(ctx context.Context, qualifiedTable string) ([]schema.ColumnType, error) {
	snap, err := s.Schema(ctx)
	if err != nil {
		return nil, err
	}
	ks, table := snap.SplitTableName(qualifiedTable)
	return snap.ColumnTypes(ks, table)
}

// build composes a statement, loading a schema snapshot only for the binding
// modes that resolve columns against one.
func (s *Session) build(ctx context.Context, query string, opts statement.BuildOptions) (*statement.Statement, error) {
	var snap *schema.Snapshot
	if opts.Record != nil || opts.Prepared != nil {
		var err error
		snap, err = s.Schema(ctx)
		if err != nil {
			return nil, err
		}
	}
	return statement.Build(snap, query, opts)
}
