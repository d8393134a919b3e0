// Package driver adapts gocql to the interfaces the core consumes: a page
// executor for selects, a plain executor for mutations, and the row-map
// query surface schema loading needs. Connection pooling, retries and
// topology are gocql's problem, not ours.
package driver

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/casskit/casskit/executor"
	"github.com/casskit/casskit/statement"
	"github.com/casskit/casskit/types"
	"github.com/gocql/gocql"
	"go.uber.org/zap"
)

// ClusterConfig carries everything needed to open a session against a
// cluster. Populated from yaml by the config package.
type ClusterConfig struct {
	ContactPoints            []string `yaml:"contactPoints"`
	Port                     int      `yaml:"port"`
	Keyspace                 string   `yaml:"keyspace"`
	Consistency              string   `yaml:"consistency"`
	TimeoutSeconds           int      `yaml:"timeoutSeconds"`
	DisableInitialHostLookup bool     `yaml:"disableInitialHostLookup"`

	SSL struct {
		Enabled          bool   `yaml:"enabled"`
		CaPath           string `yaml:"caPath"`
		CertPath         string `yaml:"certPath"`
		KeyPath          string `yaml:"keyPath"`
		HostVerification bool   `yaml:"hostVerification"`
	} `yaml:"ssl"`

	Auth struct {
		Enabled  bool   `yaml:"enabled"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"auth"`
}

// Conn is a live gocql session plus the session defaults applied to every
// statement that carries no override.
type Conn struct {
	session *gocql.Session
	logger  *zap.Logger
}

// Connect opens a gocql session from the cluster configuration.
func Connect(cfg ClusterConfig, logger *zap.Logger) (*Conn, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	consistency := gocql.Quorum
	if cfg.Consistency != "" {
		parsed, err := gocql.ParseConsistencyWrapper(cfg.Consistency)
		if err != nil {
			return nil, fmt.Errorf("invalid consistency %q: %w", cfg.Consistency, err)
		}
		consistency = parsed
	}

	cluster := gocql.NewCluster(cfg.ContactPoints...)
	if cfg.Port != 0 {
		cluster.Port = cfg.Port
	}
	cluster.Keyspace = cfg.Keyspace
	cluster.Consistency = consistency
	if cfg.TimeoutSeconds != 0 {
		cluster.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	cluster.DisableInitialHostLookup = cfg.DisableInitialHostLookup

	if cfg.SSL.Enabled {
		cluster.SslOpts = &gocql.SslOptions{
			CaPath:                 cfg.SSL.CaPath,
			CertPath:               cfg.SSL.CertPath,
			KeyPath:                cfg.SSL.KeyPath,
			EnableHostVerification: cfg.SSL.HostVerification,
		}
	}
	if cfg.Auth.Enabled {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Auth.Username,
			Password: cfg.Auth.Password,
		}
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", strings.Join(cfg.ContactPoints, ","), err)
	}

	logger.Info("connected to cluster",
		zap.Strings("contactPoints", cfg.ContactPoints),
		zap.String("keyspace", cfg.Keyspace),
		zap.String("consistency", consistency.String()))

	return &Conn{session: session, logger: logger}, nil
}

// NewConn wraps an existing gocql session, for callers that manage their own
// cluster configuration.
func NewConn(session *gocql.Session, logger *zap.Logger) *Conn {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Conn{session: session, logger: logger}
}

// Close shuts the underlying session down. The Conn cannot be reused.
func (c *Conn) Close() {
	c.session.Close()
}

func (c *Conn) query(ctx context.Context, stmt *statement.Statement) *gocql.Query {
	q := c.session.Query(stmt.Query, stmt.Values...).WithContext(ctx)
	if stmt.Consistency != nil {
		q = q.Consistency(gocql.Consistency(*stmt.Consistency))
	}
	return q
}

// Exec runs a statement that produces no rows.
func (c *Conn) Exec(ctx context.Context, stmt *statement.Statement) error {
	if err := c.query(ctx, stmt).Exec(); err != nil {
		return &types.DriverError{Op: "statement execution", Cause: err}
	}
	return nil
}

// ExecutePage executes one page of a select. Setting the page state, even
// to nil, disables gocql's automatic paging so each page is fetched
// explicitly by the executor.
func (c *Conn) ExecutePage(ctx context.Context, stmt *statement.Statement, pageSize int, pageState []byte) (executor.Page, error) {
	q := c.query(ctx, stmt)
	if pageSize > 0 {
		q = q.PageSize(pageSize)
	}
	iter := q.PageState(pageState).Iter()
	return newPage(iter), nil
}

// QueryRows runs a statement and returns every row as a name→value map.
// Used for small result sets such as schema metadata.
func (c *Conn) QueryRows(ctx context.Context, stmt string, values ...any) ([]map[string]types.GoValue, error) {
	iter := c.session.Query(stmt, values...).WithContext(ctx).Iter()
	rows, err := iter.SliceMap()
	if err != nil {
		_ = iter.Close()
		return nil, err
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return rows, nil
}

// page adapts a gocql.Iter to executor.Page. The continuation token is
// captured from this iterator, never from an earlier page's.
type page struct {
	iter      *gocql.Iter
	columns   []string
	holders   []reflect.Value
	dests     []any
	pageState []byte
	closed    bool
	err       error
}

func newPage(iter *gocql.Iter) *page {
	cols := iter.Columns()
	names := make([]string, len(cols))
	holders := make([]reflect.Value, len(cols))
	dests := make([]any, len(cols))
	for i, col := range cols {
		names[i] = col.Name
		// scan through a pointer-to-pointer so SQL null comes back as a
		// nil inner pointer instead of a zero value
		inner := reflect.TypeOf(col.TypeInfo.New())
		holders[i] = reflect.New(inner)
		dests[i] = holders[i].Interface()
	}
	return &page{
		iter:      iter,
		columns:   names,
		holders:   holders,
		dests:     dests,
		pageState: iter.PageState(),
	}
}

func (p *page) NextRow() (map[string]types.GoValue, []string, bool) {
	if p.closed {
		return nil, nil, false
	}
	for i := range p.holders {
		p.holders[i].Elem().Set(reflect.Zero(p.holders[i].Type().Elem()))
	}
	if !p.iter.Scan(p.dests...) {
		// the iterator is exhausted or failed; close it now so Err reports
		// scan failures before the deferred Close runs
		p.closed = true
		p.err = p.iter.Close()
		return nil, nil, false
	}
	values := make(map[string]types.GoValue, len(p.columns))
	for i, name := range p.columns {
		inner := p.holders[i].Elem()
		if inner.IsNil() {
			continue
		}
		values[name] = inner.Elem().Interface()
	}
	return values, p.columns, true
}

func (p *page) Err() error {
	return p.err
}

func (p *page) PageState() []byte {
	return p.pageState
}

func (p *page) Close() error {
	if p.closed {
		return p.err
	}
	p.closed = true
	p.err = p.iter.Close()
	return p.err
}
