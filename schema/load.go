package schema

import (
	"context"

	"github.com/casskit/casskit/types"
	"go.uber.org/zap"
)

// Querier is the minimal query surface Load needs from the driver: execute a
// statement and return every row as a name→value map.
type Querier interface {
	QueryRows(ctx context.Context, stmt string, values ...any) ([]map[string]types.GoValue, error)
}

const (
	keyspacesQuery = `SELECT keyspace_name FROM system_schema.keyspaces`
	columnsQuery   = `SELECT keyspace_name, table_name, column_name, position, kind, type FROM system_schema.columns`
)

// Load builds a point-in-time schema snapshot by querying the cluster's
// system_schema tables. Column type strings are resolved through the shared
// parser so repeated validator strings hit its cache. Entries whose shape
// does not match expectations are skipped, not fatal.
func Load(ctx context.Context, q Querier, defaultKeyspace types.Keyspace, parser *TypeParser, logger *zap.Logger) (*Snapshot, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	ksRows, err := q.QueryRows(ctx, keyspacesQuery)
	if err != nil {
		return nil, &types.DriverError{Op: "schema keyspaces query", Cause: err}
	}
	colRows, err := q.QueryRows(ctx, columnsQuery)
	if err != nil {
		return nil, &types.DriverError{Op: "schema columns query", Cause: err}
	}

	type tableKey struct {
		ks    types.Keyspace
		table types.TableName
	}
	columnsByTable := make(map[tableKey][]*Column)
	var tableOrder []tableKey

	for _, row := range colRows {
		ks, okKs := stringField(row, "keyspace_name")
		table, okTable := stringField(row, "table_name")
		name, okName := stringField(row, "column_name")
		typeStr, okType := stringField(row, "type")
		if !okKs || !okTable || !okName || !okType || name == "" {
			// something fishy, like a synthetic index column with no name
			logger.Debug("skipping malformed schema column entry", zap.Any("row", row))
			continue
		}
		parsed, err := parser.Parse(typeStr)
		if err != nil {
			logger.Warn("skipping column with unparseable type",
				zap.String("keyspace", ks),
				zap.String("table", table),
				zap.String("column", name),
				zap.String("type", typeStr),
				zap.Error(err))
			continue
		}
		key := tableKey{ks: types.Keyspace(ks), table: types.TableName(table)}
		if _, seen := columnsByTable[key]; !seen {
			tableOrder = append(tableOrder, key)
		}
		columnsByTable[key] = append(columnsByTable[key], &Column{
			Name:     types.ColumnName(name),
			Type:     parsed,
			Kind:     stringOrEmpty(row, "kind"),
			Position: intField(row, "position"),
		})
	}

	tables := make([]*TableSchema, 0, len(columnsByTable))
	for _, key := range tableOrder {
		tables = append(tables, NewTableSchema(key.ks, key.table, columnsByTable[key]))
	}

	snap := NewSnapshot(defaultKeyspace, tables, logger)

	// keyspaces can exist with no tables yet; register them so listing and
	// lookup treat them as present rather than missing
	for _, row := range ksRows {
		name, ok := stringField(row, "keyspace_name")
		if !ok || name == "" {
			continue
		}
		ks := types.Keyspace(name)
		if _, exists := snap.keyspaces[ks]; !exists {
			snap.keyspaces[ks] = make(map[types.TableName]*TableSchema)
		}
	}

	logger.Debug("loaded schema snapshot",
		zap.Int("keyspaces", len(snap.keyspaces)),
		zap.Int("tables", len(tables)))
	return snap, nil
}

func stringField(row map[string]types.GoValue, name string) (string, bool) {
	v, ok := row[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func stringOrEmpty(row map[string]types.GoValue, name string) string {
	s, _ := stringField(row, name)
	return s
}

func intField(row map[string]types.GoValue, name string) int {
	switch v := row[name].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	default:
		return 0
	}
}
