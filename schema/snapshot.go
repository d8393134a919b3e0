package schema

import (
	"sort"
	"strings"

	"github.com/casskit/casskit/types"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
)

// Column is one column of a table as described by schema metadata.
type Column struct {
	Name types.ColumnName
	Type types.CqlDataType
	// Kind is the schema kind string: "partition_key", "clustering" or
	// "regular".
	Kind     string
	Position int
}

// TableSchema contains all schema information about a single table.
type TableSchema struct {
	Keyspace types.Keyspace
	Name     types.TableName
	columns  map[types.ColumnName]*Column
	ordered  []*Column
}

// NewTableSchema is a constructor for TableSchema. Please use this instead of
// direct initialization.
func NewTableSchema(keyspace types.Keyspace, table types.TableName, columns []*Column) *TableSchema {
	columnMap := make(map[types.ColumnName]*Column, len(columns))
	ordered := make([]*Column, 0, len(columns))
	for _, column := range columns {
		if column.Name == "" {
			// synthetic/internal metadata entries lack a name field; skip
			// them rather than failing the whole table
			continue
		}
		columnMap[column.Name] = column
		ordered = append(ordered, column)
	}
	sortColumns(ordered)
	return &TableSchema{
		Keyspace: keyspace,
		Name:     table,
		columns:  columnMap,
		ordered:  ordered,
	}
}

// sortColumns orders partition keys first, then clustering keys, each by
// declared position, then regular columns by name. This shields callers from
// internal column-ordering metadata quirks.
func sortColumns(cols []*Column) {
	rank := func(c *Column) int {
		switch c.Kind {
		case "partition_key":
			return 0
		case "clustering":
			return 1
		default:
			return 2
		}
	}
	sort.SliceStable(cols, func(i, j int) bool {
		ri, rj := rank(cols[i]), rank(cols[j])
		if ri != rj {
			return ri < rj
		}
		if ri < 2 && cols[i].Position != cols[j].Position {
			return cols[i].Position < cols[j].Position
		}
		return cols[i].Name < cols[j].Name
	})
}

// GetColumn returns the named column, or nil when the table has no such
// column. A nil result is the unknown-column sentinel, not an error.
func (t *TableSchema) GetColumn(name types.ColumnName) *Column {
	return t.columns[name]
}

// Columns returns the table's columns in canonical order.
func (t *TableSchema) Columns() []*Column {
	return t.ordered
}

// Snapshot is a read-only, point-in-time view of keyspace→table→column
// structure. The owning driver may refresh metadata between snapshots; a
// snapshot itself never changes after construction and takes no locks.
type Snapshot struct {
	logger          *zap.Logger
	defaultKeyspace types.Keyspace
	keyspaces       map[types.Keyspace]map[types.TableName]*TableSchema
}

// NewSnapshot builds a snapshot from table schemas. defaultKeyspace is used
// by Resolve when a table name carries no keyspace qualifier.
func NewSnapshot(defaultKeyspace types.Keyspace, tables []*TableSchema, logger *zap.Logger) *Snapshot {
	if logger == nil {
		logger = zap.NewNop()
	}
	keyspaces := make(map[types.Keyspace]map[types.TableName]*TableSchema)
	for _, table := range tables {
		ks, exists := keyspaces[table.Keyspace]
		if !exists {
			ks = make(map[types.TableName]*TableSchema)
			keyspaces[table.Keyspace] = ks
		}
		ks[table.Name] = table
	}
	return &Snapshot{
		logger:          logger,
		defaultKeyspace: defaultKeyspace,
		keyspaces:       keyspaces,
	}
}

// SplitTableName splits a possibly qualified "keyspace.table" name. A bare
// table name resolves against the snapshot's default keyspace.
func (s *Snapshot) SplitTableName(qualified string) (types.Keyspace, types.TableName) {
	if idx := strings.IndexByte(qualified, '.'); idx >= 0 {
		return types.Keyspace(qualified[:idx]), types.TableName(qualified[idx+1:])
	}
	return s.defaultKeyspace, types.TableName(qualified)
}

// FindKeyspace returns the tables of a keyspace, or a SchemaError.
func (s *Snapshot) FindKeyspace(ks types.Keyspace) (map[types.TableName]*TableSchema, error) {
	tables, ok := s.keyspaces[ks]
	if !ok {
		return nil, types.NewKeyspaceNotFoundError(ks)
	}
	return tables, nil
}

// FindTable returns the schema of a table, or a SchemaError.
func (s *Snapshot) FindTable(ks types.Keyspace, table types.TableName) (*TableSchema, error) {
	tables, err := s.FindKeyspace(ks)
	if err != nil {
		return nil, err
	}
	ts, ok := tables[table]
	if !ok {
		return nil, types.NewTableNotFoundError(ks, table)
	}
	return ts, nil
}

// Resolve determines the declared CQL type of a column. The table name may
// be qualified ("ks.table"). A missing keyspace or table is a SchemaError;
// a missing column in an existing table returns (nil, false, nil) — the
// unknown-column sentinel that upsert policies rely on.
func (s *Snapshot) Resolve(qualifiedTable string, column types.ColumnName) (types.CqlDataType, bool, error) {
	ks, table := s.SplitTableName(qualifiedTable)
	ts, err := s.FindTable(ks, table)
	if err != nil {
		return nil, false, err
	}
	col := ts.GetColumn(column)
	if col == nil {
		return nil, false, nil
	}
	return col.Type, true, nil
}

// Keyspaces returns a sorted list of all keyspace names in the snapshot.
func (s *Snapshot) Keyspaces() []string {
	keyspaces := maps.Keys(s.keyspaces)
	sort.Slice(keyspaces, func(i, j int) bool { return keyspaces[i] < keyspaces[j] })
	names := make([]string, len(keyspaces))
	for i, ks := range keyspaces {
		names[i] = string(ks)
	}
	return names
}

// Tables returns the sorted table names of a keyspace.
func (s *Snapshot) Tables(ks types.Keyspace) ([]string, error) {
	tables, err := s.FindKeyspace(ks)
	if err != nil {
		return nil, err
	}
	keys := maps.Keys(tables)
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	names := make([]string, len(keys))
	for i, name := range keys {
		names[i] = string(name)
	}
	return names, nil
}

// Columns returns the column names of a table in canonical order.
func (s *Snapshot) Columns(ks types.Keyspace, table types.TableName) ([]string, error) {
	ts, err := s.FindTable(ks, table)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ts.ordered))
	for _, col := range ts.ordered {
		names = append(names, string(col.Name))
	}
	return names, nil
}

// ColumnType pairs a column name with its human-readable CQL type name.
type ColumnType struct {
	Name string
	Type string
}

// ColumnTypes returns (name, type) pairs for a table in canonical order.
func (s *Snapshot) ColumnTypes(ks types.Keyspace, table types.TableName) ([]ColumnType, error) {
	ts, err := s.FindTable(ks, table)
	if err != nil {
		return nil, err
	}
	result := make([]ColumnType, 0, len(ts.ordered))
	for _, col := range ts.ordered {
		result = append(result, ColumnType{Name: string(col.Name), Type: col.Type.String()})
	}
	return result, nil
}
