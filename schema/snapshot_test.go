package schema

import (
	"testing"

	"github.com/casskit/casskit/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usersTable() *TableSchema {
	return NewTableSchema("demo", "users", []*Column{
		{Name: "name", Type: types.TypeText, Kind: "regular"},
		{Name: "created", Type: types.TypeTimestamp, Kind: "clustering", Position: 0},
		{Name: "id", Type: types.TypeUuid, Kind: "partition_key", Position: 0},
		{Name: "tags", Type: types.NewSetType(types.TypeText), Kind: "regular"},
	})
}

func testSnapshot() *Snapshot {
	return NewSnapshot("demo", []*TableSchema{usersTable()}, nil)
}

func TestResolve(t *testing.T) {
	snap := testSnapshot()

	tests := []struct {
		name     string
		table    string
		column   types.ColumnName
		expected types.CqlDataType
	}{
		{name: "bare table uses default keyspace", table: "users", column: "id", expected: types.TypeUuid},
		{name: "qualified table", table: "demo.users", column: "name", expected: types.TypeText},
		{name: "collection column", table: "users", column: "tags", expected: types.NewSetType(types.TypeText)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dt, found, err := snap.Resolve(tt.table, tt.column)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, tt.expected.String(), dt.String())
		})
	}
}

func TestResolveUnknownColumnIsSentinelNotError(t *testing.T) {
	snap := testSnapshot()

	dt, found, err := snap.Resolve("users", "no_such_column")
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, dt)
}

func TestResolveSchemaErrors(t *testing.T) {
	snap := testSnapshot()

	t.Run("missing keyspace", func(t *testing.T) {
		_, _, err := snap.Resolve("other.users", "id")
		var schemaErr *types.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, types.Keyspace("other"), schemaErr.Keyspace)
	})

	t.Run("missing table", func(t *testing.T) {
		_, _, err := snap.Resolve("demo.orders", "id")
		var schemaErr *types.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, types.TableName("orders"), schemaErr.Table)
	})
}

func TestColumnOrdering(t *testing.T) {
	snap := testSnapshot()

	cols, err := snap.Columns("demo", "users")
	require.NoError(t, err)
	// partition key, clustering key, then regulars by name
	assert.Equal(t, []string{"id", "created", "name", "tags"}, cols)
}

func TestColumnTypes(t *testing.T) {
	snap := testSnapshot()

	cols, err := snap.ColumnTypes("demo", "users")
	require.NoError(t, err)
	assert.Equal(t, []ColumnType{
		{Name: "id", Type: "uuid"},
		{Name: "created", Type: "timestamp"},
		{Name: "name", Type: "text"},
		{Name: "tags", Type: "set<text>"},
	}, cols)
}

func TestNewTableSchemaSkipsUnnamedColumns(t *testing.T) {
	ts := NewTableSchema("demo", "users", []*Column{
		{Name: "id", Type: types.TypeUuid, Kind: "partition_key"},
		{Name: "", Type: types.TypeText, Kind: "regular"},
	})
	assert.Len(t, ts.Columns(), 1)
}

func TestListings(t *testing.T) {
	snap := NewSnapshot("demo", []*TableSchema{
		usersTable(),
		NewTableSchema("demo", "events", []*Column{
			{Name: "id", Type: types.TypeTimeuuid, Kind: "partition_key"},
		}),
		NewTableSchema("audit", "log", []*Column{
			{Name: "id", Type: types.TypeUuid, Kind: "partition_key"},
		}),
	}, nil)

	assert.Equal(t, []string{"audit", "demo"}, snap.Keyspaces())

	tables, err := snap.Tables("demo")
	require.NoError(t, err)
	assert.Equal(t, []string{"events", "users"}, tables)

	_, err = snap.Tables("missing")
	assert.Error(t, err)
}
