package statement

import (
	"testing"

	"github.com/casskit/casskit/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWithValues(t *testing.T) {
	stmt, err := Build(nil, "SELECT * FROM users WHERE id = ? AND age > ?", BuildOptions{
		Values: []any{testUUID, "uuid", "21", "int"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, stmt.NumParams())
	assert.Equal(t, testUUID, stmt.Values[0])
	assert.Equal(t, int32(21), stmt.Values[1])
	assert.Empty(t, stmt.Names)
}

func TestBuildWithValuesErrors(t *testing.T) {
	tests := []struct {
		name string
		opts BuildOptions
	}{
		{name: "odd pair list", opts: BuildOptions{Values: []any{"x"}}},
		{name: "non-string type name", opts: BuildOptions{Values: []any{"x", 7}}},
		{name: "unknown type name", opts: BuildOptions{Values: []any{"x", "sometype"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(nil, "SELECT * FROM t WHERE c = ?", tt.opts)
			var argErr *types.ArgumentError
			assert.ErrorAs(t, err, &argErr)
		})
	}
}

func TestBuildFromRecord(t *testing.T) {
	snap := testSnapshot()

	stmt, err := Build(snap, "UPDATE users SET name = ? WHERE id = ?", BuildOptions{
		Table:         "demo.users",
		Record:        map[string]types.GoValue{"id": testUUID, "name": "bob"},
		RecordColumns: []types.ColumnName{"name", "id"},
	})
	require.NoError(t, err)

	assert.Equal(t, []types.ColumnName{"name", "id"}, stmt.Names)
	assert.Equal(t, "bob", stmt.Values[0])
	assert.Equal(t, testUUID, stmt.Values[1])
}

func TestBuildFromRecordErrors(t *testing.T) {
	snap := testSnapshot()

	t.Run("record without table", func(t *testing.T) {
		_, err := Build(snap, "UPDATE users SET name = ?", BuildOptions{
			Record:        map[string]types.GoValue{"name": "bob"},
			RecordColumns: []types.ColumnName{"name"},
		})
		var argErr *types.ArgumentError
		assert.ErrorAs(t, err, &argErr)
	})

	t.Run("table without record", func(t *testing.T) {
		_, err := Build(snap, "UPDATE users SET name = ?", BuildOptions{Table: "users"})
		var argErr *types.ArgumentError
		assert.ErrorAs(t, err, &argErr)
	})

	t.Run("record mixed with typed values", func(t *testing.T) {
		_, err := Build(snap, "UPDATE users SET name = ?", BuildOptions{
			Table:         "users",
			Record:        map[string]types.GoValue{"name": "bob"},
			RecordColumns: []types.ColumnName{"name"},
			Values:        []any{"x", "text"},
		})
		var argErr *types.ArgumentError
		assert.ErrorAs(t, err, &argErr)
	})

	t.Run("column missing from record", func(t *testing.T) {
		_, err := Build(snap, "UPDATE users SET name = ? WHERE id = ?", BuildOptions{
			Table:         "users",
			Record:        map[string]types.GoValue{"name": "bob"},
			RecordColumns: []types.ColumnName{"name", "id"},
		})
		var argErr *types.ArgumentError
		assert.ErrorAs(t, err, &argErr)
	})

	t.Run("column unknown to table", func(t *testing.T) {
		_, err := Build(snap, "UPDATE users SET nickname = ?", BuildOptions{
			Table:         "users",
			Record:        map[string]types.GoValue{"nickname": "al"},
			RecordColumns: []types.ColumnName{"nickname"},
		})
		var unknownErr *types.UnknownColumnError
		assert.ErrorAs(t, err, &unknownErr)
	})
}

func TestBuildFromPrepared(t *testing.T) {
	snap := testSnapshot()
	prep := NewPrepared("demo.users", "SELECT * FROM demo.users WHERE id = :id")

	stmt, err := Build(snap, "", BuildOptions{
		Prepared: prep,
		Bindings: []any{"id", testUUID},
	})
	require.NoError(t, err)

	assert.Equal(t, prep.Query, stmt.Query)
	assert.Equal(t, []types.ColumnName{"id"}, stmt.Names)
	assert.Equal(t, testUUID, stmt.Values[0])
}

func TestBuildFromPreparedErrors(t *testing.T) {
	snap := testSnapshot()
	prep := NewPrepared("demo.users", "SELECT * FROM demo.users WHERE id = :id")

	tests := []struct {
		name  string
		query string
		opts  BuildOptions
	}{
		{
			name:  "prepared with its own query",
			query: "SELECT 1",
			opts:  BuildOptions{Prepared: prep},
		},
		{
			name: "prepared mixed with record",
			opts: BuildOptions{
				Prepared:      prep,
				Table:         "users",
				Record:        map[string]types.GoValue{"id": testUUID},
				RecordColumns: []types.ColumnName{"id"},
			},
		},
		{
			name: "prepared mixed with typed values",
			opts: BuildOptions{Prepared: prep, Values: []any{"x", "text"}},
		},
		{
			name: "odd binding list",
			opts: BuildOptions{Prepared: prep, Bindings: []any{"id"}},
		},
		{
			name: "non-string binding name",
			opts: BuildOptions{Prepared: prep, Bindings: []any{7, testUUID}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(snap, tt.query, tt.opts)
			var argErr *types.ArgumentError
			assert.ErrorAs(t, err, &argErr)
		})
	}
}

func TestBuildRequiresQuery(t *testing.T) {
	_, err := Build(nil, "", BuildOptions{})
	var argErr *types.ArgumentError
	assert.ErrorAs(t, err, &argErr)
}
