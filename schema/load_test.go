package schema

import (
	"context"
	"testing"

	"github.com/casskit/casskit/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuerier struct {
	keyspaces []map[string]types.GoValue
	columns   []map[string]types.GoValue
	err       error
}

func (f *fakeQuerier) QueryRows(ctx context.Context, stmt string, values ...any) ([]map[string]types.GoValue, error) {
	if f.err != nil {
		return nil, f.err
	}
	if stmt == keyspacesQuery {
		return f.keyspaces, nil
	}
	return f.columns, nil
}

func colRow(ks, table, name string, position int, kind, typ string) map[string]types.GoValue {
	return map[string]types.GoValue{
		"keyspace_name": ks,
		"table_name":    table,
		"column_name":   name,
		"position":      position,
		"kind":          kind,
		"type":          typ,
	}
}

func TestLoad(t *testing.T) {
	q := &fakeQuerier{
		keyspaces: []map[string]types.GoValue{
			{"keyspace_name": "demo"},
			{"keyspace_name": "empty_ks"},
		},
		columns: []map[string]types.GoValue{
			colRow("demo", "users", "name", 0, "regular", "text"),
			colRow("demo", "users", "id", 0, "partition_key", "uuid"),
			colRow("demo", "users", "tags", 0, "regular", "set<text>"),
		},
	}

	snap, err := Load(context.Background(), q, "demo", NewTypeParser(), nil)
	require.NoError(t, err)

	dt, found, err := snap.Resolve("users", "tags")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "set<text>", dt.String())

	cols, err := snap.Columns("demo", "users")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "tags"}, cols)

	// a keyspace with no tables is present, not missing
	tables, err := snap.Tables("empty_ks")
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestLoadSkipsBadEntries(t *testing.T) {
	q := &fakeQuerier{
		keyspaces: []map[string]types.GoValue{{"keyspace_name": "demo"}},
		columns: []map[string]types.GoValue{
			colRow("demo", "users", "id", 0, "partition_key", "uuid"),
			colRow("demo", "users", "", 0, "regular", "text"),
			colRow("demo", "users", "weird", 0, "regular", "sometype"),
			{"keyspace_name": "demo"}, // missing fields entirely
		},
	}

	snap, err := Load(context.Background(), q, "demo", NewTypeParser(), nil)
	require.NoError(t, err)

	cols, err := snap.Columns("demo", "users")
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, cols)
}

func TestLoadDriverFailure(t *testing.T) {
	q := &fakeQuerier{err: assert.AnError}

	_, err := Load(context.Background(), q, "demo", NewTypeParser(), nil)
	var driverErr *types.DriverError
	require.ErrorAs(t, err, &driverErr)
}
