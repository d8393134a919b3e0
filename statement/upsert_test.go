package statement

import (
	"testing"

	"github.com/casskit/casskit/schema"
	"github.com/casskit/casskit/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *schema.Snapshot {
	users := schema.NewTableSchema("demo", "users", []*schema.Column{
		{Name: "id", Type: types.TypeUuid, Kind: "partition_key"},
		{Name: "name", Type: types.TypeText, Kind: "regular"},
		{Name: "age", Type: types.TypeInt, Kind: "regular"},
		{Name: "tags", Type: types.NewSetType(types.TypeText), Kind: "regular"},
		{Name: "extra", Type: types.NewMapType(types.TypeText, types.TypeText), Kind: "regular"},
	})
	return schema.NewSnapshot("demo", []*schema.TableSchema{users}, nil)
}

const testUUID = "9f2c7a60-1c1e-4c1a-9a3f-1b2d3e4f5a6b"

func TestBuildUpsert(t *testing.T) {
	snap := testSnapshot()

	stmt, err := BuildUpsert(snap, "demo.users", []any{
		"id", testUUID,
		"name", "alice",
	}, UpsertOptions{})
	require.NoError(t, err)

	assert.Equal(t, "INSERT INTO demo.users (id,name) VALUES (?,?)", stmt.Query)
	assert.Equal(t, 2, stmt.NumParams())
	assert.Equal(t, []types.ColumnName{"id", "name"}, stmt.Names)
	assert.Equal(t, testUUID, stmt.Values[0])
	assert.Equal(t, "alice", stmt.Values[1])
}

func TestBuildUpsertCoercesValues(t *testing.T) {
	snap := testSnapshot()

	stmt, err := BuildUpsert(snap, "users", []any{
		"age", "42",
		"tags", "a b c",
	}, UpsertOptions{})
	require.NoError(t, err)

	assert.Equal(t, int32(42), stmt.Values[0])
	assert.Equal(t, []any{"a", "b", "c"}, stmt.Values[1])
}

func TestBuildUpsertOddPairList(t *testing.T) {
	snap := testSnapshot()

	_, err := BuildUpsert(snap, "users", []any{"id", testUUID, "name"}, UpsertOptions{})
	var argErr *types.ArgumentError
	require.ErrorAs(t, err, &argErr)
}

func TestBuildUpsertUnknownColumn(t *testing.T) {
	snap := testSnapshot()
	pairs := []any{
		"id", testUUID,
		"nickname", "al",
	}

	t.Run("default is an error", func(t *testing.T) {
		_, err := BuildUpsert(snap, "users", pairs, UpsertOptions{})
		var unknownErr *types.UnknownColumnError
		require.ErrorAs(t, err, &unknownErr)
		assert.Equal(t, types.ColumnName("nickname"), unknownErr.Column)
	})

	t.Run("drop unknown", func(t *testing.T) {
		stmt, err := BuildUpsert(snap, "users", pairs, UpsertOptions{DropUnknown: true})
		require.NoError(t, err)
		assert.Equal(t, "INSERT INTO users (id) VALUES (?)", stmt.Query)
		assert.Equal(t, 1, stmt.NumParams())
	})

	t.Run("map unknown", func(t *testing.T) {
		stmt, err := BuildUpsert(snap, "users", pairs, UpsertOptions{MapUnknownTo: "extra"})
		require.NoError(t, err)
		assert.Equal(t, "INSERT INTO users (id,extra) VALUES (?,?)", stmt.Query)
		assert.Equal(t, map[any]any{"nickname": "al"}, stmt.Values[1])
	})

	t.Run("map wins over drop", func(t *testing.T) {
		stmt, err := BuildUpsert(snap, "users", pairs, UpsertOptions{
			MapUnknownTo: "extra",
			DropUnknown:  true,
		})
		require.NoError(t, err)
		assert.Equal(t, "INSERT INTO users (id,extra) VALUES (?,?)", stmt.Query)
	})
}

func TestBuildUpsertMapColumnIsLast(t *testing.T) {
	snap := testSnapshot()

	stmt, err := BuildUpsert(snap, "users", []any{
		"nickname", "al",
		"id", testUUID,
		"name", "alice",
	}, UpsertOptions{MapUnknownTo: "extra"})
	require.NoError(t, err)

	// recognized pairs keep first-seen order, the overflow map goes last
	assert.Equal(t, "INSERT INTO users (id,name,extra) VALUES (?,?,?)", stmt.Query)
	assert.Equal(t, []types.ColumnName{"id", "name", "extra"}, stmt.Names)
}

func TestBuildUpsertIfNotExists(t *testing.T) {
	snap := testSnapshot()

	stmt, err := BuildUpsert(snap, "users", []any{"id", testUUID}, UpsertOptions{IfNotExists: true})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO users (id) VALUES (?) IF NOT EXISTS", stmt.Query)
}

func TestBuildUpsertConversionFailure(t *testing.T) {
	snap := testSnapshot()

	_, err := BuildUpsert(snap, "users", []any{"age", "not a number"}, UpsertOptions{})
	var convErr *types.ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, types.ColumnName("age"), convErr.Column)
}

func TestBuildUpsertMissingTable(t *testing.T) {
	snap := testSnapshot()

	_, err := BuildUpsert(snap, "demo.orders", []any{"id", testUUID}, UpsertOptions{})
	var schemaErr *types.SchemaError
	require.ErrorAs(t, err, &schemaErr)
}

func TestBuildUpsertConsistencyOverride(t *testing.T) {
	snap := testSnapshot()
	quorum := types.LocalQuorum

	stmt, err := BuildUpsert(snap, "users", []any{"id", testUUID}, UpsertOptions{Consistency: &quorum})
	require.NoError(t, err)
	require.NotNil(t, stmt.Consistency)
	assert.Equal(t, types.LocalQuorum, *stmt.Consistency)
}
