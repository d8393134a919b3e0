package statement

import (
	"strings"

	"github.com/casskit/casskit/schema"
	"github.com/casskit/casskit/types"
)

// UpsertOptions controls how BuildUpsert treats its input.
type UpsertOptions struct {
	// MapUnknownTo names a map<text,text> column that collects every
	// key/value pair whose key is not a column of the table. When both
	// MapUnknownTo and DropUnknown are set, MapUnknownTo wins.
	MapUnknownTo types.ColumnName
	// DropUnknown silently excludes pairs whose key is not a column.
	DropUnknown bool
	// IfNotExists appends IF NOT EXISTS to the generated insert.
	IfNotExists bool
	// Consistency overrides the session default when non-nil.
	Consistency *types.Consistency
}

// BuildUpsert composes an INSERT for the table from a flat key/value pair
// list (Cassandra inserts overwrite, so this is an upsert). Each key is
// resolved against the schema snapshot; unknown columns follow the option
// policies. Column order in the statement is the first-seen order of
// recognized pairs, with the synthetic unknown-map column, if any, last.
func BuildUpsert(snap *schema.Snapshot, qualifiedTable string, pairs []any, opts UpsertOptions) (*Statement, error) {
	if len(pairs)%2 != 0 {
		return nil, types.NewArgumentError("key-value pair list must contain an even number of elements")
	}

	n := len(pairs) / 2
	names := make([]types.ColumnName, n)
	resolved := make([]types.CqlDataType, n)

	for i := 0; i < n; i++ {
		key, ok := pairs[2*i].(string)
		if !ok {
			return nil, types.NewArgumentError("key at pair %d must be a string, got %T", i, pairs[2*i])
		}
		names[i] = types.ColumnName(key)

		dt, found, err := snap.Resolve(qualifiedTable, names[i])
		if err != nil {
			return nil, err
		}
		if !found {
			// unresolved entries stay nil; the policies below decide
			// whether that is a drop, a deferred map entry, or an error
			if opts.MapUnknownTo != "" || opts.DropUnknown {
				continue
			}
			return nil, &types.UnknownColumnError{Table: qualifiedTable, Column: names[i]}
		}
		resolved[i] = dt
	}

	var cols []string
	var values []any
	var bound []types.ColumnName
	unknownCount := 0

	for i := 0; i < n; i++ {
		if resolved[i] == nil {
			if opts.MapUnknownTo != "" {
				unknownCount++
			}
			continue
		}
		value, err := bindValue(names[i], resolved[i], pairs[2*i+1])
		if err != nil {
			return nil, err
		}
		cols = append(cols, string(names[i]))
		values = append(values, value)
		bound = append(bound, names[i])
	}

	if unknownCount > 0 {
		overflow := make(map[any]any, unknownCount)
		for i := 0; i < n; i++ {
			if resolved[i] != nil {
				continue
			}
			key, err := coerceScalar(opts.MapUnknownTo, types.TypeText, string(names[i]))
			if err != nil {
				return nil, err
			}
			value, err := coerceScalar(opts.MapUnknownTo, types.TypeText, pairs[2*i+1])
			if err != nil {
				return nil, err
			}
			overflow[key] = value
		}
		cols = append(cols, string(opts.MapUnknownTo))
		values = append(values, overflow)
		bound = append(bound, opts.MapUnknownTo)
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(qualifiedTable)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(cols, ","))
	sb.WriteString(") VALUES (")
	for i := range cols {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("?")
	}
	if opts.IfNotExists {
		sb.WriteString(") IF NOT EXISTS")
	} else {
		sb.WriteString(")")
	}

	return &Statement{
		Query:       sb.String(),
		Values:      values,
		Names:       bound,
		Consistency: opts.Consistency,
	}, nil
}
