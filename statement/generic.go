package statement

import (
	"github.com/casskit/casskit/schema"
	"github.com/casskit/casskit/types"
)

// BuildOptions selects one of the generic builder's binding modes:
//
//   - positional: Values holds alternating value, CQL-type-name elements
//     bound in order against the raw query;
//   - record-sourced: Record supplies values for RecordColumns, with types
//     resolved against Table;
//   - prepared: Prepared supplies the query template, Bindings the flat
//     name/value list resolved against the prepared table.
//
// The modes are mutually exclusive; mixing them is an ArgumentError at build
// time, never at execution time.
type BuildOptions struct {
	Values []any

	Table         string
	Record        map[string]types.GoValue
	RecordColumns []types.ColumnName

	Prepared *Prepared
	Bindings []any

	Consistency *types.Consistency
}

// Build composes a Statement from a raw query string and one binding mode.
func Build(snap *schema.Snapshot, query string, opts BuildOptions) (*Statement, error) {
	recordStyle := opts.Record != nil || opts.Table != "" || opts.RecordColumns != nil

	if opts.Prepared != nil {
		if recordStyle {
			return nil, types.NewArgumentError("a prepared statement cannot be combined with table or record options")
		}
		if query != "" {
			return nil, types.NewArgumentError("a prepared statement supplies its own query")
		}
		if len(opts.Values) > 0 {
			return nil, types.NewArgumentError("a prepared statement binds name/value pairs, not typed values")
		}
		return buildFromPrepared(snap, opts.Prepared, opts.Bindings, opts.Consistency)
	}

	if query == "" {
		return nil, types.NewArgumentError("a query is required unless a prepared statement is given")
	}

	if recordStyle {
		if opts.Table == "" {
			return nil, types.NewArgumentError("a table must be specified when binding from a record")
		}
		if opts.Record == nil {
			return nil, types.NewArgumentError("a record must be specified when a table is given")
		}
		if len(opts.Values) > 0 {
			return nil, types.NewArgumentError("typed values cannot be combined with record binding")
		}
		return buildFromRecord(snap, query, opts.Table, opts.Record, opts.RecordColumns, opts.Consistency)
	}

	return buildWithValues(query, opts.Values, opts.Consistency)
}

// buildWithValues binds alternating value, type-name pairs positionally.
func buildWithValues(query string, valueTypePairs []any, consistency *types.Consistency) (*Statement, error) {
	if len(valueTypePairs)%2 != 0 {
		return nil, types.NewArgumentError("values must be given as value/type pairs")
	}
	values := make([]any, 0, len(valueTypePairs)/2)
	for i := 0; i < len(valueTypePairs); i += 2 {
		typeName, ok := valueTypePairs[i+1].(string)
		if !ok {
			return nil, types.NewArgumentError("type name at pair %d must be a string, got %T", i/2, valueTypePairs[i+1])
		}
		dt, err := schema.ParseCqlTypeString(typeName)
		if err != nil {
			return nil, types.NewArgumentError("invalid type name %q: %v", typeName, err)
		}
		bound, err := bindValue("", dt, valueTypePairs[i])
		if err != nil {
			return nil, err
		}
		values = append(values, bound)
	}
	return &Statement{Query: query, Values: values, Consistency: consistency}, nil
}

// buildFromRecord binds the named columns positionally, sourcing each value
// from the record and its type from the table's schema.
func buildFromRecord(snap *schema.Snapshot, query, qualifiedTable string, record map[string]types.GoValue, columns []types.ColumnName, consistency *types.Consistency) (*Statement, error) {
	values := make([]any, 0, len(columns))
	names := make([]types.ColumnName, 0, len(columns))
	for _, column := range columns {
		dt, found, err := snap.Resolve(qualifiedTable, column)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, &types.UnknownColumnError{Table: qualifiedTable, Column: column}
		}
		hostValue, ok := record[string(column)]
		if !ok {
			return nil, types.NewArgumentError("record has no value for column '%s'", column)
		}
		bound, err := bindValue(column, dt, hostValue)
		if err != nil {
			return nil, err
		}
		values = append(values, bound)
		names = append(names, column)
	}
	return &Statement{Query: query, Values: values, Names: names, Consistency: consistency}, nil
}

// buildFromPrepared binds a flat name/value list against the prepared
// statement's table schema, in the order given.
func buildFromPrepared(snap *schema.Snapshot, prep *Prepared, bindings []any, consistency *types.Consistency) (*Statement, error) {
	if len(bindings)%2 != 0 {
		return nil, types.NewArgumentError("binding list must contain an even number of elements")
	}
	values := make([]any, 0, len(bindings)/2)
	names := make([]types.ColumnName, 0, len(bindings)/2)
	for i := 0; i < len(bindings); i += 2 {
		key, ok := bindings[i].(string)
		if !ok {
			return nil, types.NewArgumentError("binding name at pair %d must be a string, got %T", i/2, bindings[i])
		}
		column := types.ColumnName(key)
		dt, found, err := snap.Resolve(prep.Table, column)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, &types.UnknownColumnError{Table: prep.Table, Column: column}
		}
		bound, err := bindValue(column, dt, bindings[i+1])
		if err != nil {
			return nil, err
		}
		values = append(values, bound)
		names = append(names, column)
	}
	return &Statement{Query: prep.Query, Values: values, Names: names, Consistency: consistency}, nil
}
