// Package statement synthesizes parameterized CQL statements from
// higher-level operations: upserts from key/value pair lists, generic queries
// with positional or record-sourced bindings, and prepared-statement binds.
// Construction-time failures always happen before anything reaches the wire.
package statement

import (
	"github.com/casskit/casskit/types"
)

// Statement is a composed query string plus its ordered parameter bindings.
// Ownership transfers to the executor once built; the builder never reuses
// one.
type Statement struct {
	Query string
	// Values are the bound positional parameters, already coerced to
	// driver-bindable Go values.
	Values []any
	// Names records the column behind each positional parameter, for
	// diagnostics. Empty for statements built without schema resolution.
	Names []types.ColumnName
	// Consistency overrides the session default when non-nil.
	Consistency *types.Consistency
}

// NumParams returns the number of bound positional parameters.
func (s *Statement) NumParams() int {
	return len(s.Values)
}

// NewSimple wraps a raw query with no bound parameters, as used by the
// select path where the caller supplies a complete statement.
func NewSimple(query string, consistency *types.Consistency) *Statement {
	return &Statement{Query: query, Consistency: consistency}
}

// Prepared is a handle for a query template whose parameters are bound by
// name against a table's schema. The table supplies type resolution for the
// name/value pairs given at bind time.
type Prepared struct {
	Query string
	Table string
}

// NewPrepared registers a query template against the table used to resolve
// its binding types.
func NewPrepared(qualifiedTable, query string) *Prepared {
	return &Prepared{Query: query, Table: qualifiedTable}
}
