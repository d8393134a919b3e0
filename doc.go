// Package casskit builds CQL statements from loosely typed host values and
// runs paginated selects against a Cassandra cluster.
//
// The core is schema-driven: a read-only Snapshot of keyspace, table and
// column metadata is loaded from system_schema, and statement builders
// resolve each bound column's declared CQL type against it to coerce host
// values to driver-bindable Go values. Selects run page at a time through an
// opaque paging token, feeding rows to a caller handler that can continue,
// skip the rest, or abort.
//
// Session is the high-level entry point; the statement, schema, executor and
// driver packages are usable on their own for callers that manage their own
// snapshots or connections.
package casskit
