package types

// Named string types to keep keyspace/table/column identifiers from being
// mixed up in signatures.
type (
	Keyspace   string
	TableName  string
	ColumnName string
)

// GoValue is any host-language value accepted by the binder or produced by
// row materialization.
type GoValue = any
