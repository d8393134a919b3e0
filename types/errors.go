package types

import "fmt"

// ArgumentError reports malformed caller input, such as an odd-length
// key/value pair list or conflicting statement options.
type ArgumentError struct {
	Msg string
}

func (e *ArgumentError) Error() string {
	return e.Msg
}

func NewArgumentError(format string, args ...any) *ArgumentError {
	return &ArgumentError{Msg: fmt.Sprintf(format, args...)}
}

// SchemaError reports a keyspace or table missing from schema metadata.
type SchemaError struct {
	Keyspace Keyspace
	Table    TableName
	Msg      string
}

func (e *SchemaError) Error() string {
	return e.Msg
}

func NewKeyspaceNotFoundError(ks Keyspace) *SchemaError {
	return &SchemaError{Keyspace: ks, Msg: fmt.Sprintf("keyspace '%s' not found", ks)}
}

func NewTableNotFoundError(ks Keyspace, table TableName) *SchemaError {
	return &SchemaError{Keyspace: ks, Table: table, Msg: fmt.Sprintf("table '%s' not found in keyspace '%s'", table, ks)}
}

// UnknownColumnError reports a column absent from the schema when no drop or
// map-unknown policy applies.
type UnknownColumnError struct {
	Table  string
	Column ColumnName
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column '%s' in upsert for table '%s'", e.Column, e.Table)
}

// ConversionError reports a host value that cannot be coerced to its target
// CQL type. It always names the column and the offending value.
type ConversionError struct {
	Column ColumnName
	Type   string
	Value  any
	Cause  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert value '%v' for column '%s' to %s: %v", e.Value, e.Column, e.Type, e.Cause)
}

func (e *ConversionError) Unwrap() error {
	return e.Cause
}

// DriverError wraps a failure reported by the underlying driver.
type DriverError struct {
	Op    string
	Cause error
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("driver error during %s: %v", e.Op, e.Cause)
}

func (e *DriverError) Unwrap() error {
	return e.Cause
}

// InternalError covers defensive cases that should not happen, such as a
// successful execution that produced no result object.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string {
	return e.Msg
}

func NewInternalError(format string, args ...any) *InternalError {
	return &InternalError{Msg: fmt.Sprintf(format, args...)}
}
