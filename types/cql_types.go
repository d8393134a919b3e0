package types

import (
	"fmt"

	"github.com/datastax/go-cassandra-native-protocol/datatype"
)

// CqlDataType describes a resolved CQL column type. Scalars are singletons;
// collection types carry their element/key/value types.
type CqlDataType interface {
	// String returns the canonical CQL string representation of the type.
	String() string

	DataType() datatype.DataType
	// isCqlDataType is an unexported marker method to ensure only types
	// from this package can implement the interface.
	isCqlDataType()

	IsCollection() bool
	Code() CqlTypeCode
}

func IsScalar(c CqlDataType) bool {
	return !c.IsCollection()
}

type CqlTypeCode int

// Enumeration of all Cassandra types the resolver can report.
const (
	// Scalars
	ASCII CqlTypeCode = iota
	VARCHAR
	BIGINT
	BLOB
	BOOLEAN
	COUNTER
	DATE
	DECIMAL
	DOUBLE
	FLOAT
	INET
	INT
	SMALLINT
	TEXT // Also used for VARCHAR
	TIME
	TIMESTAMP
	TIMEUUID
	TINYINT
	UUID
	VARINT
	// Collections
	LIST
	SET
	MAP
	// Other
	FROZEN
)

// ScalarType represents a primitive, single-value Cassandra type.
type ScalarType struct {
	code CqlTypeCode
	dt   datatype.DataType
	name string
}

func (s ScalarType) Code() CqlTypeCode {
	return s.code
}

func (s ScalarType) DataType() datatype.DataType {
	return s.dt
}

func (s ScalarType) isCqlDataType() {}

func (s ScalarType) String() string {
	return s.name
}

func (s ScalarType) IsCollection() bool {
	return false
}

// Pre-defined constants for common scalar types for convenience.
var (
	TypeAscii     CqlDataType = ScalarType{name: "ascii", code: ASCII, dt: datatype.Varchar}
	TypeVarchar   CqlDataType = ScalarType{name: "varchar", code: VARCHAR, dt: datatype.Varchar}
	TypeBigint    CqlDataType = ScalarType{name: "bigint", code: BIGINT, dt: datatype.Bigint}
	TypeBlob      CqlDataType = ScalarType{name: "blob", code: BLOB, dt: datatype.Blob}
	TypeBoolean   CqlDataType = ScalarType{name: "boolean", code: BOOLEAN, dt: datatype.Boolean}
	TypeCounter   CqlDataType = ScalarType{name: "counter", code: COUNTER, dt: datatype.Counter}
	TypeDate      CqlDataType = ScalarType{name: "date", code: DATE, dt: datatype.Date}
	TypeDecimal   CqlDataType = ScalarType{name: "decimal", code: DECIMAL, dt: datatype.Decimal}
	TypeDouble    CqlDataType = ScalarType{name: "double", code: DOUBLE, dt: datatype.Double}
	TypeFloat     CqlDataType = ScalarType{name: "float", code: FLOAT, dt: datatype.Float}
	TypeInet      CqlDataType = ScalarType{name: "inet", code: INET, dt: datatype.Inet}
	TypeInt       CqlDataType = ScalarType{name: "int", code: INT, dt: datatype.Int}
	TypeSmallint  CqlDataType = ScalarType{name: "smallint", code: SMALLINT, dt: datatype.Smallint}
	TypeText      CqlDataType = ScalarType{name: "text", code: TEXT, dt: datatype.Varchar}
	TypeTime      CqlDataType = ScalarType{name: "time", code: TIME, dt: datatype.Time}
	TypeTimestamp CqlDataType = ScalarType{name: "timestamp", code: TIMESTAMP, dt: datatype.Timestamp}
	TypeTimeuuid  CqlDataType = ScalarType{name: "timeuuid", code: TIMEUUID, dt: datatype.Timeuuid}
	TypeTinyint   CqlDataType = ScalarType{name: "tinyint", code: TINYINT, dt: datatype.Tinyint}
	TypeUuid      CqlDataType = ScalarType{name: "uuid", code: UUID, dt: datatype.Uuid}
	TypeVarint    CqlDataType = ScalarType{name: "varint", code: VARINT, dt: datatype.Varint}
)

type MapType struct {
	keyType   CqlDataType
	valueType CqlDataType
	dt        datatype.DataType
}

func NewMapType(keyType CqlDataType, valueType CqlDataType) *MapType {
	return &MapType{keyType: keyType, valueType: valueType, dt: datatype.NewMapType(keyType.DataType(), valueType.DataType())}
}

func (m MapType) Code() CqlTypeCode {
	return MAP
}

func (m MapType) KeyType() CqlDataType {
	return m.keyType
}

func (m MapType) ValueType() CqlDataType {
	return m.valueType
}

func (m MapType) DataType() datatype.DataType {
	return m.dt
}

func (m MapType) isCqlDataType() {}

func (m MapType) String() string {
	return fmt.Sprintf("map<%s, %s>", m.keyType.String(), m.valueType.String())
}

func (m MapType) IsCollection() bool {
	return true
}

// ListType represents a Cassandra list<elementType>.
type ListType struct {
	elementType CqlDataType
	dt          datatype.DataType
}

func NewListType(elementType CqlDataType) *ListType {
	return &ListType{elementType: elementType, dt: datatype.NewListType(elementType.DataType())}
}

func (l ListType) Code() CqlTypeCode {
	return LIST
}

func (l ListType) ElementType() CqlDataType {
	return l.elementType
}

func (l ListType) DataType() datatype.DataType {
	return l.dt
}

func (l ListType) isCqlDataType() {}

func (l ListType) String() string {
	return fmt.Sprintf("list<%s>", l.elementType.String())
}

func (l ListType) IsCollection() bool {
	return true
}

// SetType represents a Cassandra set<elementType>.
type SetType struct {
	elementType CqlDataType
	dt          datatype.DataType
}

func NewSetType(elementType CqlDataType) *SetType {
	return &SetType{elementType: elementType, dt: datatype.NewSetType(elementType.DataType())}
}

func (s SetType) Code() CqlTypeCode {
	return SET
}

func (s SetType) ElementType() CqlDataType {
	return s.elementType
}

func (s SetType) DataType() datatype.DataType {
	return s.dt
}

func (s SetType) isCqlDataType() {}

func (s SetType) String() string {
	return fmt.Sprintf("set<%s>", s.elementType.String())
}

func (s SetType) IsCollection() bool {
	return true
}

// FrozenType wraps a collection type declared frozen<...>. It resolves and
// binds like its inner type; the distinction only matters for DDL.
type FrozenType struct {
	innerType CqlDataType
}

func NewFrozenType(inner CqlDataType) *FrozenType {
	return &FrozenType{innerType: inner}
}

func (f FrozenType) Code() CqlTypeCode {
	return FROZEN
}

func (f FrozenType) InnerType() CqlDataType {
	return f.innerType
}

func (f FrozenType) IsCollection() bool {
	return false
}

func (f FrozenType) DataType() datatype.DataType {
	return f.innerType.DataType()
}

func (f FrozenType) isCqlDataType() {}

func (f FrozenType) String() string {
	return fmt.Sprintf("frozen<%s>", f.innerType.String())
}
