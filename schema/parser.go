package schema

import (
	"fmt"
	"strings"

	"github.com/casskit/casskit/types"
	lru "github.com/hashicorp/golang-lru"
)

// parseCacheSize bounds the validator-string cache. Type strings repeat
// heavily across columns so even a small cache hits almost always.
const parseCacheSize = 512

// TypeParser converts stored column type strings into CqlDataType values.
// Results are cached by the raw input string. A parser is constructed once
// per session and passed explicitly to whatever needs it.
type TypeParser struct {
	cache *lru.Cache
}

func NewTypeParser() *TypeParser {
	// lru.New only fails for a non-positive size
	cache, _ := lru.New(parseCacheSize)
	return &TypeParser{cache: cache}
}

// Parse resolves a column type string, consulting the cache first. Both CQL
// names ("map<text, int>") and legacy marshal class signatures
// ("org.apache.cassandra.db.marshal.UTF8Type") are accepted.
func (p *TypeParser) Parse(input string) (types.CqlDataType, error) {
	if cached, ok := p.cache.Get(input); ok {
		return cached.(types.CqlDataType), nil
	}
	parsed, err := ParseCqlTypeString(input)
	if err != nil {
		return nil, err
	}
	p.cache.Add(input, parsed)
	return parsed, nil
}

var scalarsByName = map[string]types.CqlDataType{
	"ascii":     types.TypeAscii,
	"bigint":    types.TypeBigint,
	"blob":      types.TypeBlob,
	"boolean":   types.TypeBoolean,
	"counter":   types.TypeCounter,
	"date":      types.TypeDate,
	"decimal":   types.TypeDecimal,
	"double":    types.TypeDouble,
	"float":     types.TypeFloat,
	"inet":      types.TypeInet,
	"int":       types.TypeInt,
	"smallint":  types.TypeSmallint,
	"text":      types.TypeText,
	"time":      types.TypeTime,
	"timestamp": types.TypeTimestamp,
	"timeuuid":  types.TypeTimeuuid,
	"tinyint":   types.TypeTinyint,
	"uuid":      types.TypeUuid,
	"varchar":   types.TypeVarchar,
	"varint":    types.TypeVarint,
}

// marshal class names as stored in pre-3.x schema validator columns.
var scalarsByMarshalClass = map[string]types.CqlDataType{
	"AsciiType":         types.TypeAscii,
	"LongType":          types.TypeBigint,
	"BytesType":         types.TypeBlob,
	"BooleanType":       types.TypeBoolean,
	"CounterColumnType": types.TypeCounter,
	"SimpleDateType":    types.TypeDate,
	"DecimalType":       types.TypeDecimal,
	"DoubleType":        types.TypeDouble,
	"FloatType":         types.TypeFloat,
	"InetAddressType":   types.TypeInet,
	"Int32Type":         types.TypeInt,
	"ShortType":         types.TypeSmallint,
	"UTF8Type":          types.TypeText,
	"TimeType":          types.TypeTime,
	"TimestampType":     types.TypeTimestamp,
	"DateType":          types.TypeTimestamp,
	"TimeUUIDType":      types.TypeTimeuuid,
	"ByteType":          types.TypeTinyint,
	"UUIDType":          types.TypeUuid,
	"IntegerType":       types.TypeVarint,
}

// ParseCqlTypeString converts a string representation of a Cassandra column
// type into a CqlDataType. It recognizes all CQL scalar types plus list<T>,
// set<T>, map<K,V> and frozen<...> wrappers.
func ParseCqlTypeString(input string) (types.CqlDataType, error) {
	trimmed := strings.ReplaceAll(input, " ", "")
	if trimmed == "" {
		return nil, fmt.Errorf("empty type string")
	}
	if strings.Contains(trimmed, "marshal.") {
		return parseMarshalClass(trimmed)
	}
	return parseCqlName(strings.ToLower(trimmed))
}

func parseCqlName(input string) (types.CqlDataType, error) {
	name, args, err := splitGeneric(input, "<", ">")
	if err != nil {
		return nil, err
	}
	if args == nil {
		scalar, ok := scalarsByName[name]
		if !ok {
			return nil, fmt.Errorf("unknown data type name: '%s'", name)
		}
		return scalar, nil
	}
	return buildComposite(name, args, parseCqlName)
}

func parseMarshalClass(input string) (types.CqlDataType, error) {
	name, args, err := splitGeneric(input, "(", ")")
	if err != nil {
		return nil, err
	}
	// strip the org.apache.cassandra.db.marshal. prefix
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	if args == nil {
		scalar, ok := scalarsByMarshalClass[name]
		if !ok {
			return nil, fmt.Errorf("unknown validator class: '%s'", name)
		}
		return scalar, nil
	}
	switch name {
	case "ListType":
		name = "list"
	case "SetType":
		name = "set"
	case "MapType":
		name = "map"
	case "FrozenType":
		name = "frozen"
	case "ReversedType":
		// reversed clustering order does not change the value type
		if len(args) != 1 {
			return nil, fmt.Errorf("ReversedType expects one argument in '%s'", input)
		}
		return parseMarshalClass(args[0])
	default:
		return nil, fmt.Errorf("unknown composite validator class: '%s'", name)
	}
	return buildComposite(name, args, parseMarshalClass)
}

func buildComposite(name string, args []string, parseInner func(string) (types.CqlDataType, error)) (types.CqlDataType, error) {
	switch name {
	case "frozen":
		if len(args) != 1 {
			return nil, fmt.Errorf("frozen expects exactly one type but found %d", len(args))
		}
		inner, err := parseInner(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to extract type for 'frozen<%s>': %w", args[0], err)
		}
		if !inner.IsCollection() {
			return nil, fmt.Errorf("frozen types must be a collection: '%s'", args[0])
		}
		return types.NewFrozenType(inner), nil
	case "list", "set":
		if len(args) != 1 {
			return nil, fmt.Errorf("%s expects exactly one type but found %d", name, len(args))
		}
		inner, err := parseInner(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to extract type for '%s<%s>': %w", name, args[0], err)
		}
		if inner.IsCollection() && inner.Code() != types.FROZEN {
			return nil, fmt.Errorf("%ss cannot contain collections unless they are frozen", name)
		}
		if name == "list" {
			return types.NewListType(inner), nil
		}
		return types.NewSetType(inner), nil
	case "map":
		if len(args) != 2 {
			return nil, fmt.Errorf("map expects exactly two types but found %d", len(args))
		}
		keyType, err := parseInner(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to extract key type for 'map': %w", err)
		}
		if keyType.IsCollection() {
			return nil, fmt.Errorf("map key types must be scalar")
		}
		valueType, err := parseInner(args[1])
		if err != nil {
			return nil, fmt.Errorf("failed to extract value type for 'map': %w", err)
		}
		if valueType.IsCollection() && valueType.Code() != types.FROZEN {
			return nil, fmt.Errorf("map values cannot be collections unless they are frozen")
		}
		return types.NewMapType(keyType, valueType), nil
	default:
		return nil, fmt.Errorf("unknown composite type: '%s'", name)
	}
}

// splitGeneric splits "name<a,b>" (or "name(a,b)") into the base name and its
// type arguments, honoring nesting. args is nil when there is no argument
// list at all.
func splitGeneric(input, open, close string) (string, []string, error) {
	start := strings.Index(input, open)
	if start < 0 {
		if strings.Contains(input, close) || strings.Contains(input, ",") {
			return "", nil, fmt.Errorf("malformed type string: '%s'", input)
		}
		return input, nil, nil
	}
	if !strings.HasSuffix(input, close) {
		return "", nil, fmt.Errorf("missing closing type bracket in: '%s'", input)
	}
	name := input[:start]
	body := input[start+1 : len(input)-1]
	if body == "" {
		return "", nil, fmt.Errorf("empty type definition in '%s'", input)
	}

	var args []string
	depth := 0
	last := 0
	for i := 0; i < len(body); i++ {
		switch string(body[i]) {
		case open:
			depth++
		case close:
			depth--
			if depth < 0 {
				return "", nil, fmt.Errorf("unbalanced type brackets in: '%s'", input)
			}
		case ",":
			if depth == 0 {
				args = append(args, body[last:i])
				last = i + 1
			}
		}
	}
	if depth != 0 {
		return "", nil, fmt.Errorf("unbalanced type brackets in: '%s'", input)
	}
	args = append(args, body[last:])
	return name, args, nil
}
