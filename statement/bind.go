package statement

import (
	"fmt"
	"math/big"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/casskit/casskit/types"
	"github.com/google/uuid"
	inf "gopkg.in/inf.v0"
)

// bindValue coerces a host value to a driver-bindable Go value for the given
// resolved CQL type. Collection types are built element by element; the
// first bad element fails the whole binding with nothing partially bound.
func bindValue(column types.ColumnName, dt types.CqlDataType, value any) (any, error) {
	switch t := dt.(type) {
	case *types.FrozenType:
		return bindValue(column, t.InnerType(), value)
	case *types.ListType:
		return bindSlice(column, t.ElementType(), dt, value)
	case *types.SetType:
		return bindSlice(column, t.ElementType(), dt, value)
	case *types.MapType:
		return bindMap(column, t, value)
	default:
		return coerceScalar(column, dt, value)
	}
}

// bindSlice builds the wire collection for a list or set column from the
// host value's flattened element sequence. Elements go back through bindValue
// so frozen nested collections build recursively.
func bindSlice(column types.ColumnName, elem types.CqlDataType, dt types.CqlDataType, value any) (any, error) {
	elements, err := flattenElements(value)
	if err != nil {
		return nil, conversionError(column, dt, value, err)
	}
	out := make([]any, 0, len(elements))
	for _, e := range elements {
		coerced, err := bindValue(column, elem, e)
		if err != nil {
			return nil, err
		}
		out = append(out, coerced)
	}
	return out, nil
}

// coerceMapKey coerces a map key and rewrites coercions that produce slice
// values into hashable forms. gocql binds the string form for inet and blob
// columns, so nothing is lost at the driver boundary.
func coerceMapKey(column types.ColumnName, dt types.CqlDataType, value any) (any, error) {
	coerced, err := coerceScalar(column, dt, value)
	if err != nil {
		return nil, err
	}
	switch k := coerced.(type) {
	case net.IP:
		return k.String(), nil
	case []byte:
		return string(k), nil
	}
	return coerced, nil
}

// bindMap builds a map collection. The host value is either a Go map or a
// flattened sequence of alternating key, value elements.
func bindMap(column types.ColumnName, mt *types.MapType, value any) (any, error) {
	out := make(map[any]any)

	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			ck, err := coerceMapKey(column, mt.KeyType(), key)
			if err != nil {
				return nil, err
			}
			cv, err := bindValue(column, mt.ValueType(), val)
			if err != nil {
				return nil, err
			}
			out[ck] = cv
		}
		return out, nil
	case map[any]any:
		for key, val := range v {
			ck, err := coerceMapKey(column, mt.KeyType(), key)
			if err != nil {
				return nil, err
			}
			cv, err := bindValue(column, mt.ValueType(), val)
			if err != nil {
				return nil, err
			}
			out[ck] = cv
		}
		return out, nil
	}

	elements, err := flattenElements(value)
	if err != nil {
		return nil, conversionError(column, mt, value, err)
	}
	if len(elements)%2 != 0 {
		return nil, conversionError(column, mt, value, fmt.Errorf("map value must contain an even number of elements"))
	}
	for i := 0; i < len(elements); i += 2 {
		ck, err := coerceMapKey(column, mt.KeyType(), elements[i])
		if err != nil {
			return nil, err
		}
		cv, err := bindValue(column, mt.ValueType(), elements[i+1])
		if err != nil {
			return nil, err
		}
		out[ck] = cv
	}
	return out, nil
}

func flattenElements(value any) ([]any, error) {
	switch v := value.(type) {
	case []any:
		return v, nil
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, nil
	case string:
		// scripting callers pass whitespace-separated element lists
		fields := strings.Fields(v)
		out := make([]any, len(fields))
		for i, f := range fields {
			out[i] = f
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list of elements but got %T", value)
	}
}

func conversionError(column types.ColumnName, dt types.CqlDataType, value any, cause error) *types.ConversionError {
	return &types.ConversionError{Column: column, Type: dt.String(), Value: value, Cause: cause}
}

// coerceScalar converts a single host value to the Go representation the
// driver binds for the scalar type. Strings are parsed; matching native
// types pass through.
func coerceScalar(column types.ColumnName, dt types.CqlDataType, value any) (any, error) {
	switch dt.Code() {
	case types.TEXT, types.VARCHAR, types.ASCII:
		switch v := value.(type) {
		case string:
			return v, nil
		case []byte:
			return string(v), nil
		default:
			return fmt.Sprint(v), nil
		}

	case types.BLOB:
		switch v := value.(type) {
		case []byte:
			return v, nil
		case string:
			return []byte(v), nil
		default:
			return nil, conversionError(column, dt, value, fmt.Errorf("expected bytes but got %T", value))
		}

	case types.BIGINT, types.COUNTER:
		return coerceInt(column, dt, value, 64)

	case types.INT:
		n, err := coerceInt(column, dt, value, 32)
		if err != nil {
			return nil, err
		}
		return int32(n.(int64)), nil

	case types.SMALLINT:
		n, err := coerceInt(column, dt, value, 16)
		if err != nil {
			return nil, err
		}
		return int16(n.(int64)), nil

	case types.TINYINT:
		n, err := coerceInt(column, dt, value, 8)
		if err != nil {
			return nil, err
		}
		return int8(n.(int64)), nil

	case types.VARINT:
		switch v := value.(type) {
		case *big.Int:
			return v, nil
		case int:
			return big.NewInt(int64(v)), nil
		case int64:
			return big.NewInt(v), nil
		case string:
			n, ok := new(big.Int).SetString(v, 10)
			if !ok {
				return nil, conversionError(column, dt, value, fmt.Errorf("invalid integer"))
			}
			return n, nil
		default:
			return nil, conversionError(column, dt, value, fmt.Errorf("expected integer but got %T", value))
		}

	case types.DECIMAL:
		switch v := value.(type) {
		case *inf.Dec:
			return v, nil
		case string:
			d, ok := new(inf.Dec).SetString(v)
			if !ok {
				return nil, conversionError(column, dt, value, fmt.Errorf("invalid decimal"))
			}
			return d, nil
		case float64:
			d, ok := new(inf.Dec).SetString(strconv.FormatFloat(v, 'f', -1, 64))
			if !ok {
				return nil, conversionError(column, dt, value, fmt.Errorf("invalid decimal"))
			}
			return d, nil
		default:
			return nil, conversionError(column, dt, value, fmt.Errorf("expected decimal but got %T", value))
		}

	case types.FLOAT:
		switch v := value.(type) {
		case float32:
			return v, nil
		case float64:
			return float32(v), nil
		case int:
			return float32(v), nil
		case string:
			f, err := strconv.ParseFloat(v, 32)
			if err != nil {
				return nil, conversionError(column, dt, value, err)
			}
			return float32(f), nil
		default:
			return nil, conversionError(column, dt, value, fmt.Errorf("expected float but got %T", value))
		}

	case types.DOUBLE:
		switch v := value.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, conversionError(column, dt, value, err)
			}
			return f, nil
		default:
			return nil, conversionError(column, dt, value, fmt.Errorf("expected double but got %T", value))
		}

	case types.BOOLEAN:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, conversionError(column, dt, value, err)
			}
			return b, nil
		default:
			return nil, conversionError(column, dt, value, fmt.Errorf("expected boolean but got %T", value))
		}

	case types.UUID, types.TIMEUUID:
		switch v := value.(type) {
		case uuid.UUID:
			return v.String(), nil
		case [16]byte:
			return uuid.UUID(v).String(), nil
		case string:
			u, err := uuid.Parse(v)
			if err != nil {
				return nil, conversionError(column, dt, value, err)
			}
			return u.String(), nil
		default:
			return nil, conversionError(column, dt, value, fmt.Errorf("expected uuid but got %T", value))
		}

	case types.TIMESTAMP:
		switch v := value.(type) {
		case time.Time:
			return v, nil
		case int64:
			return time.UnixMilli(v).UTC(), nil
		case string:
			t, err := parseTimestamp(v)
			if err != nil {
				return nil, conversionError(column, dt, value, err)
			}
			return t, nil
		default:
			return nil, conversionError(column, dt, value, fmt.Errorf("expected timestamp but got %T", value))
		}

	case types.DATE:
		switch v := value.(type) {
		case time.Time:
			return v, nil
		case string:
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				return nil, conversionError(column, dt, value, err)
			}
			return t, nil
		default:
			return nil, conversionError(column, dt, value, fmt.Errorf("expected date but got %T", value))
		}

	case types.TIME:
		switch v := value.(type) {
		case time.Duration:
			return v, nil
		case string:
			t, err := time.Parse("15:04:05", v)
			if err != nil {
				return nil, conversionError(column, dt, value, err)
			}
			midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
			return t.Sub(midnight), nil
		default:
			return nil, conversionError(column, dt, value, fmt.Errorf("expected time but got %T", value))
		}

	case types.INET:
		switch v := value.(type) {
		case net.IP:
			return v, nil
		case string:
			ip := net.ParseIP(v)
			if ip == nil {
				return nil, conversionError(column, dt, value, fmt.Errorf("invalid ip address"))
			}
			return ip, nil
		default:
			return nil, conversionError(column, dt, value, fmt.Errorf("expected inet but got %T", value))
		}

	default:
		return nil, conversionError(column, dt, value, fmt.Errorf("unsupported CQL type"))
	}
}

func coerceInt(column types.ColumnName, dt types.CqlDataType, value any, bits int) (any, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case string:
		n, err := strconv.ParseInt(v, 10, bits)
		if err != nil {
			return nil, conversionError(column, dt, value, err)
		}
		return n, nil
	default:
		return nil, conversionError(column, dt, value, fmt.Errorf("expected integer but got %T", value))
	}
}

// parseTimestamp parses a timestamp string in the formats the select and
// upsert paths accept:
//
//	"2024-02-05T14:00:00Z"
//	"2024-02-05 14:00:00"
//	"2024/02/05 14:00:00"
//	"1672522562000"          // Unix epoch milliseconds
func parseTimestamp(timestampStr string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006/01/02 15:04:05",
	}

	var err error
	for _, layout := range layouts {
		var parsed time.Time
		parsed, err = time.Parse(layout, timestampStr)
		if err == nil {
			return parsed, nil
		}
	}

	if unixTime, numErr := strconv.ParseInt(timestampStr, 10, 64); numErr == nil {
		secs := unixTime / 1000
		nanos := (unixTime % 1000) * int64(time.Millisecond)
		return time.Unix(secs, nanos).UTC(), nil
	}

	return time.Time{}, err
}
