package value

import (
	"net/url"
)

// Of converts plain Go data into a Value. Strings, bools, every integer and
// float width, nil, slices and string-keyed maps of those are recognised;
// anything else becomes Other.
func Of(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case Map:
		return FromMap(x)
	case bool:
		return Bool(x)
	case string:
		return String(x)
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint8:
		return Int(int64(x))
	case uint16:
		return Int(int64(x))
	case uint32:
		return Int(int64(x))
	case uint:
		return uintValue(uint64(x))
	case uint64:
		return uintValue(x)
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case []Value:
		return List(x...)
	case []any:
		items := make([]Value, len(x))
		for i, item := range x {
			items[i] = Of(item)
		}
		return List(items...)
	case []string:
		items := make([]Value, len(x))
		for i, item := range x {
			items[i] = String(item)
		}
		return List(items...)
	case map[string]any:
		return FromMap(MapOf(x))
	case map[string]string:
		m := make(Map, len(x))
		for k, item := range x {
			m[k] = String(item)
		}
		return FromMap(m)
	case url.Values:
		return FromMap(FromValues(x))
	default:
		return Other(v)
	}
}

// uint64 values above MaxInt64 do not fit the integer variant.
func uintValue(u uint64) Value {
	if u > 1<<63-1 {
		return Other(u)
	}
	return Int(int64(u))
}

// MapOf converts a map[string]any into a Map.
func MapOf(m map[string]any) Map {
	out := make(Map, len(m))
	for k, item := range m {
		out[k] = Of(item)
	}
	return out
}

// FromValues flattens url.Values into a Map of strings.
// The last value wins for repeated keys.
func FromValues(vals url.Values) Map {
	out := make(Map, len(vals))
	for k, vs := range vals {
		if len(vs) == 0 {
			continue
		}
		out[k] = String(vs[len(vs)-1])
	}
	return out
}
