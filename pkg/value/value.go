package value

import (
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	// KindNull is the zero Kind. It marks absent or discarded data.
	KindNull Kind = iota
	KindBool
	KindString
	KindInt
	KindFloat
	KindList
	KindMap
	// KindInvalid marks a numeric value that failed revalidation.
	KindInvalid
	// KindOther wraps a host value of a type the sanitizer does not know.
	KindOther
)

var kindNames = [...]string{
	KindNull:    "null",
	KindBool:    "bool",
	KindString:  "string",
	KindInt:     "int",
	KindFloat:   "float",
	KindList:    "list",
	KindMap:     "map",
	KindInvalid: "invalid",
	KindOther:   "other",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Map is a single source of ambient data keyed by name.
type Map map[string]Value

// Value is a closed variant over the shapes request data can take.
// The zero Value is Null.
type Value struct {
	kind  Kind
	b     bool
	s     string
	i     int64
	f     float64
	list  []Value
	m     Map
	other any
}

func Null() Value { return Value{} }
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }
func String(s string) Value { return Value{kind: KindString, s: s} }
func Int(i int64) Value { return Value{kind: KindInt, i: i} }
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }
func List(items ...Value) Value { return Value{kind: KindList, list: items} }

// Invalid returns the sentinel produced when numeric revalidation fails.
// It is falsy and distinct from Null, Bool(false) and Int(0).
func Invalid() Value { return Value{kind: KindInvalid} }

// FromMap wraps m as a Map value. A nil m yields an empty map value.
func FromMap(m Map) Value {
	if m == nil {
		m = Map{}
	}
	return Value{kind: KindMap, m: m}
}

// Other wraps an arbitrary host value. Raw lookups return it verbatim,
// sanitization discards it.
func Other(v any) Value { return Value{kind: KindOther, other: v} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }
func (v Value) IsInvalid() bool { return v.kind == KindInvalid }

// IsContainer reports whether v is a list or a map.
func (v Value) IsContainer() bool { return v.kind == KindList || v.kind == KindMap }

// Bool returns the boolean payload and whether v is a bool.
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// Str returns the string payload and whether v is a string.
func (v Value) Str() (string, bool) { return v.s, v.kind == KindString }

// Int returns the integer payload and whether v is an int.
func (v Value) Int() (int64, bool) { return v.i, v.kind == KindInt }

// Float returns the float payload and whether v is a float.
func (v Value) Float() (float64, bool) { return v.f, v.kind == KindFloat }

// List returns the list items and whether v is a list.
// The returned slice is shared with v.
func (v Value) List() ([]Value, bool) { return v.list, v.kind == KindList }

// Map returns the map payload and whether v is a map.
// The returned map is shared with v.
func (v Value) Map() (Map, bool) { return v.m, v.kind == KindMap }

// OtherValue returns the wrapped host value of an Other.
func (v Value) OtherValue() (any, bool) { return v.other, v.kind == KindOther }

// Len returns the number of elements in a container, or 0.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindMap:
		return len(v.m)
	default:
		return 0
	}
}

// Truthy follows request-variable falsiness: null, invalid, false, 0, 0.0,
// "", "0" and empty containers are falsy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindString:
		return v.s != "" && v.s != "0"
	case KindInt:
		return v.i != 0
	case KindFloat:
		return v.f != 0
	case KindList, KindMap:
		return v.Len() > 0
	case KindOther:
		return v.other != nil
	default:
		return false
	}
}

// String renders scalars the way they would appear in a query string.
// Containers render as their kind name.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		if v.b {
			return "1"
		}
		return ""
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindNull, KindInvalid:
		return ""
	default:
		return v.kind.String()
	}
}

// Interface converts v back into plain Go data: nil, bool, string, int64,
// float64, []any or map[string]any. Invalid converts to false.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindString:
		return v.s
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Interface()
		}
		return out
	case KindMap:
		return v.m.Interface()
	case KindInvalid:
		return false
	case KindOther:
		return v.other
	default:
		return nil
	}
}

// Clone returns a deep copy of m. Containers are copied; Other payloads are
// shared.
func (m Map) Clone() Map {
	if m == nil {
		return nil
	}
	out := make(Map, len(m))
	for k, item := range m {
		out[k] = item.Clone()
	}
	return out
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindList:
		if v.list == nil {
			return v
		}
		items := make([]Value, len(v.list))
		for i, item := range v.list {
			items[i] = item.Clone()
		}
		return List(items...)
	case KindMap:
		return FromMap(v.m.Clone())
	default:
		return v
	}
}

// Interface converts m into a map[string]any.
func (m Map) Interface() map[string]any {
	out := make(map[string]any, len(m))
	for k, item := range m {
		out[k] = item.Interface()
	}
	return out
}
