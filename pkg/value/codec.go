package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedNode is returned when a YAML node cannot be mapped onto a Value.
var ErrUnsupportedNode = errors.New("value: unsupported yaml node")

// MarshalJSON encodes v as plain JSON. Invalid encodes as false and
// non-finite floats as null, since JSON has no representation for them.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindBool:
		return json.Marshal(v.b)
	case KindString:
		return json.Marshal(v.s)
	case KindInt:
		return []byte(strconv.FormatInt(v.i, 10)), nil
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.f)
	case KindList:
		items := v.list
		if items == nil {
			items = []Value{}
		}
		return json.Marshal(items)
	case KindMap:
		m := v.m
		if m == nil {
			m = Map{}
		}
		return json.Marshal(map[string]Value(m))
	case KindInvalid:
		return []byte("false"), nil
	case KindOther:
		b, err := json.Marshal(v.other)
		if err != nil {
			return []byte("null"), nil
		}
		return b, nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes any JSON document into v. Numbers without a
// fraction or exponent become Int when they fit, Float otherwise.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("value: decode json: %w", err)
	}

	*v = fromJSON(raw)
	return nil
}

func fromJSON(raw any) Value {
	switch x := raw.(type) {
	case json.Number:
		s := x.String()
		if !strings.ContainsAny(s, ".eE") {
			if i, err := strconv.ParseInt(s, 10, 64); err == nil {
				return Int(i)
			}
		}
		f, _ := strconv.ParseFloat(s, 64)
		return Float(f)
	case []any:
		items := make([]Value, len(x))
		for i, item := range x {
			items[i] = fromJSON(item)
		}
		return List(items...)
	case map[string]any:
		m := make(Map, len(x))
		for k, item := range x {
			m[k] = fromJSON(item)
		}
		return FromMap(m)
	default:
		return Of(x)
	}
}

// UnmarshalYAML maps YAML nodes onto Value kinds using the resolved tag,
// so `1` is an Int, `1.5` a Float, `"1"` a String and `~` Null.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	out, err := fromYAML(node)
	if err != nil {
		return err
	}
	*v = out
	return nil
}

func fromYAML(node *yaml.Node) (Value, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Null(), nil
		}
		return fromYAML(node.Content[0])

	case yaml.AliasNode:
		if node.Alias == nil {
			return Null(), nil
		}
		return fromYAML(node.Alias)

	case yaml.ScalarNode:
		return scalarFromYAML(node)

	case yaml.SequenceNode:
		items := make([]Value, 0, len(node.Content))
		for _, c := range node.Content {
			item, err := fromYAML(c)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return List(items...), nil

	case yaml.MappingNode:
		m := make(Map, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			item, err := fromYAML(node.Content[i+1])
			if err != nil {
				return Value{}, err
			}
			m[node.Content[i].Value] = item
		}
		return FromMap(m), nil
	}

	return Value{}, fmt.Errorf("%w: kind %d at line %d", ErrUnsupportedNode, node.Kind, node.Line)
}

func scalarFromYAML(node *yaml.Node) (Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return Value{}, fmt.Errorf("%w: %v", ErrUnsupportedNode, err)
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			var f float64
			if ferr := node.Decode(&f); ferr != nil {
				return Value{}, fmt.Errorf("%w: %v", ErrUnsupportedNode, err)
			}
			return Float(f), nil
		}
		return Int(i), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return Value{}, fmt.Errorf("%w: %v", ErrUnsupportedNode, err)
		}
		return Float(f), nil
	default:
		return String(node.Value), nil
	}
}
