package sanitizer

import (
	"github.com/dmitrymomot/ambient/pkg/value"
)

// Sanitizer applies the per-kind rules of Deep. The zero value is not usable;
// build one with New.
type Sanitizer struct {
	str    func(string) string
	ints   Bounds[int64]
	floats Bounds[float64]
}

// Option configures a Sanitizer.
type Option func(*Sanitizer)

// WithStringTransforms runs transforms on every string before HTML escaping.
// Nil transforms are ignored.
func WithStringTransforms(transforms ...func(string) string) Option {
	return func(s *Sanitizer) {
		clean := make([]func(string) string, 0, len(transforms)+1)
		for _, t := range transforms {
			if t != nil {
				clean = append(clean, t)
			}
		}
		s.str = Compose(append(clean, EscapeHTML)...)
	}
}

// WithIntRange rejects integers outside [min, max]; rejected values become Invalid.
func WithIntRange(min, max int64) Option {
	return func(s *Sanitizer) { s.ints = Range(min, max) }
}

// WithFloatRange rejects floats outside [min, max]; rejected values become Invalid.
func WithFloatRange(min, max float64) Option {
	return func(s *Sanitizer) { s.floats = Range(min, max) }
}

// New creates a Sanitizer. Without options it only escapes strings and
// revalidates numbers.
func New(opts ...Option) *Sanitizer {
	s := &Sanitizer{str: EscapeHTML}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultSanitizer = New()

// Deep sanitizes v with the default Sanitizer.
func Deep(v value.Value) value.Value {
	return defaultSanitizer.Deep(v)
}

// Deep returns a sanitized copy of v:
//
//   - bools are returned unchanged
//   - strings are HTML-escaped
//   - ints and floats are revalidated; failures become value.Invalid
//   - lists and maps are copied with every element sanitized
//   - anything else becomes value.Null
//
// The input is never modified and Deep never panics.
func (s *Sanitizer) Deep(v value.Value) value.Value {
	if s == nil {
		s = defaultSanitizer
	}

	switch v.Kind() {
	case value.KindBool:
		return v

	case value.KindString:
		str, _ := v.Str()
		return value.String(s.str(str))

	case value.KindInt:
		i, _ := v.Int()
		n, ok := ValidateInt(i, s.ints)
		if !ok {
			return value.Invalid()
		}
		return value.Int(n)

	case value.KindFloat:
		f, _ := v.Float()
		n, ok := ValidateFloat(f, s.floats)
		if !ok {
			return value.Invalid()
		}
		return value.Float(n)

	case value.KindList:
		items, _ := v.List()
		out := make([]value.Value, len(items))
		for i, item := range items {
			out[i] = s.Deep(item)
		}
		return value.List(out...)

	case value.KindMap:
		m, _ := v.Map()
		return value.FromMap(s.Map(m))

	default:
		return value.Null()
	}
}

// Map returns a sanitized copy of m. A nil m yields an empty map.
func (s *Sanitizer) Map(m value.Map) value.Map {
	if s == nil {
		s = defaultSanitizer
	}
	out := make(value.Map, len(m))
	for k, item := range m {
		out[k] = s.Deep(item)
	}
	return out
}

// Map sanitizes m with the default Sanitizer.
func Map(m value.Map) value.Map {
	return defaultSanitizer.Map(m)
}
