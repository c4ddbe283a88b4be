package ambient

import (
	"github.com/dmitrymomot/ambient/pkg/sanitizer"
	"github.com/dmitrymomot/ambient/pkg/value"
)

// Key addresses a value inside a source map. A single segment is a plain
// name; more segments walk into nested containers. Key{"bork"} and a bare
// "bork" are the same lookup.
type Key []string

// Path builds a Key from segments.
func Path(segments ...string) Key { return Key(segments) }

// Var looks key up in REQUEST, then POST, then GET and returns the first
// match, sanitized. When no source has the key def is returned unchanged.
func (s *Snapshot) Var(key Key, def value.Value) value.Value {
	return s.lookup(key, def, Request, Post, Get)
}

// QueryVar looks key up in GET only.
func (s *Snapshot) QueryVar(key Key, def value.Value) value.Value {
	return s.lookup(key, def, Get)
}

// FormVar looks key up in POST only.
func (s *Snapshot) FormVar(key Key, def value.Value) value.Value {
	return s.lookup(key, def, Post)
}

// ServerVar looks key up in SERVER only.
func (s *Snapshot) ServerVar(key Key, def value.Value) value.Value {
	return s.lookup(key, def, Server)
}

// SourceVar looks key up in the single source registered under name, such
// as REQUEST, ENV or COOKIE, with the same sanitizer as Var.
func (s *Snapshot) SourceVar(name string, key Key, def value.Value) value.Value {
	return s.lookup(key, def, ResolveName(name))
}

// Raw returns a copy of the source registered under name, unsanitized.
// Unknown names yield an empty, non-nil map.
func (s *Snapshot) Raw(name string) value.Map {
	if m := s.source(ResolveName(name)); m != nil {
		return m.Clone()
	}
	return value.Map{}
}

// Sanitized returns a sanitized copy of the source registered under name.
// Unknown names yield an empty map.
func (s *Snapshot) Sanitized(name string) value.Map {
	return s.san().Map(s.source(ResolveName(name)))
}

func (s *Snapshot) lookup(key Key, def value.Value, names ...Source) value.Value {
	return lookupInAny(s.nonEmpty(names...), key, def, s.san())
}

// LookupInAny searches sources in order and returns the sanitized value of
// the first one containing key. def is returned unchanged when none does.
func LookupInAny(sources []value.Map, key Key, def value.Value) value.Value {
	return lookupInAny(sources, key, def, nil)
}

func lookupInAny(sources []value.Map, key Key, def value.Value, san *sanitizer.Sanitizer) value.Value {
	if len(key) == 0 {
		return def
	}
	for _, src := range sources {
		if found, ok := src.Lookup(key...); ok {
			return san.Deep(found)
		}
	}
	return def
}

// SanitizeDeep sanitizes v with the default sanitizer.
func SanitizeDeep(v value.Value) value.Value {
	return sanitizer.Deep(v)
}
