package ambient

import (
	"strings"

	"github.com/dmitrymomot/ambient/pkg/sanitizer"
	"github.com/dmitrymomot/ambient/pkg/value"
)

// Source names a request data source.
type Source string

// Canonical source names. Cookie is not canonical: it is registered by
// FromRequest through WithSource like any other host extension.
const (
	Env     Source = "ENV"
	Get     Source = "GET"
	Post    Source = "POST"
	Request Source = "REQUEST"
	Server  Source = "SERVER"
	Cookie  Source = "COOKIE"
)

// ResolveName normalises a source name: it is upper-cased and a single
// leading underscore is dropped, so "get", "GET" and "_GET" all resolve to Get.
func ResolveName(name string) Source {
	name = strings.ToUpper(strings.TrimSpace(name))
	return Source(strings.TrimPrefix(name, "_"))
}

// Snapshot holds the source maps of one logical request.
// It is read-only after New returns and safe for concurrent use; Raw and
// Sanitized hand out copies.
// A nil *Snapshot behaves like a snapshot without sources.
type Snapshot struct {
	sources   map[Source]value.Map
	sanitizer *sanitizer.Sanitizer
}

// Option configures a Snapshot.
type Option func(*Snapshot)

// WithEnv sets the ENV source.
func WithEnv(m value.Map) Option { return WithSource(string(Env), m) }

// WithQuery sets the GET source.
func WithQuery(m value.Map) Option { return WithSource(string(Get), m) }

// WithForm sets the POST source.
func WithForm(m value.Map) Option { return WithSource(string(Post), m) }

// WithRequest sets the combined REQUEST source.
func WithRequest(m value.Map) Option { return WithSource(string(Request), m) }

// WithServer sets the SERVER source.
func WithServer(m value.Map) Option { return WithSource(string(Server), m) }

// WithSource registers m under name. Names are resolved with ResolveName, so
// hosts can add sources such as "COOKIE" that Raw and Sanitized will find.
// The map is stored as is; callers must not mutate it afterwards.
func WithSource(name string, m value.Map) Option {
	return func(s *Snapshot) {
		src := ResolveName(name)
		if src == "" {
			return
		}
		s.sources[src] = m
	}
}

// WithSanitizer replaces the sanitizer used by lookups. Nil is ignored.
func WithSanitizer(san *sanitizer.Sanitizer) Option {
	return func(s *Snapshot) {
		if san != nil {
			s.sanitizer = san
		}
	}
}

// New builds a Snapshot from options.
func New(opts ...Option) *Snapshot {
	s := &Snapshot{
		sources:   make(map[Source]value.Map),
		sanitizer: sanitizer.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sources lists the registered source names.
func (s *Snapshot) Sources() []Source {
	if s == nil {
		return nil
	}
	out := make([]Source, 0, len(s.sources))
	for name := range s.sources {
		out = append(out, name)
	}
	return out
}

func (s *Snapshot) source(name Source) value.Map {
	if s == nil {
		return nil
	}
	return s.sources[name]
}

func (s *Snapshot) san() *sanitizer.Sanitizer {
	if s == nil {
		return nil
	}
	return s.sanitizer
}

// nonEmpty returns the named maps in order, skipping absent and empty ones.
func (s *Snapshot) nonEmpty(names ...Source) []value.Map {
	out := make([]value.Map, 0, len(names))
	for _, name := range names {
		if m := s.source(name); len(m) > 0 {
			out = append(out, m)
		}
	}
	return out
}
