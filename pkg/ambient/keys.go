package ambient

import (
	"net/url"
	"slices"
	"strings"

	"github.com/dmitrymomot/ambient/pkg/value"
)

// splitKey breaks a form field name such as "user[address][city]" or
// "tags[]" into path segments. Names without a well-formed bracket suffix
// are returned as a single segment.
func splitKey(name string) []string {
	open := strings.IndexByte(name, '[')
	if open <= 0 || !strings.HasSuffix(name, "]") {
		return []string{name}
	}

	path := []string{name[:open]}
	rest := name[open:]
	for rest != "" {
		if rest[0] != '[' {
			return []string{name}
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return []string{name}
		}
		path = append(path, rest[1:end])
		rest = rest[end+1:]
	}
	return path
}

// buildMap converts form-style values into a source map. Field names are
// visited in sorted order so repeated builds produce the same structure.
// Plain repeated names keep the last value; bracketed names are nested
// when nested is true.
func buildMap(vals url.Values, nested bool) value.Map {
	out := make(value.Map, len(vals))

	names := make([]string, 0, len(vals))
	for name := range vals {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		vs := vals[name]
		if len(vs) == 0 {
			continue
		}
		path := []string{name}
		if nested {
			path = splitKey(name)
		}
		if len(path) == 1 {
			out[name] = value.String(vs[len(vs)-1])
			continue
		}
		for _, v := range vs {
			out.Insert(path, value.String(v))
		}
	}

	return out
}
