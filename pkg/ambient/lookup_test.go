package ambient_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/ambient/pkg/ambient"
	"github.com/dmitrymomot/ambient/pkg/sanitizer"
	"github.com/dmitrymomot/ambient/pkg/value"
)

const (
	dirty   = `<script>alert("hello");</script>`
	escaped = "&lt;script&gt;alert(&quot;hello&quot;);&lt;/script&gt;"
)

func str(s string) value.Value { return value.String(s) }

func obj(m value.Map) value.Value { return value.FromMap(m) }

func TestServerVar(t *testing.T) {
	t.Parallel()

	snap := ambient.New(ambient.WithServer(value.Map{"REQUEST_METHOD": str("GET")}))
	def := str("default")

	assert.Equal(t, str("GET"), snap.ServerVar(ambient.Key{"REQUEST_METHOD"}, def))
	assert.NotEqual(t, str("POST"), snap.ServerVar(ambient.Key{"REQUEST_METHOD"}, def))
	assert.Equal(t, def, snap.ServerVar(ambient.Key{"REQUEST_URI"}, def))
}

func TestVarFromRequest(t *testing.T) {
	t.Parallel()

	snap := ambient.New(ambient.WithRequest(value.Map{"bork": str("moo")}))
	def := str("default")

	assert.Equal(t, str("moo"), snap.Var(ambient.Key{"bork"}, def))
	assert.NotEqual(t, str("whee"), snap.Var(ambient.Key{"bork"}, def))
	assert.Equal(t, def, snap.Var(ambient.Key{"hello"}, def))
}

func TestVarFromQuery(t *testing.T) {
	t.Parallel()

	snap := ambient.New(
		ambient.WithRequest(value.Map{"bork": str("moo")}),
		ambient.WithQuery(value.Map{"bork": str("moo")}),
	)
	def := str("default")

	assert.Equal(t, str("moo"), snap.Var(ambient.Key{"bork"}, def))
	assert.Equal(t, str("moo"), snap.QueryVar(ambient.Key{"bork"}, def))
	assert.Equal(t, def, snap.Var(ambient.Key{"hello"}, def))
	assert.Equal(t, def, snap.QueryVar(ambient.Key{"hello"}, def))
}

func TestVarFromForm(t *testing.T) {
	t.Parallel()

	snap := ambient.New(
		ambient.WithQuery(value.Map{"bork": str("blarg")}),
		ambient.WithForm(value.Map{"bork": str("moo")}),
	)
	def := str("default")

	assert.Equal(t, str("moo"), snap.Var(ambient.Key{"bork"}, def))
	assert.Equal(t, str("moo"), snap.FormVar(ambient.Key{"bork"}, def))
	assert.Equal(t, str("blarg"), snap.QueryVar(ambient.Key{"bork"}, def))
	assert.Equal(t, def, snap.FormVar(ambient.Key{"hello"}, def))
}

func TestVarPriority(t *testing.T) {
	t.Parallel()

	get := value.Map{"bork": str("blarg"), "only_get": str("g"), "shared": str("get")}
	post := value.Map{"bork": str("yay"), "shared": str("post")}
	request := value.Map{"bork": str("moo")}

	snap := ambient.New(
		ambient.WithQuery(get),
		ambient.WithForm(post),
		ambient.WithRequest(request),
	)
	def := str("default")

	assert.Equal(t, str("moo"), snap.Var(ambient.Key{"bork"}, def), "REQUEST wins")
	assert.Equal(t, str("post"), snap.Var(ambient.Key{"shared"}, def), "POST beats GET")
	assert.Equal(t, str("g"), snap.Var(ambient.Key{"only_get"}, def), "GET is the fallback")
	assert.Equal(t, def, snap.Var(ambient.Key{"hello"}, def))
}

func TestVarSkipsEmptySources(t *testing.T) {
	t.Parallel()

	snap := ambient.New(
		ambient.WithRequest(value.Map{}),
		ambient.WithForm(nil),
		ambient.WithQuery(value.Map{"bork": str("blarg")}),
	)

	assert.Equal(t, str("blarg"), snap.Var(ambient.Key{"bork"}, value.Null()))
}

func TestNestedVar(t *testing.T) {
	t.Parallel()

	snap := ambient.New(ambient.WithRequest(value.Map{
		"bork": obj(value.Map{"word": str("moo")}),
	}))
	def := str("default")

	assert.Equal(t, str("moo"), snap.Var(ambient.Path("bork", "word"), def))
	assert.NotEqual(t, str("whee"), snap.Var(ambient.Path("bork", "word"), def))
	assert.Equal(t, def, snap.Var(ambient.Path("bork", "another"), def))
}

func TestNestedVarFallsThroughSources(t *testing.T) {
	t.Parallel()

	snap := ambient.New(
		ambient.WithRequest(value.Map{"bork": str("flat")}),
		ambient.WithForm(value.Map{"bork": obj(value.Map{"word": str("from post")})}),
	)

	assert.Equal(t, str("from post"), snap.Var(ambient.Path("bork", "word"), value.Null()),
		"a scalar on the path does not count as containing the key")
}

func TestSingleSegmentPathEqualsBareKey(t *testing.T) {
	t.Parallel()

	snap := ambient.New(ambient.WithQuery(value.Map{"bork": str("<moo>")}))

	assert.Equal(t, snap.QueryVar(ambient.Key{"bork"}, value.Null()), snap.QueryVar(ambient.Path("bork"), value.Null()))
	assert.Equal(t, str("&lt;moo&gt;"), snap.QueryVar(ambient.Path("bork"), value.Null()))
}

func TestEmptyKeyReturnsDefault(t *testing.T) {
	t.Parallel()

	snap := ambient.New(ambient.WithQuery(value.Map{"": str("empty name")}))
	def := str("default")

	assert.Equal(t, def, snap.QueryVar(nil, def))
	assert.Equal(t, def, snap.QueryVar(ambient.Key{}, def))
}

func TestDefaultIsNotSanitized(t *testing.T) {
	t.Parallel()

	snap := ambient.New()
	def := obj(value.Map{"raw": str(dirty), "nan": value.Float(math.NaN())})

	got := snap.Var(ambient.Key{"missing"}, def)

	raw, ok := got.Lookup("raw")
	require.True(t, ok)
	assert.Equal(t, str(dirty), raw)
	nan, ok := got.Lookup("nan")
	require.True(t, ok)
	f, _ := nan.Float()
	assert.True(t, math.IsNaN(f))
}

func TestSanitizeString(t *testing.T) {
	t.Parallel()

	snap := ambient.New(ambient.WithRequest(value.Map{"bork": str(dirty)}))
	def := str("default")

	assert.Equal(t, str(escaped), snap.Var(ambient.Key{"bork"}, def))
	assert.NotEqual(t, str(dirty), snap.Var(ambient.Key{"bork"}, def))
}

func TestSanitizeDeeply(t *testing.T) {
	t.Parallel()

	request := value.Map{
		"bork": obj(value.Map{
			"thing": obj(value.Map{"dirty": str(dirty)}),
		}),
	}
	snap := ambient.New(ambient.WithRequest(request))

	got := snap.Var(ambient.Key{"bork"}, str("default"))

	leaf, ok := got.Lookup("thing", "dirty")
	require.True(t, ok)
	assert.Equal(t, str(escaped), leaf)

	raw, ok := request.Lookup("bork", "thing", "dirty")
	require.True(t, ok)
	assert.Equal(t, str(dirty), raw, "source map must stay untouched")
}

func TestLookupKinds(t *testing.T) {
	t.Parallel()

	snap := ambient.New(ambient.WithQuery(value.Map{
		"flag":   value.Bool(false),
		"count":  value.Int(7),
		"ratio":  value.Float(0.25),
		"broken": value.Float(math.Inf(1)),
		"nil":    value.Null(),
		"other":  value.Other(struct{ Secret string }{"x"}),
	}))
	def := str("default")

	assert.Equal(t, value.Bool(false), snap.QueryVar(ambient.Key{"flag"}, def))
	assert.Equal(t, value.Int(7), snap.QueryVar(ambient.Key{"count"}, def))
	assert.Equal(t, value.Float(0.25), snap.QueryVar(ambient.Key{"ratio"}, def))

	var broken value.Value
	assert.NotPanics(t, func() { broken = snap.QueryVar(ambient.Key{"broken"}, def) })
	assert.True(t, broken.IsInvalid())
	assert.False(t, broken.Truthy())

	assert.Equal(t, value.Null(), snap.QueryVar(ambient.Key{"nil"}, def), "present null is found, not defaulted")
	assert.Equal(t, value.Null(), snap.QueryVar(ambient.Key{"other"}, def))
}

func TestWithSanitizer(t *testing.T) {
	t.Parallel()

	snap := ambient.New(
		ambient.WithQuery(value.Map{"page": value.Int(500), "q": str("  hi  ")}),
		ambient.WithSanitizer(sanitizer.New(
			sanitizer.WithIntRange(1, 100),
			sanitizer.WithStringTransforms(sanitizer.Trim),
		)),
		ambient.WithSanitizer(nil),
	)

	assert.Equal(t, value.Invalid(), snap.QueryVar(ambient.Key{"page"}, value.Int(1)))
	assert.Equal(t, str("hi"), snap.QueryVar(ambient.Key{"q"}, value.Null()))
}

func TestSourceVar(t *testing.T) {
	t.Parallel()

	snap := ambient.New(
		ambient.WithQuery(value.Map{"q": str("  abcdef ")}),
		ambient.WithRequest(value.Map{"q": str("  abcdef ")}),
		ambient.WithEnv(value.Map{"HOME": str(" <home> ")}),
		ambient.WithSource("cookie", value.Map{"sid": str(" abcdef")}),
		ambient.WithSanitizer(sanitizer.New(
			sanitizer.WithStringTransforms(sanitizer.Trim, sanitizer.LimitLength(2)),
		)),
	)
	def := str("default")

	tests := []struct {
		name     string
		source   string
		key      ambient.Key
		expected value.Value
	}{
		{name: "request", source: "REQUEST", key: ambient.Key{"q"}, expected: str("ab")},
		{name: "request prefixed", source: "_request", key: ambient.Key{"q"}, expected: str("ab")},
		{name: "env", source: "ENV", key: ambient.Key{"HOME"}, expected: str("&lt;h")},
		{name: "cookie", source: "COOKIE", key: ambient.Key{"sid"}, expected: str("ab")},
		{name: "get", source: "GET", key: ambient.Key{"q"}, expected: str("ab")},
		{name: "missing key", source: "REQUEST", key: ambient.Key{"nope"}, expected: def},
		{name: "unknown source", source: "FOOBAR", key: ambient.Key{"q"}, expected: def},
		{name: "empty source name", source: "", key: ambient.Key{"q"}, expected: def},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, snap.SourceVar(tt.source, tt.key, def))
		})
	}

	assert.Equal(t, snap.Var(ambient.Key{"q"}, def), snap.SourceVar("REQUEST", ambient.Key{"q"}, def))
}

func TestRawAndSanitizedSources(t *testing.T) {
	t.Parallel()

	nested := func(leaf string) value.Map {
		return value.Map{"bork": obj(value.Map{"thing": obj(value.Map{"dirty": str(leaf)})})}
	}
	snap := ambient.New(
		ambient.WithEnv(nested(dirty)),
		ambient.WithQuery(nested(dirty)),
		ambient.WithForm(nested(dirty)),
		ambient.WithRequest(nested(dirty)),
		ambient.WithServer(nested(dirty)),
	)

	for _, name := range []string{"ENV", "GET", "POST", "REQUEST", "SERVER"} {
		for _, given := range []string{name, "_" + name} {
			t.Run(given, func(t *testing.T) {
				t.Parallel()
				assert.Equal(t, nested(dirty), snap.Raw(given))
				assert.Equal(t, nested(escaped), snap.Sanitized(given))
			})
		}
	}

	t.Run("unknown name", func(t *testing.T) {
		t.Parallel()
		for _, given := range []string{"FOOBAR", "_FOOBAR", ""} {
			raw := snap.Raw(given)
			require.NotNil(t, raw)
			assert.Equal(t, value.Map{}, raw)

			sanitized := snap.Sanitized(given)
			require.NotNil(t, sanitized)
			assert.Equal(t, value.Map{}, sanitized)
		}
	})
}

func TestRawReturnsCopy(t *testing.T) {
	t.Parallel()

	snap := ambient.New(ambient.WithQuery(value.Map{
		"a":    str("1"),
		"bork": obj(value.Map{"word": str("moo")}),
	}))

	raw := snap.Raw("GET")
	raw["a"] = str("changed")
	raw["new"] = str("added")
	inner, ok := raw["bork"].Map()
	require.True(t, ok)
	inner["word"] = str("changed")

	assert.Equal(t, value.Map{
		"a":    str("1"),
		"bork": obj(value.Map{"word": str("moo")}),
	}, snap.Raw("GET"))
	assert.Equal(t, str("moo"), snap.QueryVar(ambient.Path("bork", "word"), value.Null()))
}

func TestLookupInAny(t *testing.T) {
	t.Parallel()

	first := value.Map{"a": str("<1>")}
	second := value.Map{"a": str("2"), "b": str("<b>")}
	def := str("default")

	assert.Equal(t, str("&lt;1&gt;"), ambient.LookupInAny([]value.Map{first, second}, ambient.Key{"a"}, def))
	assert.Equal(t, str("&lt;b&gt;"), ambient.LookupInAny([]value.Map{first, second}, ambient.Key{"b"}, def))
	assert.Equal(t, def, ambient.LookupInAny(nil, ambient.Key{"a"}, def))
}

func TestSanitizeDeep(t *testing.T) {
	t.Parallel()

	in := obj(value.Map{"thing": obj(value.Map{"dirty": str(dirty)})})
	expected := obj(value.Map{"thing": obj(value.Map{"dirty": str(escaped)})})

	assert.Equal(t, expected, ambient.SanitizeDeep(in))
}

func TestNilSnapshot(t *testing.T) {
	t.Parallel()

	var snap *ambient.Snapshot
	def := str("default")

	assert.NotPanics(t, func() {
		assert.Equal(t, def, snap.Var(ambient.Key{"bork"}, def))
		assert.Equal(t, def, snap.ServerVar(ambient.Key{"bork"}, def))
		assert.Equal(t, value.Map{}, snap.Raw("GET"))
		assert.Equal(t, value.Map{}, snap.Sanitized("GET"))
		assert.Nil(t, snap.Sources())
	})
}
