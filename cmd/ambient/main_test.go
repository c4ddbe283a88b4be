package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/ambient/pkg/ambient"
)

const snapshotYAML = `GET:
  bork: blarg
  page: 2
POST:
  bork: yay
  nested:
    thing:
      dirty: '<script>alert("hello");</script>'
SERVER:
  REQUEST_METHOD: POST
cookie:
  session: "<abc>"
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// execute runs the root command and returns one decoded JSON document per
// output line.
func execute(t *testing.T, args ...string) ([]any, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		return nil, err
	}

	var docs []any
	dec := json.NewDecoder(&out)
	for dec.More() {
		var doc any
		require.NoError(t, dec.Decode(&doc))
		docs = append(docs, doc)
	}
	return docs, nil
}

func TestEvalLookups(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "snapshot.yaml", snapshotYAML)

	tests := []struct {
		name     string
		args     []string
		expected []any
	}{
		{
			name:     "post overrides get in derived request",
			args:     []string{"bork"},
			expected: []any{"yay"},
		},
		{
			name:     "nested key is sanitized",
			args:     []string{"nested.thing.dirty"},
			expected: []any{"&lt;script&gt;alert(&quot;hello&quot;);&lt;/script&gt;"},
		},
		{
			name:     "several keys",
			args:     []string{"bork", "page", "missing"},
			expected: []any{"yay", float64(2), nil},
		},
		{
			name:     "query source",
			args:     []string{"--source", "get", "bork"},
			expected: []any{"blarg"},
		},
		{
			name:     "server source",
			args:     []string{"--source", "_SERVER", "REQUEST_METHOD"},
			expected: []any{"POST"},
		},
		{
			name:     "custom source",
			args:     []string{"--source", "COOKIE", "session"},
			expected: []any{"&lt;abc&gt;"},
		},
		{
			name:     "default for missing key",
			args:     []string{"--default", "<none>", "missing"},
			expected: []any{"<none>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			docs, err := execute(t, append([]string{"eval", "--snapshot", path}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, docs)
		})
	}
}

func TestEvalWholeSource(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "snapshot.yaml", snapshotYAML)

	raw, err := execute(t, "eval", "--snapshot", path, "--source", "cookie", "--raw")
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"session": "<abc>"}}, raw)

	sanitized, err := execute(t, "eval", "--snapshot", path, "--source", "COOKIE", "--sanitized")
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"session": "&lt;abc&gt;"}}, sanitized)

	unknown, err := execute(t, "eval", "--snapshot", path, "--source", "FOOBAR", "--raw")
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{}}, unknown)
}

func TestEvalExplicitRequestSection(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "snapshot.json", `{"GET": {"bork": "blarg"}, "REQUEST": {"bork": "moo"}}`)

	docs, err := execute(t, "eval", "--snapshot", path, "bork")
	require.NoError(t, err)
	assert.Equal(t, []any{"moo"}, docs)
}

func TestEvalErrors(t *testing.T) {
	t.Parallel()

	valid := writeFile(t, "snapshot.yaml", snapshotYAML)
	invalid := writeFile(t, "broken.yaml", "- just\n- a list\n")

	tests := []struct {
		name   string
		args   []string
		target error
	}{
		{name: "no keys", args: []string{"eval", "--snapshot", valid}, target: ErrUsage},
		{name: "raw without source", args: []string{"eval", "--snapshot", valid, "--raw"}, target: ErrUsage},
		{name: "raw with keys", args: []string{"eval", "--snapshot", valid, "--source", "GET", "--raw", "bork"}, target: ErrUsage},
		{name: "not a map", args: []string{"eval", "--snapshot", invalid, "bork"}, target: ErrInvalidSnapshot},
		{name: "missing file", args: []string{"eval", "--snapshot", filepath.Join(t.TempDir(), "nope.yaml"), "bork"}, target: os.ErrNotExist},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := execute(t, tt.args...)
			assert.ErrorIs(t, err, tt.target)
		})
	}

	t.Run("missing snapshot flag", func(t *testing.T) {
		t.Parallel()

		_, err := execute(t, "eval", "bork")
		assert.Error(t, err)
	})
}

func TestParseKey(t *testing.T) {
	t.Parallel()

	assert.Nil(t, parseKey(""))
	assert.Equal(t, ambient.Key{"bork"}, parseKey("bork"))
	assert.Equal(t, ambient.Key{"bork", "word"}, parseKey("bork.word"))
}

func TestVersion(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "ambient version dev")
	assert.Contains(t, out.String(), "Go version:")
}

type envelope struct {
	Data  any            `json:"data"`
	Meta  map[string]any `json:"meta"`
	Error *errorDetail   `json:"error"`
}

func serve(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func testRouter(t *testing.T, mutators ...func(*ambient.Config)) http.Handler {
	t.Helper()

	cfg := ambient.DefaultConfig()
	cfg.IncludeEnv = false
	for _, mutate := range mutators {
		mutate(&cfg)
	}
	rd, err := ambient.NewReader(cfg)
	require.NoError(t, err)

	return newRouter(rd, slog.New(slog.DiscardHandler))
}

func TestRouterVar(t *testing.T) {
	t.Parallel()

	h := testRouter(t)

	tests := []struct {
		name     string
		req      func() *http.Request
		expected any
	}{
		{
			name: "query value is escaped",
			req: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/var?key=bork&bork=%3Cb%3E", nil)
			},
			expected: "&lt;b&gt;",
		},
		{
			name: "form beats query",
			req: func() *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/var?key=bork&bork=blarg", strings.NewReader("bork=yay"))
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				return req
			},
			expected: "yay",
		},
		{
			name: "nested query key",
			req: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/var/get?key=user.name&user[name]=ann", nil)
			},
			expected: "ann",
		},
		{
			name: "default when missing",
			req: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/var/post?key=bork&default=none", nil)
			},
			expected: "none",
		},
		{
			name: "server meta variable",
			req: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/var/server?key=REQUEST_METHOD", nil)
			},
			expected: "GET",
		},
		{
			name: "request id as unique id",
			req: func() *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/var/server?key=UNIQUE_ID", nil)
				req.Header.Set("X-Request-ID", "abc-123")
				return req
			},
			expected: "abc-123",
		},
		{
			name: "cookie source",
			req: func() *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/var/cookie?key=theme", nil)
				req.AddCookie(&http.Cookie{Name: "theme", Value: "dark"})
				return req
			},
			expected: "dark",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec, body := serve(t, h, tt.req())
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.expected, body.Data)
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestRouterVarUsesReaderSanitizer(t *testing.T) {
	t.Parallel()

	h := testRouter(t, func(c *ambient.Config) { c.MaxStringLength = 2 })

	for _, target := range []string{
		"/var?key=q&q=abcdef",
		"/var/get?key=q&q=abcdef",
		"/var/request?key=q&q=abcdef",
		"/var/_REQUEST?key=q&q=abcdef",
	} {
		t.Run(target, func(t *testing.T) {
			t.Parallel()

			rec, body := serve(t, h, httptest.NewRequest(http.MethodGet, target, nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "ab", body.Data)
		})
	}
}

func TestRouterVarMissingKey(t *testing.T) {
	t.Parallel()

	rec, body := serve(t, testRouter(t), httptest.NewRequest(http.MethodGet, "/var", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "missing_key", body.Error.Code)
}

func TestRouterSources(t *testing.T) {
	t.Parallel()

	h := testRouter(t)

	_, raw := serve(t, h, httptest.NewRequest(http.MethodGet, "/raw/get?x=%3Cy%3E", nil))
	assert.Equal(t, map[string]any{"x": "<y>"}, raw.Data)
	assert.Equal(t, "GET", raw.Meta["source"])

	_, sanitized := serve(t, h, httptest.NewRequest(http.MethodGet, "/sanitized/_get?x=%3Cy%3E", nil))
	assert.Equal(t, map[string]any{"x": "&lt;y&gt;"}, sanitized.Data)
	assert.Equal(t, true, sanitized.Meta["sanitized"])

	_, unknown := serve(t, h, httptest.NewRequest(http.MethodGet, "/raw/foobar", nil))
	assert.Equal(t, map[string]any{}, unknown.Data)
}

func TestRouterHealth(t *testing.T) {
	t.Parallel()

	rec, _ := serve(t, testRouter(t), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ALIVE", rec.Body.String())
}
