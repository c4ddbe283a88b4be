package ambient

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"mime"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/ambient/pkg/clientip"
	"github.com/dmitrymomot/ambient/pkg/config"
	"github.com/dmitrymomot/ambient/pkg/requestid"
	"github.com/dmitrymomot/ambient/pkg/value"
)

// Reader builds Snapshots from HTTP requests. The ENV source is captured
// once in NewReader and shared by every snapshot it produces.
type Reader struct {
	cfg   Config
	order []Source
	env   value.Map
	opts  []Option
	now   func() time.Time
}

// NewReader validates cfg and captures the ENV source. Options are applied
// to every Snapshot returned by Read, after the sanitizer selected by cfg,
// so a WithSanitizer option overrides it.
func NewReader(cfg Config, opts ...Option) (*Reader, error) {
	order, err := parseRequestOrder(cfg.RequestOrder)
	if err != nil {
		return nil, err
	}

	env := value.Map{}
	if len(cfg.EnvFiles) > 0 {
		vars, err := config.ReadEnvFiles(cfg.EnvFiles...)
		if err != nil {
			return nil, err
		}
		for k, v := range vars {
			env[k] = value.String(v)
		}
	}
	if cfg.IncludeEnv {
		for _, kv := range os.Environ() {
			if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
				env[k] = value.String(v)
			}
		}
	}

	if cfg.MaxMemory <= 0 {
		cfg.MaxMemory = DefaultConfig().MaxMemory
	}
	if san := cfg.stringSanitizer(); san != nil {
		opts = append([]Option{WithSanitizer(san)}, opts...)
	}

	return &Reader{
		cfg:   cfg,
		order: order,
		env:   env,
		opts:  opts,
		now:   time.Now,
	}, nil
}

// FromRequest builds a Snapshot with DefaultConfig and ignores parse errors.
func FromRequest(r *http.Request, opts ...Option) *Snapshot {
	rd, err := NewReader(DefaultConfig(), opts...)
	if err != nil {
		return New(opts...)
	}
	s, _ := rd.Read(r)
	return s
}

// Read builds a Snapshot for r. The snapshot is always usable: a malformed
// query or body is reported through the error while the affected source
// holds whatever could be parsed.
func (rd *Reader) Read(r *http.Request) (*Snapshot, error) {
	var errs []error

	query, err := url.ParseQuery(r.URL.RawQuery)
	if err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidQuery, err))
	}
	get := buildMap(query, rd.cfg.NestedKeys)

	form, err := rd.parseBody(r)
	if err != nil {
		errs = append(errs, err)
	}
	post := buildMap(form, rd.cfg.NestedKeys)

	cookie := rd.cookies(r)

	request := value.Map{}
	for _, src := range rd.order {
		switch src {
		case Get:
			maps.Copy(request, get)
		case Post:
			maps.Copy(request, post)
		case Cookie:
			maps.Copy(request, cookie)
		}
	}

	opts := make([]Option, 0, 6+len(rd.opts))
	opts = append(opts,
		WithEnv(rd.env),
		WithQuery(get),
		WithForm(post),
		WithRequest(request),
		WithServer(rd.server(r)),
		WithSource(string(Cookie), cookie),
	)
	opts = append(opts, rd.opts...)

	return New(opts...), errors.Join(errs...)
}

// parseBody reads url-encoded and multipart bodies of POST, PUT and PATCH
// requests. Other methods and content types yield no values. The query
// string is never consulted, so a malformed query cannot hide the body.
// Parsed values are stored on r so later handlers can still use FormValue.
func (rd *Reader) parseBody(r *http.Request) (url.Values, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return nil, nil
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return nil, nil
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed content type: %v", ErrInvalidBody, err)
	}

	switch {
	case mediaType == "application/x-www-form-urlencoded":
		if r.PostForm != nil {
			return r.PostForm, nil
		}
		body, err := io.ReadAll(io.LimitReader(r.Body, rd.cfg.MaxMemory+1))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
		}
		if int64(len(body)) > rd.cfg.MaxMemory {
			return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrInvalidBody, rd.cfg.MaxMemory)
		}
		vals, err := url.ParseQuery(string(body))
		r.PostForm = vals
		if err != nil {
			return vals, fmt.Errorf("%w: %v", ErrInvalidBody, err)
		}
		return vals, nil

	case mediaType == "multipart/form-data":
		if r.MultipartForm != nil {
			return url.Values(r.MultipartForm.Value), nil
		}
		if params["boundary"] == "" {
			return nil, fmt.Errorf("%w: missing boundary in content type", ErrInvalidBody)
		}
		form, err := multipart.NewReader(r.Body, params["boundary"]).ReadForm(rd.cfg.MaxMemory)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
		}
		r.MultipartForm = form
		if r.PostForm == nil {
			r.PostForm = url.Values(form.Value)
		}
		return url.Values(form.Value), nil

	default:
		return nil, nil
	}
}

func (rd *Reader) cookies(r *http.Request) value.Map {
	vals := url.Values{}
	for _, c := range r.Cookies() {
		v, err := url.QueryUnescape(c.Value)
		if err != nil {
			v = c.Value
		}
		vals.Add(c.Name, v)
	}
	return buildMap(vals, rd.cfg.NestedKeys)
}

// server builds CGI-style meta variables for r.
func (rd *Reader) server(r *http.Request) value.Map {
	now := rd.now()

	m := value.Map{
		"REQUEST_METHOD":     value.String(r.Method),
		"QUERY_STRING":       value.String(r.URL.RawQuery),
		"PATH_INFO":          value.String(r.URL.Path),
		"SERVER_PROTOCOL":    value.String(r.Proto),
		"REQUEST_TIME":       value.Int(now.Unix()),
		"REQUEST_TIME_FLOAT": value.Float(float64(now.UnixMicro()) / 1e6),
	}

	uri := r.RequestURI
	if uri == "" {
		uri = r.URL.RequestURI()
	}
	m["REQUEST_URI"] = value.String(uri)

	host, port := splitHostPort(r.Host)
	if port == "" {
		port = "80"
		if r.TLS != nil {
			port = "443"
		}
	}
	m["SERVER_NAME"] = value.String(host)
	m["SERVER_PORT"] = value.String(port)

	if r.TLS != nil {
		m["HTTPS"] = value.String("on")
	}

	if addr, p := splitHostPort(r.RemoteAddr); addr != "" {
		m["REMOTE_ADDR"] = value.String(addr)
		if p != "" {
			m["REMOTE_PORT"] = value.String(p)
		}
	}
	if rd.cfg.TrustProxy {
		if ip := clientip.Resolve(r); ip != "" {
			m["REMOTE_ADDR"] = value.String(ip)
		}
	}

	if ct := r.Header.Get("Content-Type"); ct != "" {
		m["CONTENT_TYPE"] = value.String(ct)
	}
	if r.ContentLength > 0 {
		m["CONTENT_LENGTH"] = value.String(strconv.FormatInt(r.ContentLength, 10))
	}

	for name, vs := range r.Header {
		key := "HTTP_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
		m[key] = value.String(strings.Join(vs, ", "))
	}
	if r.Host != "" {
		m["HTTP_HOST"] = value.String(r.Host)
	}
	if id := requestid.FromContext(r.Context()); id != "" {
		m["UNIQUE_ID"] = value.String(id)
	}

	return m
}

func splitHostPort(hostport string) (string, string) {
	host, port, err := net.SplitHostPort(hostport)
	if err != nil {
		return hostport, ""
	}
	return host, port
}

func parseRequestOrder(order string) ([]Source, error) {
	if order == "" {
		order = DefaultConfig().RequestOrder
	}

	out := make([]Source, 0, len(order))
	seen := make(map[Source]bool, len(order))
	for _, c := range strings.ToUpper(order) {
		var src Source
		switch c {
		case 'G':
			src = Get
		case 'P':
			src = Post
		case 'C':
			src = Cookie
		default:
			return nil, fmt.Errorf("%w: unknown source %q in %q", ErrInvalidRequestOrder, c, order)
		}
		if seen[src] {
			return nil, fmt.Errorf("%w: %q repeats %q", ErrInvalidRequestOrder, order, c)
		}
		seen[src] = true
		out = append(out, src)
	}
	return out, nil
}
