package ambient

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/ambient/pkg/logger"
)

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	log *slog.Logger
}

// WithLogger sets the logger used to report malformed queries and bodies.
// Nil loggers are ignored.
func WithLogger(l *slog.Logger) MiddlewareOption {
	return func(c *middlewareConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// Middleware builds a Snapshot for every request with rd and stores it in
// the request context, where handlers fetch it with FromContext.
// Parse failures are logged at debug level and never abort the request.
func Middleware(rd *Reader, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{log: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}
	if rd == nil {
		rd, _ = NewReader(DefaultConfig())
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap, err := rd.Read(r)
			if err != nil {
				cfg.log.DebugContext(r.Context(), "partial request data",
					logger.Component("ambient"),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					logger.Error(err),
				)
			}
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), snap)))
		})
	}
}
