package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/ambient/pkg/ambient"
	"github.com/dmitrymomot/ambient/pkg/httpserver"
	"github.com/dmitrymomot/ambient/pkg/logger"
	"github.com/dmitrymomot/ambient/pkg/requestid"
	"github.com/dmitrymomot/ambient/pkg/value"
)

func newServeCmd(g *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve lookups for incoming requests over HTTP",
		Long: `Start an HTTP server that snapshots every request and answers with the
sanitized lookup.

Routes:
  GET|POST /var?key=a.b[&default=v]           REQUEST, POST, GET search
  GET|POST /var/{source}?key=a.b[&default=v]  one source
  GET|POST /raw/{source}                      whole source as stored
  GET|POST /sanitized/{source}                whole source sanitized
  GET      /healthz                           liveness probe

Reader settings come from AMBIENT_* variables and listener settings from
AMBIENT_HTTP_* variables.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), g, addr, cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides AMBIENT_HTTP_ADDR)")

	return cmd
}

func runServe(ctx context.Context, g *globalFlags, addr string, logOut io.Writer) error {
	log := newLogger(g, logOut)

	cfg, err := ambient.LoadConfig()
	if err != nil {
		log.Error("failed to load configuration", logger.Error(err))
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	rd, err := ambient.NewReader(cfg)
	if err != nil {
		log.Error("failed to create reader", logger.Error(err))
		return fmt.Errorf("failed to create reader: %w", err)
	}

	httpCfg, err := httpserver.LoadConfig()
	if err != nil {
		log.Error("failed to load http configuration", logger.Error(err))
		return fmt.Errorf("failed to load http configuration: %w", err)
	}
	if addr != "" {
		httpCfg.Addr = addr
	}

	log.Info("starting ambient server",
		slog.String("version", version),
		slog.String("commit", commit),
		slog.String("request_order", cfg.RequestOrder),
		slog.Bool("nested_keys", cfg.NestedKeys),
	)

	logger.SetAsDefault(log)

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	return srv.Run(ctx, newRouter(rd, log))
}

func newRouter(rd *ambient.Reader, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestid.Middleware)
	r.Use(accessLog(log))
	r.Use(ambient.Middleware(rd, ambient.WithLogger(log)))

	r.Get("/healthz", httpserver.HealthCheckHandler(log))

	handleVar := varHandler(log)
	for _, pattern := range []string{"/var", "/var/{source}"} {
		r.Get(pattern, handleVar)
		r.Post(pattern, handleVar)
	}
	r.Get("/raw/{source}", handleSource(false))
	r.Post("/raw/{source}", handleSource(false))
	r.Get("/sanitized/{source}", handleSource(true))
	r.Post("/sanitized/{source}", handleSource(true))

	return r
}

// response mirrors the envelope used by every JSON endpoint.
type response struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *errorDetail   `json:"error,omitempty"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func varHandler(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		source := chi.URLParam(r, "source")
		query := r.URL.Query()

		key := query.Get("key")
		if key == "" {
			writeJSON(w, http.StatusBadRequest, response{Error: &errorDetail{
				Code:    "missing_key",
				Message: "query parameter key is required",
			}})
			return
		}

		def := value.Null()
		if query.Has("default") {
			def = value.String(query.Get("default"))
		}

		path := parseKey(key)
		v := lookup(ambient.FromContext(r.Context()), source, path, def)

		log.DebugContext(r.Context(), "lookup",
			logger.Source(string(ambient.ResolveName(source))),
			logger.Key(path...),
			slog.String("kind", v.Kind().String()),
		)

		writeJSON(w, http.StatusOK, response{
			Data: v,
			Meta: map[string]any{"source": string(ambient.ResolveName(source)), "key": key},
		})
	}
}

func handleSource(sanitized bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		source := chi.URLParam(r, "source")
		snap := ambient.FromContext(r.Context())

		data := snap.Raw(source)
		if sanitized {
			data = snap.Sanitized(source)
		}

		writeJSON(w, http.StatusOK, response{
			Data: data,
			Meta: map[string]any{"source": string(ambient.ResolveName(source)), "sanitized": sanitized},
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// accessLog records one debug line per request once the response is written.
func accessLog(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			log.DebugContext(r.Context(), "request served",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}
