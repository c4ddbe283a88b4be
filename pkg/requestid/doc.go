// Package requestid attaches a correlation id to every HTTP request.
//
// Middleware reuses a valid client supplied X-Request-ID header or generates
// a UUIDv4, echoes it back in the response and stores it in the request
// context. FromContext reads it back, LoggerExtractor injects it into slog
// records, and the ambient Reader publishes it as SERVER["UNIQUE_ID"].
//
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
package requestid
