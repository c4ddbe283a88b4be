// Package httpserver runs the HTTP front end of the ambient serve command.
//
// Server binds its listener eagerly, so an address with port 0 works and
// Addr reports the chosen port. Run blocks until its context is cancelled or
// the process receives SIGINT or SIGTERM, then calls http.Server.Shutdown
// bounded by the configured shutdown timeout.
//
// Construction goes through New or NewFromConfig with Option helpers such as
// WithAddr, WithReadTimeout and WithLogger. Config is loaded from
// AMBIENT_HTTP_* variables with LoadConfig.
//
//	r := chi.NewRouter()
//	r.Get("/healthz", httpserver.HealthCheckHandler(log))
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// # Errors
//
// Run wraps listen and serve errors with ErrStart; a second Run also carries
// ErrAlreadyRunning. Shutdown wraps its errors with ErrShutdown.
package httpserver
