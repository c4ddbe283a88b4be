// Package logger builds *slog.Logger instances from functional options and
// injects request-scoped attributes pulled from context.Context.
//
// New picks slog.NewJSONHandler or slog.NewTextHandler, applies static
// attributes and wraps the handler in LogHandlerDecorator, which runs every
// registered ContextExtractor on each record:
//
//	log := logger.New(
//	    logger.WithFormat(logger.FormatText),
//	    logger.WithLevelName("debug"),
//	    logger.WithService("ambient"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//
// Attribute helpers (Error, Errors, Component, Source, Key, RequestID) keep
// key names consistent. Error and Errors return an empty Attr for nil errors
// so they can be passed unconditionally.
package logger
