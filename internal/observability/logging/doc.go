// Package logging configures the process-wide log/slog logger and carries
// request-scoped loggers through context.
//
// LOG_LEVEL selects debug, info, warn or error (default info). LOG_FORMAT=text
// switches from JSON on stdout to text on stderr, which the CLI uses so that
// stdout stays reserved for the summary.
//
//	logger := logging.NewLogger()
//	slog.SetDefault(logger)
//
//	func handle(ctx context.Context) {
//	    logging.WithRequestID(ctx, slog.Default()).Info("summarizing")
//	}
package logging
