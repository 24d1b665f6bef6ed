// Package logger builds the structured slog loggers used by the newsletter
// command.
//
// Loggers write JSON (or text) records to the given writer and enrich every
// record with values extracted from the context, such as the run ID attached
// by WithRunID:
//
//	log := logger.New(logger.Config{Level: "debug"}, os.Stderr, logger.RunIDExtractor())
//	ctx := logger.WithRunID(context.Background(), "3f0c...")
//	log.InfoContext(ctx, "digest fetched", slog.Int("bytes", 4096))
//	// {"level":"INFO","msg":"digest fetched","bytes":4096,"run_id":"3f0c..."}
//
// # Sentry
//
// NewWithSentry forwards warnings and errors to Sentry in addition to the
// writer. An empty DSN falls back to writer-only logging, so the same code path
// works locally and in production. Call Flush before the process exits so
// buffered events are delivered.
package logger
