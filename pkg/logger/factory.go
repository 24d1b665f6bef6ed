package logger

import (
	"io"
	"log/slog"
	"strings"
)

// New creates a logger writing to w with optional context extractors.
// Format "text" selects slog's text handler; anything else is JSON.
func New(cfg Config, w io.Writer, extractors ...ContextExtractor) *slog.Logger {
	return slog.New(NewContextHandler(newBaseHandler(cfg, w), extractors...))
}

// Discard creates a logger that drops all output.
// Use this as a default when logging is not configured.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newBaseHandler(cfg Config, w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}
