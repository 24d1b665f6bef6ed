package newsletter

import (
	"log/slog"
	"time"
)

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock sets the time source that determines the digest date.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// WithGuard enables duplicate-send protection.
func WithGuard(g Guard) Option {
	return func(r *Runner) {
		r.guard = g
	}
}

// WithForce sends even when the guard reports the digest as already sent.
func WithForce(force bool) Option {
	return func(r *Runner) {
		r.force = force
	}
}

// WithDryRun stops the run after sanitizing; nothing is sent.
func WithDryRun(dryRun bool) Option {
	return func(r *Runner) {
		r.dryRun = dryRun
	}
}

// WithStrictHTML makes HTML well-formedness problems fatal.
func WithStrictHTML(strict bool) Option {
	return func(r *Runner) {
		r.strictHTML = strict
	}
}

// WithSanitizeHTML filters the digest through the email HTML allowlist.
func WithSanitizeHTML(enabled bool) Option {
	return func(r *Runner) {
		r.sanitizeHTML = enabled
	}
}

// WithMarkdownFallback converts digests that contain no HTML elements from markdown.
func WithMarkdownFallback(enabled bool) Option {
	return func(r *Runner) {
		r.markdownFallback = enabled
	}
}
