package agent

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

// FetchConfig holds fetcher configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type FetchConfig struct {
	// Timeout bounds each agent call.
	Timeout time.Duration `env:"NEWSLETTER_FETCH_TIMEOUT" envDefault:"2m"`
	// Attempts is the total number of agent calls. One means no retry.
	Attempts uint64 `env:"NEWSLETTER_FETCH_ATTEMPTS" envDefault:"3"`
	// RetryBase is the first backoff interval; it doubles on every retry.
	RetryBase time.Duration `env:"NEWSLETTER_RETRY_BASE" envDefault:"2s"`
}

// FetchResult is a successful fetch.
type FetchResult struct {
	Response *Response
	Request  Request
	Attempts int
}

// Fetcher renders a Prompt for a date and runs it on an Agent with
// per-call timeouts and bounded retry of transient failures.
type Fetcher struct {
	agent  Agent
	prompt *Prompt
	logger *slog.Logger
	config FetchConfig
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithLogger sets the fetcher logger. Nil is ignored.
func WithLogger(l *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFetcher creates a Fetcher.
func NewFetcher(a Agent, p *Prompt, cfg FetchConfig, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		agent:  a,
		prompt: p,
		config: cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch runs the prompt for date. Errors match ErrFetchFailed; a blank
// answer additionally matches ErrEmptyContent and is not retried.
func (f *Fetcher) Fetch(ctx context.Context, date time.Time) (*FetchResult, error) {
	req, err := f.prompt.Render(PromptData{Date: date})
	if err != nil {
		return nil, errors.Join(ErrFetchFailed, err)
	}

	var (
		resp     *Response
		attempts int
	)
	err = retry.Do(ctx, f.backoff(), func(ctx context.Context) error {
		attempts++
		callCtx, cancel := f.callContext(ctx)
		defer cancel()

		r, err := f.agent.Run(callCtx, req)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			if IsRetryable(err) || errors.Is(err, context.DeadlineExceeded) {
				f.logger.WarnContext(ctx, "agent call failed, retrying",
					slog.Int("attempt", attempts),
					slog.Any("error", err),
				)
				return retry.RetryableError(err)
			}
			return err
		}
		if r == nil || strings.TrimSpace(r.Content) == "" {
			return ErrEmptyContent
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, errors.Join(ErrFetchFailed, err)
	}

	f.logger.InfoContext(ctx, "digest fetched",
		slog.String("model", resp.Model),
		slog.Int("sources", len(resp.Sources)),
		slog.Int("attempts", attempts),
		slog.Int("length", len(resp.Content)),
	)

	return &FetchResult{Response: resp, Request: req, Attempts: attempts}, nil
}

func (f *Fetcher) backoff() retry.Backoff {
	retries := uint64(0)
	if f.config.Attempts > 1 {
		retries = f.config.Attempts - 1
	}
	base := f.config.RetryBase
	if base <= 0 {
		base = time.Millisecond
	}
	return retry.WithMaxRetries(retries, retry.NewExponential(base))
}

func (f *Fetcher) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if f.config.Timeout > 0 {
		return context.WithTimeout(ctx, f.config.Timeout)
	}
	return context.WithCancel(ctx)
}
