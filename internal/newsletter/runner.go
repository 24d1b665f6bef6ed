package newsletter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mark3labs/flyt"

	"github.com/dmitrymomot/newsletter/pkg/agent"
	"github.com/dmitrymomot/newsletter/pkg/logger"
	"github.com/dmitrymomot/newsletter/pkg/mailer"
	"github.com/dmitrymomot/newsletter/pkg/sanitizer"
)

// Fetcher produces the raw digest for a date.
type Fetcher interface {
	Fetch(ctx context.Context, date time.Time) (*agent.FetchResult, error)
}

// Dispatcher delivers a prepared message.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg mailer.Message) (*mailer.Confirmation, error)
}

// Result describes one run.
type Result struct {
	Confirmation   *mailer.Confirmation `json:"confirmation,omitempty"`
	Date           string               `json:"date"`
	Subject        string               `json:"subject"`
	IdempotencyKey string               `json:"idempotency_key"`
	Digest         string               `json:"digest,omitempty"`
	Sources        []agent.Source       `json:"sources,omitempty"`
	Problems       []sanitizer.Problem  `json:"html_problems,omitempty"`
	Skipped        bool                 `json:"skipped,omitempty"`
	DryRun         bool                 `json:"dry_run,omitempty"`
}

// Runner fetches, sanitizes and dispatches one digest per Run.
type Runner struct {
	fetcher    Fetcher
	dispatcher Dispatcher
	guard      Guard
	logger     *slog.Logger
	now        func() time.Time
	recipient  string

	force            bool
	dryRun           bool
	strictHTML       bool
	sanitizeHTML     bool
	markdownFallback bool
}

// NewRunner creates a Runner delivering to recipient.
func NewRunner(f Fetcher, d Dispatcher, recipient string, opts ...Option) *Runner {
	r := &Runner{
		fetcher:    f,
		dispatcher: d,
		recipient:  recipient,
		logger:     logger.Discard(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the pipeline once. Errors are *ContentFetchError or
// *DispatchError; the dispatcher is never called after a fetch failure.
// A run stopped by the guard returns a Result with Skipped set and no error.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	date := r.now()
	res := &Result{
		Date:           date.Format(mailer.DateLayout),
		Subject:        mailer.Subject(date),
		IdempotencyKey: mailer.IdempotencyKey(date, r.recipient),
		DryRun:         r.dryRun,
	}

	shared := flyt.NewSharedStore()
	shared.Set(keyDate, date)
	shared.Set(keyResult, res)

	r.logger.InfoContext(ctx, "newsletter run started",
		slog.String("date", res.Date),
		slog.Bool("dry_run", r.dryRun),
	)

	if err := r.flow().Run(ctx, shared); err != nil {
		return nil, unwrapFlowError(err)
	}

	switch {
	case res.Skipped:
		r.logger.InfoContext(ctx, "newsletter already sent, skipping",
			slog.String("idempotency_key", res.IdempotencyKey),
		)
	case res.DryRun:
		r.logger.InfoContext(ctx, "dry run finished, nothing sent")
	default:
		r.logger.InfoContext(ctx, "newsletter run finished",
			slog.String("email_id", res.Confirmation.Receipt.ID),
		)
	}
	return res, nil
}

// unwrapFlowError strips flyt's phase wrapping so callers see the node error.
func unwrapFlowError(err error) error {
	var fetchErr *ContentFetchError
	if errors.As(err, &fetchErr) {
		return fetchErr
	}
	var dispatchErr *DispatchError
	if errors.As(err, &dispatchErr) {
		return dispatchErr
	}
	return err
}
