package mailer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
)

// Dispatcher validates a Message and submits it through a Sender.
type Dispatcher struct {
	sender Sender
	logger *slog.Logger
	now    func() time.Time
	config Config
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the dispatcher logger. Nil is ignored.
func WithLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithClock overrides the time source used for Confirmation.SentAt.
func WithClock(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// NewDispatcher creates a Dispatcher sending through sender.
func NewDispatcher(sender Sender, cfg Config, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		sender: sender,
		config: cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch sends msg and returns the provider confirmation.
//
// With Attempts > 1, transient failures (see IsRetryable) and per-call
// timeouts are retried with exponential backoff; every attempt carries the
// same idempotency key so the provider delivers at most once. Rejections and
// context cancellation are returned after the first call.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) (*Confirmation, error) {
	if msg.To == "" {
		return nil, ErrNoRecipient
	}
	if msg.Subject == "" {
		return nil, ErrNoSubject
	}
	if msg.HTML == "" {
		return nil, ErrNoContent
	}

	email := &Email{
		To:             []string{msg.To},
		Subject:        msg.Subject,
		HTML:           msg.HTML,
		Text:           msg.Text,
		Tags:           msg.Tags,
		ReplyTo:        d.config.ReplyTo,
		IdempotencyKey: msg.IdempotencyKey,
	}
	if d.config.UnsubscribeURL != "" {
		email.Headers = map[string]string{"List-Unsubscribe": "<" + d.config.UnsubscribeURL + ">"}
	}

	var (
		receipt  *Receipt
		attempts int
	)
	err := retry.Do(ctx, d.backoff(), func(ctx context.Context) error {
		attempts++
		callCtx, cancel := d.callContext(ctx)
		defer cancel()

		r, err := d.sender.Send(callCtx, email)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			retryable := IsRetryable(err) || errors.Is(err, context.DeadlineExceeded)
			d.logger.WarnContext(ctx, "email send attempt failed",
				slog.Int("attempt", attempts),
				slog.Bool("retryable", retryable),
				slog.Any("error", err),
			)
			if !retryable {
				return err
			}
			return retry.RetryableError(err)
		}
		if r == nil {
			return ErrNoReceipt
		}
		receipt = r
		return nil
	})
	if err != nil {
		return nil, errors.Join(ErrSendFailed, err)
	}

	d.logger.InfoContext(ctx, "email dispatched",
		slog.String("email_id", receipt.ID),
		slog.String("subject", msg.Subject),
		slog.Int("attempts", attempts),
	)

	return &Confirmation{
		Receipt:        *receipt,
		To:             msg.To,
		Subject:        msg.Subject,
		IdempotencyKey: msg.IdempotencyKey,
		Attempts:       attempts,
		SentAt:         d.now(),
	}, nil
}

func (d *Dispatcher) backoff() retry.Backoff {
	retries := uint64(0)
	if d.config.Attempts > 1 {
		retries = d.config.Attempts - 1
	}
	base := d.config.RetryBase
	if base <= 0 {
		base = time.Millisecond
	}
	return retry.WithMaxRetries(retries, retry.NewExponential(base))
}

func (d *Dispatcher) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.config.Timeout > 0 {
		return context.WithTimeout(ctx, d.config.Timeout)
	}
	return context.WithCancel(ctx)
}
