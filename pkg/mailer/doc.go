// Package mailer delivers the newsletter email through a pluggable provider.
//
// The package separates delivery (Sender, implemented per provider) from the
// newsletter-level concerns handled by Dispatcher: message validation, call
// timeouts, bounded retries and the idempotency key that makes those retries
// safe.
//
// # Usage
//
//	sender, err := resend.New(resend.Config{
//		APIKey:      os.Getenv("RESEND_API_KEY"),
//		SenderEmail: "news@example.com",
//		SenderName:  "AI Newsletter",
//	})
//	if err != nil {
//		return err
//	}
//
//	d := mailer.NewDispatcher(sender, mailer.Config{Timeout: 30 * time.Second, Attempts: 1})
//
//	now := time.Now()
//	conf, err := d.Dispatch(ctx, mailer.Message{
//		To:             "reader@example.com",
//		Subject:        mailer.Subject(now),
//		HTML:           digest,
//		IdempotencyKey: mailer.IdempotencyKey(now, "reader@example.com"),
//	})
//
// # Subjects
//
// Subject returns "AI Newsletter - " followed by the date in YYYY-MM-DD form.
//
// # Custom Providers
//
// Implement Sender to add another provider. Join ErrTransient with errors the
// provider may clear on its own (rate limits) so Dispatcher retries them:
//
//	type MySender struct{}
//
//	func (s *MySender) Send(ctx context.Context, email *mailer.Email) (*mailer.Receipt, error) {
//		// Send email using your provider's API
//		return &mailer.Receipt{ID: "..."}, nil
//	}
//
// # Errors
//
//   - ErrNoRecipient, ErrNoSubject, ErrNoContent: the message is incomplete
//   - ErrSendFailed: the provider rejected the message or every attempt failed
//   - ErrNoReceipt: the provider returned neither an error nor a receipt
//   - ErrTransient: joined by senders with failures worth retrying
package mailer
