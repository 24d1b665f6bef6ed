package mailer

import "context"

// Sender defines the minimal interface that email providers must implement.
type Sender interface {
	// Send delivers an email message.
	// The Email must have To, Subject, and HTML already set.
	// The returned Receipt is the provider's response, passed through unmodified.
	Send(ctx context.Context, email *Email) (*Receipt, error)
}
