package resend

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/newsletter/pkg/mailer"
)

// Sender implements mailer.Sender using the Resend API.
type Sender struct {
	client *resend.Client
	config Config
}

// New creates a new Resend sender.
func New(cfg Config) (*Sender, error) {
	client := resend.NewClient(cfg.APIKey)
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("resend: invalid base url %q: %w", cfg.BaseURL, err)
		}
		client.BaseURL = u
	}
	return &Sender{client: client, config: cfg}, nil
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) (*mailer.Receipt, error) {
	req := &resend.SendEmailRequest{
		From:    mailer.Recipient(s.config.SenderName, s.config.SenderEmail),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		ReplyTo: email.ReplyTo,
		Headers: email.Headers,
	}

	if len(email.Tags) > 0 {
		req.Tags = convertTags(email.Tags)
	}

	opts := &resend.SendEmailOptions{IdempotencyKey: email.IdempotencyKey}

	sent, err := s.client.Emails.SendWithOptions(ctx, req, opts)
	if err != nil {
		err = fmt.Errorf("resend: failed to send email: %w", err)
		if errors.Is(err, resend.ErrRateLimit) {
			return nil, errors.Join(mailer.ErrTransient, err)
		}
		return nil, err
	}

	return &mailer.Receipt{ID: sent.Id}, nil
}

var _ mailer.Sender = (*Sender)(nil)
