package mailer

import (
	"fmt"
	"time"
)

// Tags represents email tags/categories that can be either presence-only
// (using struct{}{}) or key-value pairs (using string values).
// Resend receives presence-only tags as name="true".
type Tags map[string]any

// SimpleTags creates presence-only tags from a list of tag names.
func SimpleTags(names ...string) Tags {
	t := make(Tags, len(names))
	for _, n := range names {
		t[n] = struct{}{}
	}
	return t
}

// Recipient formats a name and email into RFC 5322 address format.
// Returns "Name <email>" if name is provided, otherwise just email.
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

// Email is a fully-prepared email handed to a Sender.
type Email struct {
	Headers map[string]string // Custom headers
	Tags    Tags              // Provider-specific tags/categories
	Subject string            // Email subject
	HTML    string            // HTML body content
	Text    string            // Plain text alternative
	ReplyTo string            // Reply-to address
	To      []string          // Recipients (at least one required)
	// IdempotencyKey lets the provider drop repeated submissions of the same email.
	IdempotencyKey string
}

// Receipt is the provider's acknowledgement of an accepted email.
type Receipt struct {
	ID string `json:"id"`
}

// Message is the newsletter email as the dispatcher receives it.
type Message struct {
	Tags           Tags
	To             string
	Subject        string
	HTML           string
	Text           string
	IdempotencyKey string
}

// Confirmation is returned by Dispatch after the provider accepted a message.
type Confirmation struct {
	SentAt         time.Time `json:"sent_at"`
	Receipt        Receipt   `json:"receipt"`
	To             string    `json:"to"`
	Subject        string    `json:"subject"`
	IdempotencyKey string    `json:"idempotency_key,omitempty"`
	Attempts       int       `json:"attempts"`
}
