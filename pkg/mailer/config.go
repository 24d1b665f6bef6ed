package mailer

import "time"

// Config holds dispatcher configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	// Timeout bounds each provider call.
	Timeout time.Duration `env:"NEWSLETTER_DISPATCH_TIMEOUT" envDefault:"30s"`
	// Attempts is the total number of provider calls per message. One means no retry.
	Attempts uint64 `env:"NEWSLETTER_DISPATCH_ATTEMPTS" envDefault:"1"`
	// RetryBase is the first backoff interval; it doubles on every retry.
	RetryBase time.Duration `env:"NEWSLETTER_RETRY_BASE" envDefault:"2s"`
	// ReplyTo is set as the Reply-To address when not empty.
	ReplyTo string `env:"NEWSLETTER_REPLY_TO"`
	// UnsubscribeURL becomes the List-Unsubscribe header when not empty.
	UnsubscribeURL string `env:"NEWSLETTER_UNSUBSCRIBE_URL"`
}
