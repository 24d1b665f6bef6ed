package resend

// Config holds Resend email provider configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	APIKey      string `env:"RESEND_API_KEY"`
	SenderEmail string `env:"NEWSLETTER_FROM_EMAIL"`
	SenderName  string `env:"NEWSLETTER_FROM_NAME" envDefault:"AI Newsletter"`
	// BaseURL overrides the Resend API endpoint (tests, proxies).
	BaseURL string `env:"RESEND_BASE_URL"`
}
