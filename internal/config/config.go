package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/newsletter/pkg/agent"
	"github.com/dmitrymomot/newsletter/pkg/agent/gemini"
	"github.com/dmitrymomot/newsletter/pkg/agent/openai"
	"github.com/dmitrymomot/newsletter/pkg/logger"
	"github.com/dmitrymomot/newsletter/pkg/mailer"
	"github.com/dmitrymomot/newsletter/pkg/mailer/resend"
	"github.com/dmitrymomot/newsletter/pkg/redis"
	"github.com/dmitrymomot/newsletter/pkg/search"
)

// Supported content providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Legacy variable names accepted when the primary name is unset.
var fallbacks = map[string]string{
	"NEWSLETTER_FROM_EMAIL": "from_email",
	"NEWSLETTER_TO_EMAIL":   "to_email",
}

// Config is the whole application configuration. It is built once by Load
// and passed down by value; nothing reads the environment after that.
type Config struct {
	Provider  string `env:"NEWSLETTER_PROVIDER" envDefault:"gemini"`
	Model     string `env:"NEWSLETTER_MODEL"`
	Recipient string `env:"NEWSLETTER_TO_EMAIL"`
	// PlatformKey is the agent platform key. Required, though no outbound call carries it.
	PlatformKey string `env:"PHI_API_KEY"`
	RedisURL    string `env:"REDIS_URL"`

	StrictHTML       bool `env:"NEWSLETTER_STRICT_HTML"`
	SanitizeHTML     bool `env:"NEWSLETTER_SANITIZE_HTML"`
	MarkdownFallback bool `env:"NEWSLETTER_MARKDOWN_FALLBACK"`

	Gemini gemini.Config
	OpenAI openai.Config
	Search search.Config
	Resend resend.Config
	Redis  redis.Config
	Fetch  agent.FetchConfig
	Mailer mailer.Config
	Log    logger.Config
	Sentry logger.SentryConfig
}

// Option configures Load.
type Option func(*loader)

type loader struct {
	environ  map[string]string
	envFiles []string
}

// WithEnvFile seeds values from a dotenv file. Variables already present in
// the environment win. A missing file is ignored.
func WithEnvFile(path string) Option {
	return func(l *loader) {
		if path != "" {
			l.envFiles = append(l.envFiles, path)
		}
	}
}

// WithEnvironment replaces the process environment as the value source.
func WithEnvironment(environ map[string]string) Option {
	return func(l *loader) {
		l.environ = environ
	}
}

// Load builds Config. It performs no network I/O, so a missing key is
// reported before any provider is contacted.
func Load(opts ...Option) (Config, error) {
	l := &loader{}
	for _, opt := range opts {
		opt(l)
	}
	if l.environ == nil {
		l.environ = env.ToMap(os.Environ())
	}

	vars := make(map[string]string, len(l.environ))
	for _, path := range l.envFiles {
		fileVars, err := godotenv.Read(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return Config{}, errors.Join(ErrEnvFile, err)
		}
		for k, v := range fileVars {
			if _, ok := vars[k]; !ok {
				vars[k] = v
			}
		}
	}
	for k, v := range l.environ {
		vars[k] = v
	}
	for primary, legacy := range fallbacks {
		if strings.TrimSpace(vars[primary]) == "" && vars[legacy] != "" {
			vars[primary] = vars[legacy]
		}
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, errors.Join(ErrInvalidConfiguration, err)
	}

	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	if cfg.Model != "" {
		cfg.Gemini.Model = cfg.Model
		cfg.OpenAI.Model = cfg.Model
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type requirement struct {
	key   string
	value string
}

func (c Config) validate() error {
	var required []requirement
	switch c.Provider {
	case ProviderGemini:
		required = append(required, requirement{"GOOGLE_API_KEY", c.Gemini.APIKey})
	case ProviderOpenAI:
		required = append(required, requirement{"OPENAI_API_KEY", c.OpenAI.APIKey})
	}
	required = append(required,
		requirement{"PHI_API_KEY", c.PlatformKey},
		requirement{"RESEND_API_KEY", c.Resend.APIKey},
		requirement{"NEWSLETTER_FROM_EMAIL", c.Resend.SenderEmail},
		requirement{"NEWSLETTER_TO_EMAIL", c.Recipient},
	)

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return &MissingConfigurationError{Keys: missing}
	}

	var problems []error
	if c.Provider != ProviderGemini && c.Provider != ProviderOpenAI {
		problems = append(problems, fmt.Errorf("NEWSLETTER_PROVIDER: unknown provider %q", c.Provider))
	}
	if _, err := mail.ParseAddress(c.Resend.SenderEmail); err != nil {
		problems = append(problems, fmt.Errorf("NEWSLETTER_FROM_EMAIL: %w", err))
	}
	if _, err := mail.ParseAddress(c.Recipient); err != nil {
		problems = append(problems, fmt.Errorf("NEWSLETTER_TO_EMAIL: %w", err))
	}
	if c.Mailer.ReplyTo != "" {
		if _, err := mail.ParseAddress(c.Mailer.ReplyTo); err != nil {
			problems = append(problems, fmt.Errorf("NEWSLETTER_REPLY_TO: %w", err))
		}
	}
	if c.Fetch.Timeout <= 0 {
		problems = append(problems, errors.New("NEWSLETTER_FETCH_TIMEOUT: must be positive"))
	}
	if c.Mailer.Timeout <= 0 {
		problems = append(problems, errors.New("NEWSLETTER_DISPATCH_TIMEOUT: must be positive"))
	}
	if c.Fetch.Attempts == 0 {
		problems = append(problems, errors.New("NEWSLETTER_FETCH_ATTEMPTS: must be at least 1"))
	}
	if c.Mailer.Attempts == 0 {
		problems = append(problems, errors.New("NEWSLETTER_DISPATCH_ATTEMPTS: must be at least 1"))
	}
	if len(problems) > 0 {
		return errors.Join(append([]error{ErrInvalidConfiguration}, problems...)...)
	}
	return nil
}

// ProviderModel returns the model name of the selected provider.
func (c Config) ProviderModel() string {
	if c.Provider == ProviderOpenAI {
		return c.OpenAI.Model
	}
	return c.Gemini.Model
}

// LogValue implements slog.LogValuer. Secrets are never included.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("provider", c.Provider),
		slog.String("model", c.ProviderModel()),
		slog.String("from", c.Resend.SenderEmail),
		slog.String("to", c.Recipient),
		slog.Bool("strict_html", c.StrictHTML),
		slog.Bool("sanitize_html", c.SanitizeHTML),
		slog.Bool("markdown_fallback", c.MarkdownFallback),
		slog.Bool("send_guard", c.RedisURL != ""),
		slog.Uint64("fetch_attempts", c.Fetch.Attempts),
		slog.Uint64("dispatch_attempts", c.Mailer.Attempts),
	)
}
