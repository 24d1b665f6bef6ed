// Command newsletter fetches today's AI news digest from a search-capable
// LLM and emails it through Resend. It runs once and exits; schedule it with
// cron or a workflow engine.
//
// Usage:
//
//	newsletter [-env-file .env] [-date 2024-06-01] [-dry-run] [-force]
//
// Exit status is 0 when the digest was sent (or already sent for the date)
// and 1 on any configuration, fetch or dispatch error.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/newsletter/internal/config"
	"github.com/dmitrymomot/newsletter/internal/newsletter"
	"github.com/dmitrymomot/newsletter/pkg/agent"
	"github.com/dmitrymomot/newsletter/pkg/agent/gemini"
	"github.com/dmitrymomot/newsletter/pkg/agent/openai"
	"github.com/dmitrymomot/newsletter/pkg/cache"
	"github.com/dmitrymomot/newsletter/pkg/logger"
	"github.com/dmitrymomot/newsletter/pkg/mailer"
	"github.com/dmitrymomot/newsletter/pkg/mailer/resend"
	"github.com/dmitrymomot/newsletter/pkg/redis"
	"github.com/dmitrymomot/newsletter/pkg/search"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2

	flushTimeout = 2 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, nil)
	stop()
	os.Exit(code)
}

type flags struct {
	envFile string
	date    string
	dryRun  bool
	force   bool
}

func parseFlags(args []string, stderr io.Writer) (flags, error) {
	var f flags
	fs := flag.NewFlagSet("newsletter", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.envFile, "env-file", ".env", "dotenv file to seed the environment from (ignored if missing)")
	fs.StringVar(&f.date, "date", "", "digest date as YYYY-MM-DD (default: today)")
	fs.BoolVar(&f.dryRun, "dry-run", false, "fetch and print the digest without sending it")
	fs.BoolVar(&f.force, "force", false, "send even if the digest for this date was already sent")
	if err := fs.Parse(args); err != nil {
		return f, err
	}
	if fs.NArg() > 0 {
		return f, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return f, nil
}

// run is main without process globals. A nil environ means the process environment.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, environ map[string]string) int {
	f, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, "error:", err)
		return exitUsage
	}

	now := time.Now
	if f.date != "" {
		date, err := time.ParseInLocation(mailer.DateLayout, f.date, time.Local)
		if err != nil {
			fmt.Fprintf(stderr, "error: invalid -date %q: expected YYYY-MM-DD\n", f.date)
			return exitUsage
		}
		now = func() time.Time { return date }
	}

	opts := []config.Option{config.WithEnvFile(f.envFile)}
	if environ != nil {
		opts = append(opts, config.WithEnvironment(environ))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		logger.New(logger.Config{Format: "text"}, stderr).ErrorContext(ctx, "failed to load configuration",
			slog.Any("error", err),
		)
		return exitFailure
	}

	log := logger.NewWithSentry(cfg.Log, cfg.Sentry, stderr, logger.RunIDExtractor())
	defer logger.Flush(flushTimeout)

	ctx = logger.WithRunID(ctx, uuid.NewString())
	log.InfoContext(ctx, "configuration loaded", slog.Any("config", cfg))

	runner, cleanup, err := build(ctx, cfg, f, now, log)
	if err != nil {
		log.ErrorContext(ctx, "failed to initialize", slog.Any("error", err))
		return exitFailure
	}
	defer cleanup()

	res, err := runner.Run(ctx)
	if err != nil {
		log.ErrorContext(ctx, "newsletter run failed",
			slog.String("kind", errorKind(err)),
			slog.Any("error", err),
		)
		return exitFailure
	}

	if f.dryRun {
		fmt.Fprintln(stdout, res.Digest)
		return exitOK
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output{
		Confirmation: res.Confirmation,
		Date:         res.Date,
		Subject:      res.Subject,
		Skipped:      res.Skipped,
		Sources:      res.Sources,
	}); err != nil {
		log.ErrorContext(ctx, "failed to print result", slog.Any("error", err))
		return exitFailure
	}
	return exitOK
}

// output is what gets printed after a send; the digest itself is omitted.
type output struct {
	Confirmation *mailer.Confirmation `json:"confirmation,omitempty"`
	Date         string               `json:"date"`
	Subject      string               `json:"subject"`
	Sources      []agent.Source       `json:"sources,omitempty"`
	Skipped      bool                 `json:"skipped,omitempty"`
}

func build(ctx context.Context, cfg config.Config, f flags, now func() time.Time, log *slog.Logger) (*newsletter.Runner, func(), error) {
	cleanup := func() {}

	a, err := newAgent(ctx, cfg, log)
	if err != nil {
		return nil, cleanup, err
	}

	prompt, err := newsletter.DigestPrompt()
	if err != nil {
		return nil, cleanup, err
	}

	sender, err := resend.New(cfg.Resend)
	if err != nil {
		return nil, cleanup, err
	}

	opts := []newsletter.Option{
		newsletter.WithLogger(log),
		newsletter.WithClock(now),
		newsletter.WithDryRun(f.dryRun),
		newsletter.WithForce(f.force),
		newsletter.WithStrictHTML(cfg.StrictHTML),
		newsletter.WithSanitizeHTML(cfg.SanitizeHTML),
		newsletter.WithMarkdownFallback(cfg.MarkdownFallback),
	}

	if cfg.RedisURL != "" && !f.dryRun {
		client, err := redis.Open(ctx, cfg.RedisURL, cfg.Redis.Options()...)
		if err != nil {
			log.WarnContext(ctx, "send guard disabled: redis unavailable", slog.Any("error", err))
		} else {
			store := cache.NewRedis[string](client, nil, cache.RedisConfig{
				Prefix:      "newsletter:sent",
				DefaultTTL:  newsletter.DefaultGuardTTL,
				CloseClient: true,
			})
			cleanup = func() { _ = store.Close() }
			opts = append(opts, newsletter.WithGuard(newsletter.NewCacheGuard(store, newsletter.DefaultGuardTTL)))
		}
	}

	fetcher := agent.NewFetcher(a, prompt, cfg.Fetch, agent.WithLogger(log))
	dispatcher := mailer.NewDispatcher(sender, cfg.Mailer, mailer.WithLogger(log))

	return newsletter.NewRunner(fetcher, dispatcher, cfg.Recipient, opts...), cleanup, nil
}

func newAgent(ctx context.Context, cfg config.Config, log *slog.Logger) (agent.Agent, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		searcher := search.New(cfg.Search, search.WithLogger(log))
		return openai.New(cfg.OpenAI, searcher, openai.WithLogger(log))
	default:
		return gemini.New(ctx, cfg.Gemini)
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, newsletter.ErrContentFetch):
		return "content_fetch"
	case errors.Is(err, newsletter.ErrDispatch):
		return "dispatch"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "unknown"
	}
}
