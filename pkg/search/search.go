package search

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBraveURL      = "https://api.search.brave.com/res/v1/web/search"
	defaultDuckDuckGoURL = "https://html.duckduckgo.com/html/"
	userAgent            = "Mozilla/5.0 (compatible; ai-newsletter/1.0)"
)

// Result is a single web search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Searcher defines the interface for web search.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// Config holds search configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	BraveAPIKey string        `env:"BRAVE_API_KEY"`
	MaxResults  int           `env:"SEARCH_MAX_RESULTS" envDefault:"6"`
	Timeout     time.Duration `env:"SEARCH_TIMEOUT" envDefault:"15s"`
}

// Web searches Brave (when keyed) with a DuckDuckGo fallback.
type Web struct {
	client        *http.Client
	logger        *slog.Logger
	braveURL      string
	duckDuckGoURL string
	config        Config
}

// Option configures Web.
type Option func(*Web)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(w *Web) {
		if c != nil {
			w.client = c
		}
	}
}

// WithEndpoints overrides the Brave and DuckDuckGo URLs. Empty values keep the defaults.
func WithEndpoints(brave, duckDuckGo string) Option {
	return func(w *Web) {
		if brave != "" {
			w.braveURL = brave
		}
		if duckDuckGo != "" {
			w.duckDuckGoURL = duckDuckGo
		}
	}
}

// WithLogger sets the logger used to report fallbacks.
func WithLogger(l *slog.Logger) Option {
	return func(w *Web) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a Web searcher.
func New(cfg Config, opts ...Option) *Web {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 6
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	w := &Web{
		config:        cfg,
		client:        &http.Client{Timeout: cfg.Timeout},
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		braveURL:      defaultBraveURL,
		duckDuckGoURL: defaultDuckDuckGoURL,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Search performs a web search using the available backends.
func (w *Web) Search(ctx context.Context, query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	if w.config.BraveAPIKey != "" {
		results, err := w.searchBrave(ctx, query)
		if err == nil {
			return results, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		w.logger.WarnContext(ctx, "brave search failed, falling back to duckduckgo",
			slog.String("query", query),
			slog.Any("error", err),
		)
	}

	return w.searchDuckDuckGo(ctx, query)
}

// Format renders results as numbered plain text for a model prompt.
func Format(results []Result) string {
	if len(results) == 0 {
		return "No results found"
	}

	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%d. %s\nURL: %s", i+1, r.Title, r.URL)
		if r.Snippet != "" {
			fmt.Fprintf(&b, "\nSnippet: %s", r.Snippet)
		}
	}
	return b.String()
}

func (w *Web) do(req *http.Request) ([]byte, error) {
	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrRequestFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrRequestFailed, resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ Searcher = (*Web)(nil)
