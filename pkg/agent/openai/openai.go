// Package openai runs agent requests on any OpenAI-compatible chat
// completions API, exposing web search as a function tool.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/dmitrymomot/newsletter/pkg/agent"
	"github.com/dmitrymomot/newsletter/pkg/search"
)

const (
	providerName   = "openai"
	searchToolName = "web_search"
)

// Config holds OpenAI-compatible provider configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	APIKey        string `env:"OPENAI_API_KEY"`
	BaseURL       string `env:"OPENAI_BASE_URL"`
	Model         string `env:"OPENAI_MODEL" envDefault:"gpt-4.1"`
	MaxToolRounds int    `env:"OPENAI_MAX_TOOL_ROUNDS" envDefault:"4"`
}

// Agent implements agent.Agent with a tool-calling loop: the model may call
// web_search until it answers or MaxToolRounds is reached.
type Agent struct {
	client   *openai.Client
	searcher search.Searcher
	logger   *slog.Logger
	config   Config
}

// Option configures the agent.
type Option func(*Agent)

// WithLogger sets the logger used for tool calls.
func WithLogger(l *slog.Logger) Option {
	return func(a *Agent) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an OpenAI-compatible agent backed by searcher.
func New(cfg Config, searcher search.Searcher, opts ...Option) (*Agent, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if searcher == nil {
		return nil, ErrNoSearcher
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4.1"
	}
	if cfg.MaxToolRounds <= 0 {
		cfg.MaxToolRounds = 4
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	a := &Agent{
		client:   openai.NewClientWithConfig(clientConfig),
		searcher: searcher,
		config:   cfg,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

type searchArgs struct {
	Query string `json:"query"`
}

var searchTool = openai.Tool{
	Type: openai.ToolTypeFunction,
	Function: &openai.FunctionDefinition{
		Name:        searchToolName,
		Description: "Search the web for recent pages. Returns titles, URLs and snippets.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Search query",
				},
			},
			"required": []string{"query"},
		},
	},
}

// Run executes req, resolving web_search tool calls until the model answers.
// On the last round tools are withheld so the model must answer.
func (a *Agent) Run(ctx context.Context, req agent.Request) (*agent.Response, error) {
	var messages []openai.ChatCompletionMessage
	if system := agent.SystemPrompt(req); system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Task,
	})

	var sources []agent.Source
	for round := 0; round <= a.config.MaxToolRounds; round++ {
		completion := openai.ChatCompletionRequest{
			Model:    a.config.Model,
			Messages: messages,
		}
		if round < a.config.MaxToolRounds {
			completion.Tools = []openai.Tool{searchTool}
		}

		resp, err := a.client.CreateChatCompletion(ctx, completion)
		if err != nil {
			return nil, classify(err)
		}
		if len(resp.Choices) == 0 {
			return nil, &agent.ProviderError{Provider: providerName, Err: ErrNoChoices}
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			return &agent.Response{
				Content: msg.Content,
				Model:   resp.Model,
				Sources: sources,
			}, nil
		}

		messages = append(messages, msg)
		for _, call := range msg.ToolCalls {
			content, found := a.callTool(ctx, call)
			sources = append(sources, found...)
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    content,
				ToolCallID: call.ID,
			})
		}
	}

	return nil, agent.ErrToolRoundsExceeded
}

// callTool runs one tool call. Failures are reported to the model as text.
func (a *Agent) callTool(ctx context.Context, call openai.ToolCall) (string, []agent.Source) {
	if call.Function.Name != searchToolName {
		return "Error: unknown tool " + call.Function.Name, nil
	}

	var args searchArgs
	if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
		return "Error: invalid arguments: " + err.Error(), nil
	}

	results, err := a.searcher.Search(ctx, args.Query)
	if err != nil {
		a.logger.WarnContext(ctx, "web search failed",
			slog.String("query", args.Query),
			slog.Any("error", err),
		)
		return "Error: search failed: " + err.Error(), nil
	}

	a.logger.DebugContext(ctx, "web search",
		slog.String("query", args.Query),
		slog.Int("results", len(results)),
	)

	found := make([]agent.Source, 0, len(results))
	for _, r := range results {
		found = append(found, agent.Source{Title: r.Title, URL: r.URL})
	}
	return search.Format(results), found
}

func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &agent.ProviderError{Provider: providerName, StatusCode: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &agent.ProviderError{Provider: providerName, StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	return &agent.ProviderError{Provider: providerName, Err: err}
}

var _ agent.Agent = (*Agent)(nil)
