// Package gemini runs agent requests on Google Gemini with Google Search
// grounding enabled.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/dmitrymomot/newsletter/pkg/agent"
)

const providerName = "gemini"

// Config holds Gemini configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	APIKey  string `env:"GOOGLE_API_KEY"`
	Model   string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	BaseURL string `env:"GEMINI_BASE_URL"`
}

// Agent implements agent.Agent using the Gemini API.
type Agent struct {
	client *genai.Client
	model  string
}

// Option configures the Gemini agent.
type Option func(*genai.ClientConfig)

// WithHTTPClient sets the HTTP client used by the SDK.
func WithHTTPClient(c *http.Client) Option {
	return func(cc *genai.ClientConfig) {
		cc.HTTPClient = c
	}
}

// New creates a Gemini agent.
func New(ctx context.Context, cfg Config, opts ...Option) (*Agent, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: cfg.BaseURL,
		},
	}
	for _, opt := range opts {
		opt(cc)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, errors.Join(ErrClientInit, err)
	}

	return &Agent{client: client, model: cfg.Model}, nil
}

// Run sends req as a single grounded generateContent call.
func (a *Agent) Run(ctx context.Context, req agent.Request) (*agent.Response, error) {
	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
	if system := agent.SystemPrompt(req); system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.model, genai.Text(req.Task), config)
	if err != nil {
		return nil, classify(err)
	}

	out := &agent.Response{
		Content: resp.Text(),
		Model:   a.model,
		Sources: sources(resp),
	}
	if resp.ModelVersion != "" {
		out.Model = resp.ModelVersion
	}
	return out, nil
}

func sources(resp *genai.GenerateContentResponse) []agent.Source {
	if len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}

	seen := make(map[string]struct{})
	var out []agent.Source
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		if _, ok := seen[chunk.Web.URI]; ok {
			continue
		}
		seen[chunk.Web.URI] = struct{}{}
		out = append(out, agent.Source{Title: strings.TrimSpace(chunk.Web.Title), URL: chunk.Web.URI})
	}
	return out
}

func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &agent.ProviderError{
			Provider:   providerName,
			StatusCode: apiErr.Code,
			Err:        fmt.Errorf("%s: %s", apiErr.Status, apiErr.Message),
		}
	}
	return &agent.ProviderError{Provider: providerName, Err: err}
}

var _ agent.Agent = (*Agent)(nil)
