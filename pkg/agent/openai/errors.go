package openai

import "errors"

var (
	ErrMissingAPIKey = errors.New("openai: missing API key")
	ErrNoSearcher    = errors.New("openai: searcher is required")
	ErrNoChoices     = errors.New("openai: response has no choices")
)
