package gemini

import "errors"

var (
	ErrMissingAPIKey = errors.New("gemini: missing API key")
	ErrClientInit    = errors.New("gemini: failed to create client")
)
