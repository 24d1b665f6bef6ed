package agent

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

var (
	// ErrFetchFailed is returned by Fetcher when the agent call did not succeed.
	ErrFetchFailed = errors.New("agent: fetch failed")

	// ErrEmptyContent is returned when the model answered with no text.
	ErrEmptyContent = errors.New("agent: empty content")

	// ErrInvalidPrompt is returned for malformed prompt files or templates.
	ErrInvalidPrompt = errors.New("agent: invalid prompt")

	// ErrToolRoundsExceeded is returned when a tool-calling model never produced a final answer.
	ErrToolRoundsExceeded = errors.New("agent: tool call rounds exceeded")
)

// ProviderError is a failed call to a model provider.
type ProviderError struct {
	Err        error
	Provider   string
	StatusCode int
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Retryable reports whether the call may succeed if repeated:
// rate limits, server errors and transport failures (no status).
func (e *ProviderError) Retryable() bool {
	switch {
	case e.StatusCode == 0:
		return !errors.Is(e.Err, context.Canceled)
	case e.StatusCode == http.StatusTooManyRequests, e.StatusCode == http.StatusRequestTimeout:
		return true
	case e.StatusCode >= 500:
		return true
	default:
		return false
	}
}

// IsRetryable reports whether err is a transient provider failure.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Retryable()
	}

	var ne net.Error
	return errors.As(err, &ne)
}
