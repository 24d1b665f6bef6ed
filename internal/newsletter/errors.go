package newsletter

import (
	"errors"
	"strings"

	"github.com/dmitrymomot/newsletter/pkg/sanitizer"
)

var (
	// ErrContentFetch is matched by *ContentFetchError.
	ErrContentFetch = errors.New("newsletter: content fetch failed")

	// ErrDispatch is matched by *DispatchError.
	ErrDispatch = errors.New("newsletter: dispatch failed")

	// ErrEmptyDigest is returned when nothing is left after sanitizing.
	ErrEmptyDigest = errors.New("newsletter: digest is empty")

	// ErrMalformedHTML is returned in strict mode when the digest is not well-formed.
	ErrMalformedHTML = errors.New("newsletter: digest is not well-formed HTML")
)

// ContentFetchError reports that the provider call failed or returned
// content that cannot be sent.
type ContentFetchError struct {
	Err      error
	Problems []sanitizer.Problem
}

func (e *ContentFetchError) Error() string {
	msg := ErrContentFetch.Error() + ": " + e.Err.Error()
	if len(e.Problems) > 0 {
		parts := make([]string, len(e.Problems))
		for i, p := range e.Problems {
			parts[i] = p.String()
		}
		msg += " (" + strings.Join(parts, "; ") + ")"
	}
	return msg
}

func (e *ContentFetchError) Unwrap() []error { return []error{ErrContentFetch, e.Err} }

// DispatchError reports that the email provider did not accept the digest.
type DispatchError struct {
	Err error
}

func (e *DispatchError) Error() string {
	return ErrDispatch.Error() + ": " + e.Err.Error()
}

func (e *DispatchError) Unwrap() []error { return []error{ErrDispatch, e.Err} }
