package search

import "errors"

var (
	// ErrEmptyQuery is returned for blank queries.
	ErrEmptyQuery = errors.New("search: empty query")

	// ErrRequestFailed indicates the search backend could not be reached or answered with an error status.
	ErrRequestFailed = errors.New("search: request failed")

	// ErrDecodeFailed indicates the backend response could not be parsed.
	ErrDecodeFailed = errors.New("search: failed to decode response")
)
