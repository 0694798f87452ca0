package domain

import "errors"

var (
	// ErrInvalidQuery marks input that is empty after normalization.
	// Never retried.
	ErrInvalidQuery = errors.New("query is empty or whitespace-only")
	// ErrUpstreamTimeout marks a candidate lookup that exceeded its
	// deadline. Retried up to the configured bound.
	ErrUpstreamTimeout = errors.New("catalog lookup timed out")
	// ErrUpstreamUnavailable marks a non-timeout catalog failure
	// (network error, 4xx, 5xx). Not retried.
	ErrUpstreamUnavailable = errors.New("catalog unavailable")
	ErrExportNotFound      = errors.New("export not found")
	ErrBatchTooLarge       = errors.New("batch exceeds maximum row count")
)
