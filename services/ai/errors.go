package ai

import "errors"

var (
	// ErrProviderDisabled is returned when no provider is configured. Every
	// generator falls back on it.
	ErrProviderDisabled = errors.New("ai provider disabled")

	// ErrTimeout indicates the provider call exceeded its deadline.
	ErrTimeout = errors.New("ai request timed out")

	// ErrUnavailable indicates the provider could not be reached.
	ErrUnavailable = errors.New("ai provider unavailable")

	// ErrEmptyResponse indicates a successful call that carried no text.
	ErrEmptyResponse = errors.New("ai provider returned no content")

	// ErrInvalidOutput indicates the response could not be parsed or
	// validated into the expected structure.
	ErrInvalidOutput = errors.New("invalid ai output format")

	// ErrRetryExhausted indicates all retry attempts failed.
	ErrRetryExhausted = errors.New("ai retry attempts exhausted")
)
