// Package errors provides domain-specific error types for slidegen providers
package errors

import (
	"errors"
	"fmt"
)

// Standard errors that can be used with errors.Is()
var (
	// ErrInvalidConfig indicates a configuration error, such as a missing API key
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnknownProvider indicates a provider name with no registered factory
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrUnsupported indicates the backend lacks the requested capability
	ErrUnsupported = errors.New("operation not supported")

	// ErrMalformedResponse indicates a response body that could not be parsed
	// or was missing expected fields
	ErrMalformedResponse = errors.New("malformed response")
)

// ProviderError wraps provider-related errors with context
type ProviderError struct {
	// Provider is the name of the provider (e.g., "openai", "ollama")
	Provider string

	// Operation being performed (e.g., "create", "generate_image")
	Op string

	// Underlying error
	Err error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// New creates a new ProviderError
func New(provider, op string, err error) error {
	return &ProviderError{
		Provider: provider,
		Op:       op,
		Err:      err,
	}
}

// Newf creates a ProviderError whose cause wraps a sentinel with a formatted message
func Newf(provider, op string, sentinel error, format string, args ...interface{}) error {
	return &ProviderError{
		Provider: provider,
		Op:       op,
		Err:      fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...)),
	}
}

// Wrap adds provider context to an existing error
func Wrap(err error, provider, op string) error {
	if err == nil {
		return nil
	}
	return &ProviderError{
		Provider: provider,
		Op:       op,
		Err:      err,
	}
}
