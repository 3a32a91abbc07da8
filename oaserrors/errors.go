package oaserrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrFetch indicates the document could not be retrieved.
	ErrFetch = errors.New("fetch error")

	// ErrResponse indicates a non-success HTTP status.
	ErrResponse = errors.New("response error")

	// ErrDecode indicates the response body is not a usable document.
	ErrDecode = errors.New("decode error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// FetchError represents a transport-level failure: network unreachable,
// DNS failure, connection refused, timeout or cancellation.
type FetchError struct {
	// URL is the document URL that was requested
	URL string
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *FetchError) Error() string {
	msg := "fetch error"
	if e.URL != "" {
		msg += " for " + e.URL
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

// ResponseError represents a response with a status code outside 2xx.
type ResponseError struct {
	// URL is the document URL that was requested
	URL string
	// StatusCode is the HTTP status code returned
	StatusCode int
	// Status is the full status line, e.g. "503 Service Unavailable"
	Status string
}

// Error returns a human-readable error message.
func (e *ResponseError) Error() string {
	msg := fmt.Sprintf("response error: HTTP %d", e.StatusCode)
	if e.Status != "" {
		msg = "response error: HTTP " + e.Status
	}
	if e.URL != "" {
		msg += " from " + e.URL
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ResponseError) Is(target error) bool {
	return target == ErrResponse
}

// DecodeError represents a body that is not valid JSON (or YAML), or that
// lacks the structure a merge needs, such as the paths object.
type DecodeError struct {
	// URL is the document URL the body came from
	URL string
	// Field is the JSON path of the offending field (empty for syntax errors)
	Field string
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *DecodeError) Error() string {
	msg := "decode error"
	if e.URL != "" {
		msg += " for " + e.URL
	}
	if e.Field != "" {
		msg += " at " + e.Field
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// ConfigError represents an invalid configuration or input.
// A malformed registry entry is reported this way before any fetch runs.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
