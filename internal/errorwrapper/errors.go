package errorwrapper

import (
	"errors"
	"fmt"
)

// Common error types used across the application
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrPermissionDenied indicates access permission issues
	ErrPermissionDenied = errors.New("permission denied")
	// ErrTimeout indicates an operation timed out
	ErrTimeout = errors.New("operation timed out")
	// ErrNetworkFailure indicates network connectivity issues
	ErrNetworkFailure = errors.New("network failure")
	// ErrInvalidConfiguration indicates configuration issues
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// WrapError wraps an error with additional context information
func WrapError(err error, message string) error {
	if err == nil {
		return fmt.Errorf("%s: <nil>", message)
	}
	return fmt.Errorf("%s: %w", message, err)
}

// NewError creates a new error with a formatted message
func NewError(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// NetworkError represents network-related errors
type NetworkError struct {
	URL     string
	Reason  string
	Wrapped error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error for URL '%s': %s", e.URL, e.Reason)
}

func (e *NetworkError) Unwrap() error {
	return e.Wrapped
}

// NewNetworkError creates a new network error
func NewNetworkError(url, reason string, wrapped error) *NetworkError {
	return &NetworkError{
		URL:     url,
		Reason:  reason,
		Wrapped: wrapped,
	}
}

// HTTPError represents HTTP-related errors
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d error for URL '%s'", e.StatusCode, e.URL)
}

// NewHTTPError creates a new HTTP error
func NewHTTPError(statusCode int, url string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		URL:        url,
	}
}

// ExtractionError indicates a response was received but the expected
// signal could not be extracted from it.
type ExtractionError struct {
	URL    string
	What   string
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error for URL '%s': %s: %s", e.URL, e.What, e.Reason)
}

// NewExtractionError creates a new extraction error
func NewExtractionError(url, what, reason string) *ExtractionError {
	return &ExtractionError{
		URL:    url,
		What:   what,
		Reason: reason,
	}
}
