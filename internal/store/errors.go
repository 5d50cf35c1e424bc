package store

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"syscall"
)

// ErrorType represents the category of a store failure
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error (connection refused, timeout, etc.)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the server refused the connection
	ErrTypeConnectionRefused
	// ErrTypeHTTP indicates an unexpected HTTP status
	ErrTypeHTTP
	// ErrTypeNotFound indicates the handle does not exist
	ErrTypeNotFound
	// ErrTypeDecode indicates a malformed response or stored document
	ErrTypeDecode
	// ErrTypeInvalidHandle indicates a handle with characters the server refuses
	ErrTypeInvalidHandle
	// ErrTypeUnknown indicates an unknown or unexpected error
	ErrTypeUnknown
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeNotFound:
		return "Not Found"
	case ErrTypeDecode:
		return "Decode Error"
	case ErrTypeInvalidHandle:
		return "Invalid Handle"
	case ErrTypeUnknown:
		return "Unknown Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// StoreError is a failed store operation
type StoreError struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	Err        error     // Underlying error (if any)
	Retryable  bool      // Whether the operation may succeed if repeated
}

// Error implements the error interface
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *StoreError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError maps a transport error to a StoreError
func ClassifyNetworkError(err error) *StoreError {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) {
		return &StoreError{Type: ErrTypeTimeout, Message: "request timed out", Err: err, Retryable: true}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return &StoreError{Type: ErrTypeConnectionRefused, Message: "server refused connection", Err: err, Retryable: true}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != err {
		return ClassifyNetworkError(urlErr.Err)
	}

	return &StoreError{Type: ErrTypeNetwork, Message: "network error occurred", Err: err, Retryable: true}
}

// NewNetworkError creates a network-level error with automatic classification
func NewNetworkError(message string, err error) *StoreError {
	e := ClassifyNetworkError(err)
	if e == nil {
		return &StoreError{Type: ErrTypeNetwork, Message: message, Retryable: true}
	}
	e.Message = message
	return e
}

// NewHTTPError creates an HTTP-level error. Server errors are retryable.
func NewHTTPError(statusCode int, message string) *StoreError {
	if statusCode == http.StatusNotFound {
		return NewNotFoundError(message)
	}
	return &StoreError{
		Type:       ErrTypeHTTP,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  statusCode >= 500,
	}
}

// NewNotFoundError creates a missing-handle error
func NewNotFoundError(message string) *StoreError {
	return &StoreError{Type: ErrTypeNotFound, Message: message, StatusCode: http.StatusNotFound}
}

// NewDecodeError creates a decode error
func NewDecodeError(message string, err error) *StoreError {
	return &StoreError{Type: ErrTypeDecode, Message: message, Err: err}
}

func errorType(err error) (ErrorType, bool) {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Type, true
	}
	return ErrTypeUnknown, false
}

// IsNetworkError checks if an error is a transport failure
func IsNetworkError(err error) bool {
	t, ok := errorType(err)
	return ok && (t == ErrTypeNetwork || t == ErrTypeTimeout || t == ErrTypeConnectionRefused)
}

// IsNotFound checks if an error reports a missing handle
func IsNotFound(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeNotFound
}

// IsHTTPError checks if an error is an unexpected HTTP status
func IsHTTPError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeHTTP
}

// IsRetryable checks if an operation should be retried
func IsRetryable(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Retryable
	}
	return false
}

// ShortMessage returns a concise, user-friendly error message
func ShortMessage(err error) string {
	var se *StoreError
	if !errors.As(err, &se) {
		return err.Error()
	}

	switch se.Type {
	case ErrTypeTimeout:
		return "Server not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Server refused connection - is boxes-server running?"
	case ErrTypeNetwork:
		return "Network error - check connection"
	case ErrTypeHTTP:
		return fmt.Sprintf("Server error (HTTP %d)", se.StatusCode)
	case ErrTypeNotFound:
		return "No document with that handle"
	case ErrTypeDecode:
		return "Stored document is malformed"
	default:
		return se.Message
	}
}
