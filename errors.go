package nslsolver

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is.
var (
	// ErrBadRequest matches HTTP 400 responses.
	ErrBadRequest = errors.New("bad request")
	// ErrAuthentication matches HTTP 401 responses (invalid API key).
	ErrAuthentication = errors.New("authentication failed")
	// ErrInsufficientBalance matches HTTP 402 responses.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrTypeNotAllowed matches HTTP 403 responses (captcha type not enabled for the key).
	ErrTypeNotAllowed = errors.New("captcha type not allowed")
	// ErrRateLimited matches HTTP 429 responses.
	ErrRateLimited = errors.New("rate limited")
	// ErrBackendFailure matches HTTP 503 responses.
	ErrBackendFailure = errors.New("solver backend failure")
	// ErrSolveFailed matches both 400 and 503 responses.
	ErrSolveFailed = errors.New("solve failed")
	// ErrNetwork matches failures where no HTTP response was received.
	ErrNetwork = errors.New("network error")
	// ErrInterrupted matches requests cancelled while waiting to retry.
	ErrInterrupted = errors.New("request interrupted")
	// ErrInvalidArgument matches client options or parameters rejected by validation.
	ErrInvalidArgument = errors.New("invalid argument")
)

type errorKind int

const (
	kindStatus errorKind = iota
	kindNetwork
	kindInterrupted
	kindDecode
)

// retryableStatus lists the status codes retried by the client.
var retryableStatus = map[int]bool{
	429: true,
	503: true,
}

// Error is returned by every API operation.
// StatusCode is the HTTP status of the response, or 0 when the failure
// happened before a response was received or after it could not be decoded.
type Error struct {
	StatusCode int
	Message    string
	Cause      error

	kind errorKind
}

// NewAPIError returns an error for a non-2xx response.
func NewAPIError(statusCode int, message string) *Error {
	return &Error{
		StatusCode: statusCode,
		Message:    message,
		kind:       kindStatus,
	}
}

func newNetworkError(message string, cause error) *Error {
	return &Error{Message: message, Cause: cause, kind: kindNetwork}
}

func newInterruptedError(message string, cause error) *Error {
	return &Error{Message: message, Cause: cause, kind: kindInterrupted}
}

func newDecodeError(message string, cause error) *Error {
	return &Error{Message: message, Cause: cause, kind: kindDecode}
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the client retries this error automatically.
// Only 429 and 503 responses are retryable.
func (e *Error) Retryable() bool {
	return e.kind == kindStatus && retryableStatus[e.StatusCode]
}

// Is implements errors.Is for the sentinel errors of this package.
func (e *Error) Is(target error) bool {
	switch e.kind {
	case kindNetwork:
		return target == ErrNetwork
	case kindInterrupted:
		return target == ErrInterrupted
	case kindDecode:
		return false
	}

	switch e.StatusCode {
	case 400:
		return target == ErrBadRequest || target == ErrSolveFailed
	case 401:
		return target == ErrAuthentication
	case 402:
		return target == ErrInsufficientBalance
	case 403:
		return target == ErrTypeNotAllowed
	case 429:
		return target == ErrRateLimited
	case 503:
		return target == ErrBackendFailure || target == ErrSolveFailed
	}
	return false
}

// StatusCode returns the HTTP status carried by err, or 0 if err is not an *Error
// or no response was received.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsRetryable reports whether err is an *Error the client would retry.
func IsRetryable(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	return false
}
