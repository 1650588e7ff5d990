package errors

import (
	"errors"
	"fmt"
)

// Domain errors - these represent business rule violations
var (
	// Authentication & Authorization
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("action forbidden")

	// Metrics queries
	ErrInvalidRange      = errors.New("custom range end precedes start")
	ErrInvalidTimeRange  = errors.New("unknown time range preset")
	ErrInvalidTypeFilter = errors.New("unknown ticket type filter")

	// Notification feed
	ErrEventNotFound = errors.New("notification event not found")

	// Ledger persistence. Reads failing are tolerated (the feed starts
	// from an empty ledger); writes failing are reported to the caller
	// without rolling back the in-memory update.
	ErrLedgerRead  = errors.New("ledger read failed")
	ErrLedgerWrite = errors.New("ledger write failed")

	// Generic
	ErrNotFound    = errors.New("resource not found")
	ErrInternal    = errors.New("internal server error")
	ErrBadRequest  = errors.New("bad request")
	ErrRateLimited = errors.New("rate limit exceeded")
)

// AppError wraps errors with additional context for HTTP responses
type AppError struct {
	Err        error  // The underlying error
	Message    string // User-friendly message
	Code       string // Machine-readable error code
	StatusCode int    // HTTP status code
	Details    map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error constructors for common cases
func NewBadRequestError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "BAD_REQUEST",
		StatusCode: 400,
	}
}

func NewInvalidRangeError(message string) *AppError {
	return &AppError{
		Err:        ErrInvalidRange,
		Message:    message,
		Code:       "INVALID_RANGE",
		StatusCode: 400,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Err:        ErrUnauthorized,
		Message:    message,
		Code:       "UNAUTHORIZED",
		StatusCode: 401,
	}
}

func NewNotFoundError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "NOT_FOUND",
		StatusCode: 404,
	}
}

func NewRateLimitError() *AppError {
	return &AppError{
		Err:        ErrRateLimited,
		Message:    "Too many requests. Please try again later.",
		Code:       "RATE_LIMITED",
		StatusCode: 429,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "An unexpected error occurred",
		Code:       "INTERNAL_ERROR",
		StatusCode: 500,
	}
}

// LedgerWriteError wraps a persistence failure so callers can tell the
// feed state is still valid in memory but was not durably saved.
func LedgerWriteError(err error) error {
	return fmt.Errorf("%w: %v", ErrLedgerWrite, err)
}

// LedgerReadError wraps a persistence read failure for logging; the
// notification service degrades to an empty ledger on it.
func LedgerReadError(err error) error {
	return fmt.Errorf("%w: %v", ErrLedgerRead, err)
}
