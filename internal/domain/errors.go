package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")

	// ErrCacheMiss indicates a cache miss
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheExpired indicates the cached entry has expired
	ErrCacheExpired = errors.New("cache entry expired")

	// ErrRateLimited indicates rate limiting was encountered
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout indicates a timeout occurred
	ErrTimeout = errors.New("timeout")

	// ErrUnauthorized indicates a missing or mismatched credential
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidPlatform indicates an unknown platform value
	ErrInvalidPlatform = errors.New("invalid platform")

	// ErrMissingQuery indicates a search without a query
	ErrMissingQuery = errors.New("missing query")

	// ErrCircuitOpen indicates a request refused by an open circuit breaker
	ErrCircuitOpen = errors.New("circuit open")
)

// Error codes used in HTTP error bodies
const (
	CodeInvalidPlatform = "INVALID_PLATFORM"
	CodeMissingQuery    = "MISSING_QUERY"
	CodeNotFound        = "NOT_FOUND"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeUpstream        = "UPSTREAM_ERROR"
	CodeInternal        = "INTERNAL_ERROR"
)

// FetchError represents an error during fetching
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError
func NewFetchError(url string, statusCode int, err error) *FetchError {
	return &FetchError{
		URL:        url,
		StatusCode: statusCode,
		Err:        err,
	}
}

// RetryableError indicates an error that can be retried
type RetryableError struct {
	Err        error
	RetryAfter int // Seconds to wait before retry, 0 if unknown
}

func (e *RetryableError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("retryable error (retry after %ds): %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("retryable error: %v", e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	var retryable *RetryableError
	if errors.As(err, &retryable) {
		return true
	}

	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		switch fetchErr.StatusCode {
		case 429, 503, 502, 504:
			return true
		}
	}

	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTimeout)
}

// Upstream stages
const (
	StageCatalog = "catalog"
	StageDetails = "details"
)

// UpstreamError reports a failed call to the third-party catalog API.
type UpstreamError struct {
	Stage      string
	URL        string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("upstream %s request failed (HTTP %d): %v", e.Stage, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("upstream %s request failed: %v", e.Stage, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError wraps err as an UpstreamError, lifting the status code and
// URL out of a FetchError when one is present.
func NewUpstreamError(stage string, err error) *UpstreamError {
	ue := &UpstreamError{Stage: stage, Err: err}
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		ue.URL = fetchErr.URL
		ue.StatusCode = fetchErr.StatusCode
	}
	return ue
}

// IsUpstream reports whether err originates from the upstream API.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Code    string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, code, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// AuthError is returned when a privileged operation is attempted without a
// valid credential.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("unauthorized: %s", e.Reason)
}

func (e *AuthError) Unwrap() error {
	return ErrUnauthorized
}
