package fetcher

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind represents the category of error that occurred during a fetch operation
type ErrorKind string

const (
	// KindInvalidTicker indicates a malformed symbol or an upstream report that the symbol does not exist
	KindInvalidTicker ErrorKind = "invalid_ticker"
	// KindMissingData indicates the upstream responded but a required financial field was absent
	KindMissingData ErrorKind = "missing_data"
	// KindNetwork indicates a transient network or server failure that persisted across all retries
	KindNetwork ErrorKind = "network"
	// KindRateLimit indicates upstream throttling (HTTP 429) that persisted across all retries
	KindRateLimit ErrorKind = "rate_limit"
	// KindCache indicates a cache persistence failure; callers degrade to bypass-cache behavior
	KindCache ErrorKind = "cache"
)

// FetchError represents a structured error from a fetch operation
type FetchError struct {
	Kind       ErrorKind
	Retryable  bool
	StatusCode int
	Ticker     string
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// NewInvalidTickerError creates an error for a malformed or nonexistent symbol
func NewInvalidTickerError(ticker string) *FetchError {
	return &FetchError{
		Kind:      KindInvalidTicker,
		Retryable: false,
		Ticker:    ticker,
		Message:   fmt.Sprintf("invalid ticker symbol %q", ticker),
	}
}

// NewMissingDataError creates an error for a response missing a required field
func NewMissingDataError(ticker, field string) *FetchError {
	return &FetchError{
		Kind:      KindMissingData,
		Retryable: false,
		Ticker:    ticker,
		Message:   fmt.Sprintf("required field %q missing for %s", field, ticker),
	}
}

// NewNetworkError creates a network error
func NewNetworkError(cause error) *FetchError {
	return &FetchError{
		Kind:      KindNetwork,
		Retryable: true,
		Message:   "network request failed",
		Cause:     cause,
	}
}

// NewRateLimitError creates a rate limit error
func NewRateLimitError(statusCode int) *FetchError {
	return &FetchError{
		Kind:       KindRateLimit,
		Retryable:  true,
		StatusCode: statusCode,
		Message:    "rate limit exceeded",
	}
}

// NewCacheError creates a cache persistence error
func NewCacheError(cause error) *FetchError {
	return &FetchError{
		Kind:      KindCache,
		Retryable: false,
		Message:   "cache operation failed",
		Cause:     cause,
	}
}

// ClassifyHTTPError classifies a terminal HTTP status code into a FetchError.
// Retryable statuses (5xx, 429, 408) only reach this point after the retry
// budget is exhausted, so the classification here is final.
func ClassifyHTTPError(statusCode int) *FetchError {
	switch {
	case statusCode == 429:
		return NewRateLimitError(statusCode)
	case statusCode >= 500 || statusCode == 408:
		return &FetchError{
			Kind:       KindNetwork,
			Retryable:  true,
			StatusCode: statusCode,
			Message:    "server returned an error",
		}
	case statusCode == 404:
		return &FetchError{
			Kind:       KindInvalidTicker,
			Retryable:  false,
			StatusCode: statusCode,
			Message:    "symbol not found",
		}
	default:
		return &FetchError{
			Kind:       KindNetwork,
			Retryable:  false,
			StatusCode: statusCode,
			Message:    fmt.Sprintf("unexpected status code: %d", statusCode),
		}
	}
}

// KindOf extracts the error kind, or an empty string for non-fetch errors
func KindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// Reason returns a human-readable skip reason for a failed fetch, suitable
// for the final report
func Reason(err error) string {
	switch KindOf(err) {
	case KindInvalidTicker:
		return "invalid ticker symbol"
	case KindMissingData:
		return "required financial data missing"
	case KindNetwork:
		return "network failure after retries"
	case KindRateLimit:
		return "upstream rate limit exceeded"
	case KindCache:
		return "cache failure"
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "run canceled"
	}
	return err.Error()
}
