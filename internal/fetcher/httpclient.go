package fetcher

import (
	"time"

	"github.com/rs/zerolog/log"
	"resty.dev/v3"
)

const (
	// Retry configuration: 3 total attempts, exponential backoff doubling
	// from a 1 second base, capped at 10 seconds. Jitter is applied by
	// resty between the base and the cap.
	defaultRetryCount       = 2
	defaultRetryWaitTime    = 1 * time.Second
	defaultRetryMaxWaitTime = 10 * time.Second
)

// NewHTTPClient creates a new HTTP client with retry logic and exponential backoff
func NewHTTPClient(baseURL string) *resty.Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetRetryCount(defaultRetryCount).
		SetRetryWaitTime(defaultRetryWaitTime).
		SetRetryMaxWaitTime(defaultRetryMaxWaitTime).
		AddRetryConditions(retryCondition).
		AddRetryHooks(retryHook)

	return client
}

// retryCondition determines whether a request should be retried based on the response and error
func retryCondition(r *resty.Response, err error) bool {
	// Retry on network errors
	if err != nil {
		return true
	}

	// Retry on server errors (5xx)
	if r.StatusCode() >= 500 {
		return true
	}

	// Retry on rate limit (429)
	if r.StatusCode() == 429 {
		return true
	}

	// Retry on request timeout (408)
	if r.StatusCode() == 408 {
		return true
	}

	// Don't retry on client errors (4xx except 429)
	return false
}

// retryHook logs retry attempts for observability
func retryHook(r *resty.Response, err error) {
	if err != nil {
		log.Debug().
			Str("url", r.Request.URL).
			Int("attempt", r.Request.Attempt).
			Err(err).
			Msg("retrying request after error")
		return
	}

	log.Debug().
		Str("url", r.Request.URL).
		Int("attempt", r.Request.Attempt).
		Int("status_code", r.StatusCode()).
		Msg("retrying request after status code")
}
