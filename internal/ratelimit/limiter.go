package ratelimit

import (
	"context"
	"os"

	"golang.org/x/time/rate"
)

// Limiter throttles requests to the upstream data source. It is shared by
// all screening workers so the whole run respects the upstream's request
// rate regardless of concurrency.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a limiter allowing requestsPerSecond sustained requests with a
// burst of one. A non-positive rate disables limiting, as does test mode,
// so the backoff-heavy retry tests do not also wait on the limiter.
func New(requestsPerSecond float64) *Limiter {
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 || isTestMode() {
		limit = rate.Inf
	}

	return &Limiter{
		limiter: rate.NewLimiter(limit, 1),
	}
}

// isTestMode checks if we're running in test mode
func isTestMode() bool {
	if os.Getenv("GO_TESTING") == "1" {
		return true
	}
	for _, arg := range os.Args {
		if len(arg) > 6 && arg[:6] == "-test." {
			return true
		}
	}
	return false
}

// Wait blocks until the limiter permits a request or the context is canceled
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow reports whether a request may happen now without waiting
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}
