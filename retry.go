package agrilingo

import (
	"context"
	"errors"
	"time"
)

// Retry defaults used when a RetryPolicy leaves them unset.
const (
	DefaultRetryBackoff    = 500 * time.Millisecond
	DefaultRetryMaxBackoff = 4 * time.Second
)

// RetryPolicy lets the queue call the provider again when a call fails with a
// retryable error. Retries stay inside one queue entry: the next entry waits
// until they are over, and the key is marked failed only once they run out.
//
// Every retry goes through the same pacing as a fresh call and counts against
// the daily usage counter.
type RetryPolicy struct {
	// Attempts is the number of extra calls after the first failure.
	Attempts int
	// Backoff is the delay before the first retry, doubled for each later
	// one. It is measured from the start of the failed call, and the minimum
	// interval wins when it is longer.
	Backoff time.Duration
	// MaxBackoff caps the doubled delay.
	MaxBackoff time.Duration
}

// WithRetry makes the queue retry retryable provider errors. Retries are off
// by default.
func WithRetry(p RetryPolicy) ServiceOption {
	return func(s *Service) {
		s.retry = p
	}
}

// backoff returns the delay before retry n, counting from 1.
func (p RetryPolicy) backoff(n int) time.Duration {
	d, limit := p.Backoff, p.MaxBackoff
	if d <= 0 {
		d = DefaultRetryBackoff
	}
	if limit <= 0 {
		limit = DefaultRetryMaxBackoff
	}
	for i := 1; i < n && d < limit; i++ {
		d *= 2
	}
	return min(d, limit)
}

// allows reports whether a call that failed with err on the given attempt,
// counting from 0, may be retried.
func (p RetryPolicy) allows(attempt int, err error) bool {
	return attempt < p.Attempts && IsRetryable(err)
}

// IsRetryable reports whether err is a provider error worth another call.
// Cancellation and deadlines never are.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Retryable
	}
	return false
}
