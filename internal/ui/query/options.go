package query

import (
	"errors"
	"time"

	povodb "github.com/povodb/povodb-ui"
)

// Options control how a single query is fetched and refreshed
type Options struct {
	// StaleTime is how long a successful result is served from the cache without a network call
	StaleTime time.Duration

	// RefetchInterval refetches observed entries periodically regardless of freshness. 0 disables it.
	RefetchInterval time.Duration

	// Retry is the number of additional attempts after the first failure
	Retry int

	// RetryDelay returns the wait before retry number attempt (0 based)
	RetryDelay func(attempt int) time.Duration

	// Enabled is false when a required parameter is missing: the fetcher is not run at all
	Enabled bool

	// RefetchOnFocus refetches observed entries when Cache.Focus is called
	RefetchOnFocus bool

	// Refetch goes to the network even when the cached result is still fresh. Concurrent fetches of
	// the key are still shared.
	Refetch bool
}

type Option func(*Options)

func WithStaleTime(d time.Duration) Option {
	return func(o *Options) { o.StaleTime = d }
}

func WithRefetchInterval(d time.Duration) Option {
	return func(o *Options) { o.RefetchInterval = d }
}

func WithRetry(n int) Option {
	return func(o *Options) { o.Retry = n }
}

func WithRetryDelay(delay func(attempt int) time.Duration) Option {
	return func(o *Options) { o.RetryDelay = delay }
}

// WithEnabled gates the query, typically on the presence of a required id
func WithEnabled(enabled bool) Option {
	return func(o *Options) { o.Enabled = enabled }
}

func WithRefetchOnFocus(refetch bool) Option {
	return func(o *Options) { o.RefetchOnFocus = refetch }
}

// WithRefetch bypasses the staleness window for this call, e.g. for a periodic reload of an open view
func WithRefetch() Option {
	return func(o *Options) { o.Refetch = true }
}

// DefaultRetryDelay is the exponential backoff min(1s * 2^attempt, 30s)
func DefaultRetryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	// 2^5 seconds already exceeds the cap
	if attempt >= 5 {
		return povodb.MaxRetryDelay
	}
	return min(povodb.BaseRetryDelay<<attempt, povodb.MaxRetryDelay)
}

// permanentError marks an error that must not be retried
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so that the cache surfaces it without retrying
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was wrapped with Permanent
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}
