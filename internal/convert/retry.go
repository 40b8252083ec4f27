package convert

import (
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/huangsam/svnplot/internal/contract"
)

// RetryPolicy decides how often a failed conversion attempt is repeated.
type RetryPolicy struct {
	MaxAttempts uint
	Delay       time.Duration

	// Retryable reports whether an attempt error may be retried.
	// Nil means IsSourceError.
	Retryable func(error) bool
}

// DefaultRetryPolicy retries log source failures up to three attempts in total.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: contract.DefaultMaxRetries,
		Delay:       contract.DefaultRetryDelay,
	}
}

// IsSourceError reports whether err came from the log source.
func IsSourceError(err error) bool {
	var se *contract.SourceError
	return errors.As(err, &se)
}

func (p RetryPolicy) retryable(err error) bool {
	if p.Retryable != nil {
		return p.Retryable(err)
	}
	return IsSourceError(err)
}

func (p RetryPolicy) attempts() uint {
	return max(p.MaxAttempts, 1)
}

func (p RetryPolicy) backOff() backoff.BackOff {
	return backoff.NewConstantBackOff(p.Delay)
}
