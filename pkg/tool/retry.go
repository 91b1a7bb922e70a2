package tool

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
)

// RetryPolicy is a fixed-delay retry: no backoff, no jitter.
type RetryPolicy struct {
	Attempts uint
	Delay    time.Duration
}

// DefaultDBRetry is applied to database reads on background and gate paths.
var DefaultDBRetry = RetryPolicy{Attempts: 3, Delay: time.Second}

func (p RetryPolicy) options(ctx context.Context) []retry.Option {
	attempts := p.Attempts
	if attempts == 0 {
		attempts = 1
	}
	return []retry.Option{
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(p.Delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	}
}

// RetryDB runs fn until it succeeds or the policy is exhausted.
func RetryDB[T any](ctx context.Context, p RetryPolicy, fn func() (T, error)) (T, error) {
	return retry.DoWithData(fn, p.options(ctx)...)
}

// RetryDBExec is RetryDB for operations without a result.
func RetryDBExec(ctx context.Context, p RetryPolicy, fn func() error) error {
	return retry.Do(fn, p.options(ctx)...)
}
