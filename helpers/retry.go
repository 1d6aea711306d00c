package helpers

import (
	"context"
	"time"

	"sjsage522/upworkscanner/logger"
	scanerrors "sjsage522/upworkscanner/pkg/errors"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy describes how often and how far apart an operation is re-run
type RetryPolicy struct {
	Attempts   int
	Delay      time.Duration
	Multiplier float64
}

// newBackOff builds the exponential schedule of the policy. The first retry
// waits Delay, each following one Multiplier times longer.
func (p RetryPolicy) newBackOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.Delay
	exp.Multiplier = p.Multiplier
	exp.RandomizationFactor = 0
	exp.MaxInterval = p.Delay * time.Duration(1<<10)
	exp.MaxElapsedTime = 0
	exp.Reset()

	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(attempts-1)), ctx)
}

// Retry calls fn until it succeeds, returns a non-retryable error or the
// policy runs out of attempts. The last error is returned.
func Retry(ctx context.Context, policy RetryPolicy, scope string, fn func(ctx context.Context, attempt int) error) error {
	log := logger.ForComponent(scope)
	attempt := 0

	op := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		attempt++
		err := fn(ctx, attempt)
		if err == nil {
			return nil
		}
		if !scanerrors.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", wait).Msg("Attempt failed, retrying")
	}

	return backoff.RetryNotify(op, policy.newBackOff(ctx), notify)
}
