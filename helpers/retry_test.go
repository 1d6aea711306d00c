package helpers

import (
	"context"
	"errors"
	"testing"
	"time"

	scanerrors "sjsage522/upworkscanner/pkg/errors"

	"github.com/stretchr/testify/assert"
)

var fastPolicy = RetryPolicy{Attempts: 3, Delay: time.Millisecond, Multiplier: 2}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	var attempts []int
	err := Retry(context.Background(), fastPolicy, "test", func(ctx context.Context, attempt int) error {
		attempts = append(attempts, attempt)
		if attempt < 3 {
			return scanerrors.NewBrowser("test", "flaky", nil)
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, attempts)
}

func TestRetryExhausted(t *testing.T) {
	calls := 0
	wantErr := errors.New("still failing")
	err := Retry(context.Background(), fastPolicy, "test", func(ctx context.Context, attempt int) error {
		calls++
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 3, calls)
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastPolicy, "test", func(ctx context.Context, attempt int) error {
		calls++
		return scanerrors.NewConfiguration("bad config", nil)
	})
	var scanErr *scanerrors.ScanError
	assert.True(t, errors.As(err, &scanErr))
	assert.Equal(t, scanerrors.ErrorTypeConfiguration, scanErr.Type)
	assert.Equal(t, 1, calls)
}

func TestRetrySingleAttempt(t *testing.T) {
	calls := 0
	policy := RetryPolicy{Attempts: 0, Delay: time.Millisecond, Multiplier: 2}
	err := Retry(context.Background(), policy, "test", func(ctx context.Context, attempt int) error {
		calls++
		return errors.New("fail")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Retry(ctx, fastPolicy, "test", func(ctx context.Context, attempt int) error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}

func TestRetryBackOffSchedule(t *testing.T) {
	policy := RetryPolicy{Attempts: 4, Delay: 100 * time.Millisecond, Multiplier: 2}
	b := policy.newBackOff(context.Background())
	b.Reset()

	assert.Equal(t, 100*time.Millisecond, b.NextBackOff())
	assert.Equal(t, 200*time.Millisecond, b.NextBackOff())
	assert.Equal(t, 400*time.Millisecond, b.NextBackOff())
	assert.Less(t, b.NextBackOff(), time.Duration(0))
}

func TestRandomUserAgent(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.Contains(t, userAgents, RandomUserAgent())
	}
}
