package exchange

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderError_Classification(t *testing.T) {
	cause := errors.New("connection reset")

	transient := Transient("klines", cause)
	assert.True(t, IsTransient(transient))
	assert.ErrorIs(t, transient, cause)
	assert.Contains(t, transient.Error(), "transient")

	permanent := Permanent("klines", cause)
	assert.False(t, IsTransient(permanent))
	assert.Contains(t, permanent.Error(), "permanent")

	wrapped := fmt.Errorf("outer: %w", transient)
	assert.True(t, IsTransient(wrapped))

	assert.False(t, IsTransient(errors.New("plain")))
}

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    3,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
	}
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastRetryConfig(), func() error {
		attempts++
		if attempts < 3 {
			return Transient("op", errors.New("flaky"))
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetry_PermanentErrorAbortsImmediately(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastRetryConfig(), func() error {
		attempts++
		return Permanent("op", errors.New("bad request"))
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.False(t, IsTransient(err) && attempts > 1)
}

func TestRetry_ExhaustsRetries(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastRetryConfig(), func() error {
		attempts++
		return Transient("op", errors.New("always down"))
	})
	require.Error(t, err)
	assert.Equal(t, 4, attempts) // initial try + 3 retries
	assert.True(t, IsTransient(err))
}

func TestRetry_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, fastRetryConfig(), func() error {
		return Transient("op", errors.New("flaky"))
	})
	assert.ErrorIs(t, err, context.Canceled)
}
