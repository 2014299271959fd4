package enrich

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryTransientSucceedsAfterRetries(t *testing.T) {
	attempts := 0
	err := RetryTransient(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return &TransientError{Err: errors.New("rate limited")}
		}
		return nil
	}, 5, time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryTransientPermanentFailureStopsImmediately(t *testing.T) {
	attempts := 0
	permanent := errors.New("invalid api key")

	err := RetryTransient(context.Background(), func() error {
		attempts++
		return permanent
	}, 5, time.Millisecond)

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, attempts, "permanent failures must not be retried")
}

func TestRetryTransientExhaustsBudget(t *testing.T) {
	attempts := 0
	err := RetryTransient(context.Background(), func() error {
		attempts++
		return &TransientError{Err: errors.New("still limited")}
	}, 3, time.Millisecond)

	assert.True(t, IsTransient(err))
	assert.Equal(t, 3, attempts)
}

func TestRetryTransientInvalidBudget(t *testing.T) {
	err := RetryTransient(context.Background(), func() error { return nil }, 0, time.Millisecond)
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}

func TestRetryTransientHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	err := RetryTransient(ctx, func() error {
		attempts++
		cancel()
		return &TransientError{Err: errors.New("limited")}
	}, 5, time.Hour)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

func TestIsTransient(t *testing.T) {
	inner := errors.New("boom")
	assert.True(t, IsTransient(&TransientError{Err: inner}))
	assert.False(t, IsTransient(inner))
	assert.False(t, IsTransient(nil))
}
