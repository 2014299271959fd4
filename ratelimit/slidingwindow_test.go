package ratelimit

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestSlidingWindowAdmitsUpToLimit(t *testing.T) {
	sw := NewSlidingWindow(5, time.Minute)

	for i := 0; i < 5; i++ {
		assert.NoError(t, sw.Allow("client-1"), "call %d must be admitted", i+1)
	}

	err := sw.Allow("client-1")
	require.Error(t, err, "sixth rapid call must be rejected")

	var rlErr *Error
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, 5, rlErr.Limit)
	assert.Equal(t, time.Minute, rlErr.Window)
	assert.Greater(t, rlErr.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, rlErr.RetryAfter, time.Minute)
}

func TestSlidingWindowKeysAreIndependent(t *testing.T) {
	sw := NewSlidingWindow(1, time.Minute)

	require.NoError(t, sw.Allow("client-1"))
	require.Error(t, sw.Allow("client-1"))

	assert.NoError(t, sw.Allow("client-2"), "a saturated key must not affect others")
}

func TestSlidingWindowRecoversAfterWindow(t *testing.T) {
	clock := newFakeClock()
	sw := NewSlidingWindow(2, time.Minute, WithSlidingClock(clock.Now))

	require.NoError(t, sw.Allow("k"))
	require.NoError(t, sw.Allow("k"))
	require.Error(t, sw.Allow("k"))

	clock.Advance(61 * time.Second)

	assert.NoError(t, sw.Allow("k"), "old admissions must age out of the window")
	assert.Equal(t, 1, sw.Occupancy("k"))
}

func TestSlidingWindowRetryAfterMatchesOldest(t *testing.T) {
	clock := newFakeClock()
	sw := NewSlidingWindow(2, time.Minute, WithSlidingClock(clock.Now))

	require.NoError(t, sw.Allow("k"))
	clock.Advance(20 * time.Second)
	require.NoError(t, sw.Allow("k"))
	clock.Advance(10 * time.Second)

	err := sw.Allow("k")
	var rlErr *Error
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, 30*time.Second, rlErr.RetryAfter,
		"retry hint must point at the oldest admission leaving the window")
}

func TestSlidingWindowSetLimit(t *testing.T) {
	sw := NewSlidingWindow(1, time.Minute)

	require.NoError(t, sw.Allow("k"))
	require.Error(t, sw.Allow("k"))

	sw.SetLimit(3)
	assert.Equal(t, 3, sw.Limit())
	assert.NoError(t, sw.Allow("k"))
	assert.NoError(t, sw.Allow("k"))
	assert.Error(t, sw.Allow("k"))
}

func TestSlidingWindowConcurrentAdmissions(t *testing.T) {
	sw := NewSlidingWindow(50, time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if sw.Allow("shared") == nil {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, admitted, "exactly the limit must be admitted under contention")
}

func TestIsRateLimited(t *testing.T) {
	sw := NewSlidingWindow(1, time.Minute)

	require.NoError(t, sw.Allow("k"))
	err := sw.Allow("k")
	assert.True(t, IsRateLimited(err))
	assert.False(t, IsRateLimited(errors.New("boom")))
	assert.False(t, IsRateLimited(nil))
}
