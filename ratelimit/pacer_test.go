package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedPacerFirstCallIsImmediate(t *testing.T) {
	p := NewFixedPacer(time.Second)

	start := time.Now()
	require.NoError(t, p.Pace(context.Background()))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestFixedPacerSpacesCalls(t *testing.T) {
	p := NewFixedPacer(50 * time.Millisecond)

	require.NoError(t, p.Pace(context.Background()))
	start := time.Now()
	require.NoError(t, p.Pace(context.Background()))

	assert.GreaterOrEqual(t, time.Since(start), 45*time.Millisecond,
		"second call must wait out the configured delay")
}

func TestFixedPacerHonorsCancellation(t *testing.T) {
	p := NewFixedPacer(time.Hour)

	require.NoError(t, p.Pace(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := p.Pace(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLeakyPacerAllowsBurst(t *testing.T) {
	p := NewLeakyPacer(1, 3)

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, p.Pace(context.Background()))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond,
		"calls within the burst must not block")
}

func TestNopPacerNeverDelays(t *testing.T) {
	p := NopPacer{}

	start := time.Now()
	for i := 0; i < 1000; i++ {
		require.NoError(t, p.Pace(context.Background()))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, p.Pace(ctx), "even a nop pacer must surface cancellation")
}
