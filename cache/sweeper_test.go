package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// flakyStore fails the first sweeps, then recovers. Used to verify the
// sweeper survives failed cycles.
type flakyStore struct {
	Memory

	mu        sync.Mutex
	failures  int
	sweeps    int
	succeeded int
}

func (f *flakyStore) Sweep() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sweeps++
	if f.failures > 0 {
		f.failures--
		return 0, errors.New("sweep backend unavailable")
	}
	f.succeeded++
	return 0, nil
}

func (f *flakyStore) counts() (sweeps, succeeded int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sweeps, f.succeeded
}

func TestSweeperEvictsOnInterval(t *testing.T) {
	clock := newFakeClock()
	m := NewMemory(WithClock(clock.Now))
	defer m.Close()

	m.Set("short", []byte("v"), time.Millisecond)
	clock.Advance(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeper := NewSweeper(m, WithInterval(10*time.Millisecond))
	go sweeper.Run(ctx)

	assert.Eventually(t, func() bool {
		return m.Stats().Entries == 0
	}, time.Second, 5*time.Millisecond, "sweeper must evict the expired entry")
}

func TestSweeperContinuesAfterFailure(t *testing.T) {
	store := &flakyStore{failures: 2}
	store.entries = make(map[string]entry)
	store.now = time.Now

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeper := NewSweeper(store,
		WithInterval(5*time.Millisecond),
		WithErrorBackoff(time.Millisecond),
	)
	go sweeper.Run(ctx)

	assert.Eventually(t, func() bool {
		_, succeeded := store.counts()
		return succeeded >= 2
	}, time.Second, time.Millisecond, "cycles after the failures must keep running")
}

func TestSweeperStopsOnCancel(t *testing.T) {
	m := NewMemory()
	defer m.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	sweeper := NewSweeper(m, WithInterval(time.Millisecond))
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after context cancellation")
	}
}
