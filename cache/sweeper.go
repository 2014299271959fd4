package cache

import (
	"context"
	"log/slog"
	"time"
)

const (
	// DefaultSweepInterval is how often the background sweep runs.
	DefaultSweepInterval = 300 * time.Second

	// sweepErrorBackoff is the initial wait after a failed sweep cycle.
	// It doubles on consecutive failures, capped at the sweep interval.
	sweepErrorBackoff = 60 * time.Second
)

// Sweeper evicts expired entries from a Store on a fixed interval.
// A failed cycle is logged and never stops future cycles.
type Sweeper struct {
	store        Store
	interval     time.Duration
	errorBackoff time.Duration
	logger       *slog.Logger
}

// SweeperOption configures a Sweeper.
type SweeperOption func(*Sweeper)

// WithInterval sets the sweep interval. Default is DefaultSweepInterval.
func WithInterval(interval time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithErrorBackoff sets the initial wait after a failed cycle.
// Default is sweepErrorBackoff.
func WithErrorBackoff(backoff time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if backoff > 0 {
			s.errorBackoff = backoff
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) SweeperOption {
	return func(s *Sweeper) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// NewSweeper creates a sweeper for store.
func NewSweeper(store Store, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		store:        store,
		interval:     DefaultSweepInterval,
		errorBackoff: sweepErrorBackoff,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run sweeps until ctx is cancelled. Intended to be launched as a goroutine.
func (s *Sweeper) Run(ctx context.Context) {
	wait := s.interval
	backoff := s.errorBackoff

	timer := time.NewTimer(wait)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		evicted, err := s.store.Sweep()
		if err != nil {
			s.logger.Error("cache sweep failed", "err", err)
			wait = backoff
			if backoff < s.interval {
				backoff *= 2
				if backoff > s.interval {
					backoff = s.interval
				}
			}
		} else {
			if evicted > 0 {
				s.logger.Info("cleaned up expired cache entries", "evicted", evicted)
			}
			wait = s.interval
			backoff = s.errorBackoff
		}

		timer.Reset(wait)
	}
}
