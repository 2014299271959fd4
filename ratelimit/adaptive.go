// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ratelimit

import (
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultAdjustInterval is how often the adaptive limit is reconsidered.
	DefaultAdjustInterval = time.Minute

	// Error-rate thresholds for adjusting the limit. Above the high mark the
	// downstream is struggling and the limit shrinks; below the low mark it
	// is healthy and the limit grows back.
	highErrorRate = 0.10
	lowErrorRate  = 0.05

	shrinkFactor = 0.8
	growFactor   = 1.2
)

// Adaptive wraps a SlidingWindow and tunes its limit from observed call
// outcomes. Callers report each outcome through RecordSuccess and
// RecordError; once per interval the error rate is compared against the
// thresholds and the limit adjusted, clamped to [base, max].
type Adaptive struct {
	window *SlidingWindow

	mu        sync.Mutex
	baseLimit float64
	maxLimit  float64
	current   float64
	successes int
	errors    int
	interval  time.Duration
	last      time.Time
	now       func() time.Time
	logger    *slog.Logger
}

// AdaptiveOption configures an Adaptive limiter.
type AdaptiveOption func(*Adaptive)

// WithAdjustInterval sets how often the limit is reconsidered.
// Default is DefaultAdjustInterval.
func WithAdjustInterval(interval time.Duration) AdaptiveOption {
	return func(a *Adaptive) {
		if interval > 0 {
			a.interval = interval
		}
	}
}

// WithAdaptiveClock overrides the time source. Intended for tests.
func WithAdaptiveClock(now func() time.Time) AdaptiveOption {
	return func(a *Adaptive) {
		if now != nil {
			a.now = now
		}
	}
}

// WithAdaptiveLogger sets a custom logger. Default is slog.Default().
func WithAdaptiveLogger(logger *slog.Logger) AdaptiveOption {
	return func(a *Adaptive) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAdaptive creates an adaptive limiter around window. The window's
// current limit becomes the base; maxLimit caps growth during healthy
// periods. The limit never drops below the base.
func NewAdaptive(window *SlidingWindow, maxLimit int, opts ...AdaptiveOption) *Adaptive {
	base := window.Limit()
	if maxLimit < base {
		maxLimit = base
	}
	a := &Adaptive{
		window:    window,
		baseLimit: float64(base),
		maxLimit:  float64(maxLimit),
		current:   float64(base),
		interval:  DefaultAdjustInterval,
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.last = a.now()
	return a
}

// Allow delegates admission to the wrapped window under the current limit.
func (a *Adaptive) Allow(key string) error {
	return a.window.Allow(key)
}

// Occupancy reports the wrapped window's occupancy for key.
func (a *Adaptive) Occupancy(key string) int {
	return a.window.Occupancy(key)
}

// Limit returns the limit currently in force.
func (a *Adaptive) Limit() int {
	return a.window.Limit()
}

// RecordSuccess notes one successful downstream call.
func (a *Adaptive) RecordSuccess() {
	a.mu.Lock()
	a.successes++
	a.mu.Unlock()
	a.maybeAdjust()
}

// RecordError notes one failed downstream call.
func (a *Adaptive) RecordError() {
	a.mu.Lock()
	a.errors++
	a.mu.Unlock()
	a.maybeAdjust()
}

func (a *Adaptive) maybeAdjust() {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	if now.Sub(a.last) < a.interval {
		return
	}
	a.last = now

	total := a.successes + a.errors
	if total == 0 {
		return
	}
	errorRate := float64(a.errors) / float64(total)
	a.successes = 0
	a.errors = 0

	previous := a.current
	switch {
	case errorRate > highErrorRate:
		a.current *= shrinkFactor
	case errorRate < lowErrorRate:
		a.current *= growFactor
	default:
		return
	}
	if a.current < a.baseLimit {
		a.current = a.baseLimit
	}
	if a.current > a.maxLimit {
		a.current = a.maxLimit
	}
	if a.current == previous {
		return
	}

	a.window.SetLimit(int(a.current))
	a.logger.Info("adjusted rate limit",
		"error_rate", errorRate,
		"previous", int(previous),
		"current", int(a.current))
}
