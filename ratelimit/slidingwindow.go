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
	"sync"
	"time"
)

// SlidingWindow admits at most limit events per key within a trailing
// window. Timestamps older than the window are discarded on every call, so
// the count always reflects the last window exactly, without the boundary
// bursts a fixed-interval counter allows.
type SlidingWindow struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	admitted map[string][]time.Time
	now      func() time.Time
}

// SlidingWindowOption configures a SlidingWindow.
type SlidingWindowOption func(*SlidingWindow)

// WithSlidingClock overrides the time source. Intended for tests.
func WithSlidingClock(now func() time.Time) SlidingWindowOption {
	return func(sw *SlidingWindow) {
		if now != nil {
			sw.now = now
		}
	}
}

// NewSlidingWindow creates a limiter admitting limit events per window
// for each key.
func NewSlidingWindow(limit int, window time.Duration, opts ...SlidingWindowOption) *SlidingWindow {
	sw := &SlidingWindow{
		limit:    limit,
		window:   window,
		admitted: make(map[string][]time.Time),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(sw)
	}
	return sw
}

// Allow records one event for key if the key is under its limit. It returns
// nil on admission, or an *Error whose RetryAfter says when the oldest
// counted event leaves the window.
func (sw *SlidingWindow) Allow(key string) error {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	now := sw.now()
	live := sw.pruneLocked(key, now)

	if len(live) >= sw.limit {
		retryAfter := live[0].Add(sw.window).Sub(now)
		if retryAfter < 0 {
			retryAfter = 0
		}
		return &Error{Limit: sw.limit, Window: sw.window, RetryAfter: retryAfter}
	}

	sw.admitted[key] = append(live, now)
	return nil
}

// Occupancy returns how many admissions for key are still inside the window.
func (sw *SlidingWindow) Occupancy(key string) int {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return len(sw.pruneLocked(key, sw.now()))
}

// Limit returns the current per-key limit.
func (sw *SlidingWindow) Limit() int {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.limit
}

// SetLimit replaces the per-key limit. Events already admitted stay counted;
// a lowered limit takes effect on the next Allow.
func (sw *SlidingWindow) SetLimit(limit int) {
	if limit < 1 {
		limit = 1
	}
	sw.mu.Lock()
	sw.limit = limit
	sw.mu.Unlock()
}

// pruneLocked drops timestamps that have left the window and returns the
// remaining ones. Empty keys are removed so idle callers do not accumulate.
func (sw *SlidingWindow) pruneLocked(key string, now time.Time) []time.Time {
	cutoff := now.Add(-sw.window)
	stamps := sw.admitted[key]

	idx := 0
	for idx < len(stamps) && !stamps[idx].After(cutoff) {
		idx++
	}
	if idx == 0 {
		return stamps
	}

	live := stamps[idx:]
	if len(live) == 0 {
		delete(sw.admitted, key)
		return nil
	}

	// Copy down so the backing array does not grow without bound.
	kept := make([]time.Time, len(live))
	copy(kept, live)
	sw.admitted[key] = kept
	return kept
}
