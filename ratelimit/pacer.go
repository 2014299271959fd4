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
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces out the calls of a single outbound series. Pace blocks until
// the next call may proceed, or returns early with ctx.Err() when the
// context is cancelled while waiting.
type Pacer interface {
	Pace(ctx context.Context) error
}

// FixedPacer enforces a minimum delay between consecutive calls. The first
// call proceeds immediately.
type FixedPacer struct {
	delay time.Duration

	mu   sync.Mutex
	last time.Time
}

// NewFixedPacer creates a pacer with the given inter-call delay.
func NewFixedPacer(delay time.Duration) *FixedPacer {
	return &FixedPacer{delay: delay}
}

// Pace blocks until delay has elapsed since the previous call.
func (p *FixedPacer) Pace(ctx context.Context) error {
	p.mu.Lock()
	now := time.Now()
	wait := p.delay - now.Sub(p.last)
	if wait < 0 {
		wait = 0
	}
	p.last = now.Add(wait)
	p.mu.Unlock()

	if wait == 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// LeakyPacer smooths calls to a steady rate with a small burst allowance.
type LeakyPacer struct {
	limiter *rate.Limiter
}

// NewLeakyPacer creates a pacer admitting callsPerSecond on average, with
// bursts of up to burst calls.
func NewLeakyPacer(callsPerSecond float64, burst int) *LeakyPacer {
	if burst < 1 {
		burst = 1
	}
	return &LeakyPacer{limiter: rate.NewLimiter(rate.Limit(callsPerSecond), burst)}
}

// Pace blocks until the limiter grants the next call.
func (p *LeakyPacer) Pace(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// NopPacer never delays. Useful in tests and for providers without quotas.
type NopPacer struct{}

// Pace returns immediately.
func (NopPacer) Pace(ctx context.Context) error {
	return ctx.Err()
}
