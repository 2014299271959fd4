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
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// TokenBucket grants permits out of a per-key bucket of fixed capacity that
// refills continuously. Unlike SlidingWindow it tolerates bursts up to the
// capacity, then degrades to the steady refill rate.
type TokenBucket struct {
	mu       sync.Mutex
	capacity int
	refill   rate.Limit
	buckets  map[string]*rate.Limiter
}

// NewTokenBucket creates a bucket of capacity tokens per key, refilled at
// refillPerSecond tokens each second.
func NewTokenBucket(capacity int, refillPerSecond float64) *TokenBucket {
	if capacity < 1 {
		capacity = 1
	}
	return &TokenBucket{
		capacity: capacity,
		refill:   rate.Limit(refillPerSecond),
		buckets:  make(map[string]*rate.Limiter),
	}
}

// Consume takes n tokens from key's bucket. It returns nil when the tokens
// were available now, or an *Error whose RetryAfter says when n tokens will
// have accumulated. Consume never waits.
func (tb *TokenBucket) Consume(key string, n int) error {
	if n > tb.capacity {
		return fmt.Errorf("cannot consume %d tokens from a bucket of %d", n, tb.capacity)
	}

	limiter := tb.bucket(key)

	now := time.Now()
	res := limiter.ReserveN(now, n)
	if !res.OK() {
		return &Error{Limit: tb.capacity, Window: tb.fillWindow(), RetryAfter: tb.fillWindow()}
	}
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return &Error{Limit: tb.capacity, Window: tb.fillWindow(), RetryAfter: delay}
	}
	return nil
}

// Tokens returns how many tokens key's bucket currently holds.
func (tb *TokenBucket) Tokens(key string) float64 {
	return tb.bucket(key).Tokens()
}

func (tb *TokenBucket) bucket(key string) *rate.Limiter {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	limiter, ok := tb.buckets[key]
	if !ok {
		limiter = rate.NewLimiter(tb.refill, tb.capacity)
		tb.buckets[key] = limiter
	}
	return limiter
}

// fillWindow is the time a drained bucket needs to refill completely. It
// stands in for the window of counter-based limiters in error reporting.
func (tb *TokenBucket) fillWindow() time.Duration {
	if tb.refill <= 0 {
		return 0
	}
	return time.Duration(float64(tb.capacity) / float64(tb.refill) * float64(time.Second))
}
