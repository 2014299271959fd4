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


package enrich

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/procurit/cache"
	"github.com/poiesic/procurit/core"
	"github.com/poiesic/procurit/ratelimit"
)

const (
	// DefaultBatchSize is how many candidates are verified concurrently.
	DefaultBatchSize = 5

	// DefaultBatchDelay spaces out consecutive batches.
	DefaultBatchDelay = 500 * time.Millisecond

	// DefaultCacheTTL is how long verified records stay cached.
	DefaultCacheTTL = 2 * time.Hour
)

// Verifier runs candidates through a Completer in fixed-size batches.
// Batch members are verified concurrently on a worker pool; every member
// resolves before the next batch is submitted.
type Verifier struct {
	completer Completer
	cache     cache.Typed[core.VerifiedSupplier]
	pool      *ants.Pool
	pacer     ratelimit.Pacer
	batchSize int
	ttl       time.Duration
	logger    *slog.Logger
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier) error

// WithBatchSize sets the batch size and worker pool width.
// Default is DefaultBatchSize.
func WithBatchSize(size int) VerifierOption {
	return func(v *Verifier) error {
		if size < 1 {
			size = 1
		}
		if v.pool != nil {
			v.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		v.pool = pool
		v.batchSize = size
		return nil
	}
}

// WithCache sets the store backing the verification cache.
// Default is an in-process cache.Memory.
func WithCache(store cache.Store) VerifierOption {
	return func(v *Verifier) error {
		if store != nil {
			v.cache = cache.NewTyped[core.VerifiedSupplier](store)
		}
		return nil
	}
}

// WithCacheTTL sets how long verified records stay cached.
// Default is DefaultCacheTTL.
func WithCacheTTL(ttl time.Duration) VerifierOption {
	return func(v *Verifier) error {
		if ttl > 0 {
			v.ttl = ttl
		}
		return nil
	}
}

// WithPacer sets the pacer between batches.
// Default is a fixed pacer of DefaultBatchDelay.
func WithPacer(pacer ratelimit.Pacer) VerifierOption {
	return func(v *Verifier) error {
		if pacer == nil {
			pacer = ratelimit.NopPacer{}
		}
		v.pacer = pacer
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) VerifierOption {
	return func(v *Verifier) error {
		if logger == nil {
			logger = slog.Default()
		}
		v.logger = logger
		return nil
	}
}

// NewVerifier creates a verifier over completer.
func NewVerifier(completer Completer, opts ...VerifierOption) (*Verifier, error) {
	if completer == nil {
		return nil, ErrCompleterRequired
	}

	pool, err := ants.NewPool(DefaultBatchSize)
	if err != nil {
		return nil, err
	}

	v := &Verifier{
		completer: completer,
		cache:     cache.NewTyped[core.VerifiedSupplier](cache.NewMemory()),
		pool:      pool,
		pacer:     ratelimit.NewFixedPacer(DefaultBatchDelay),
		batchSize: DefaultBatchSize,
		ttl:       DefaultCacheTTL,
		logger:    slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(v); err != nil {
			v.Release()
			return nil, err
		}
	}

	return v, nil
}

// VerifyAll verifies every candidate and returns exactly one record per
// candidate, in input order. Provider failures never drop a candidate; they
// produce fallback records instead. Cancelling ctx makes the remaining
// candidates resolve as fallbacks while the gather still completes.
func (v *Verifier) VerifyAll(ctx context.Context, candidates []core.Candidate, product string, requirements []string) []core.VerifiedSupplier {
	results := make([]core.VerifiedSupplier, len(candidates))

	for start := 0; start < len(candidates); start += v.batchSize {
		if start > 0 {
			if err := v.pacer.Pace(ctx); err != nil {
				v.logger.Debug("batch pacing interrupted", "err", err)
			}
		}

		end := start + v.batchSize
		if end > len(candidates) {
			end = len(candidates)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			idx := i
			candidate := candidates[i]
			wg.Add(1)
			err := v.pool.Submit(func() {
				defer wg.Done()
				results[idx] = v.verifyOne(ctx, candidate, product, requirements)
			})
			if err != nil {
				wg.Done()
				v.logger.Error("failed to submit verification task", "candidate", candidate.Name, "err", err)
				results[idx] = fallbackSupplier(candidate)
			}
		}
		wg.Wait()

		v.logger.Debug("verification batch complete", "from", start, "to", end-1)
	}

	return results
}

func (v *Verifier) verifyOne(ctx context.Context, candidate core.Candidate, product string, requirements []string) core.VerifiedSupplier {
	key := "supplier:" + core.Fingerprint(candidate.Name, candidate.Description).String()
	if cached, ok := v.cache.Get(key); ok {
		v.logger.Debug("verification cache hit", "candidate", candidate.Name)
		return cached
	}

	prompt := buildVerificationPrompt(candidate, product, requirements)
	response, err := v.completer.Complete(ctx, prompt)
	if err != nil {
		v.logger.Error("verification failed, using fallback record",
			"candidate", candidate.Name,
			"err", err)
		return fallbackSupplier(candidate)
	}

	supplier := supplierFromPayload(candidate, ParsePayload(response))
	if err := v.cache.Set(key, supplier, v.ttl); err != nil {
		v.logger.Warn("failed to cache verified supplier", "candidate", candidate.Name, "err", err)
	}
	return supplier
}

// CompleterName reports the name of the underlying completer.
func (v *Verifier) CompleterName() string {
	return v.completer.Name()
}

// Release frees the worker pool. The verifier must not be used afterwards.
func (v *Verifier) Release() {
	if v.pool != nil {
		v.pool.Release()
	}
}
