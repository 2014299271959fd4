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


package websearch

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/poiesic/procurit/cache"
	"github.com/poiesic/procurit/core"
	"github.com/poiesic/procurit/ratelimit"
)

const (
	// DefaultResultTTL is how long aggregated result sets stay cached.
	DefaultResultTTL = 30 * time.Minute

	// DefaultVariantDelay spaces out consecutive variant queries.
	DefaultVariantDelay = time.Second

	// perVariantResults caps what a single variant may contribute before
	// aggregation.
	perVariantResults = 5

	supplierBoost = 0.2
	marketBoost   = 0.3

	titleOverlapWeight   = 0.3
	snippetOverlapWeight = 0.1
)

// Service fans a query out into intent-specific variants and aggregates the
// results. See the package documentation for the full pipeline.
type Service struct {
	provider Provider
	pacer    ratelimit.Pacer
	results  cache.Typed[[]core.SearchHit]
	group    singleflight.Group
	ttl      time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service) error

// WithPacer sets the pacer spacing out variant queries.
// Default is a fixed pacer of DefaultVariantDelay.
func WithPacer(pacer ratelimit.Pacer) Option {
	return func(s *Service) error {
		if pacer == nil {
			pacer = ratelimit.NopPacer{}
		}
		s.pacer = pacer
		return nil
	}
}

// WithCache sets the store backing the result cache.
// Default is an in-process cache.Memory.
func WithCache(store cache.Store) Option {
	return func(s *Service) error {
		if store != nil {
			s.results = cache.NewTyped[[]core.SearchHit](store)
		}
		return nil
	}
}

// WithResultTTL sets how long aggregated result sets stay cached.
// Default is DefaultResultTTL.
func WithResultTTL(ttl time.Duration) Option {
	return func(s *Service) error {
		if ttl > 0 {
			s.ttl = ttl
		}
		return nil
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) error {
		if now != nil {
			s.now = now
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewService creates a search service over provider.
func NewService(provider Provider, opts ...Option) (*Service, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}

	s := &Service{
		provider: provider,
		pacer:    ratelimit.NewFixedPacer(DefaultVariantDelay),
		results:  cache.NewTyped[[]core.SearchHit](cache.NewMemory()),
		ttl:      DefaultResultTTL,
		now:      time.Now,
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// ProviderName reports the name of the underlying provider.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

// FindSuppliers searches for suppliers of the product described by query,
// optionally narrowed to location. Results are aggregated across supplier
// intent variants and returned sorted by descending relevance, at most
// maxResults of them.
func (s *Service) FindSuppliers(ctx context.Context, query, location string, maxResults int) ([]core.SearchHit, error) {
	base := cleanQuery(query)
	if base == "" {
		return nil, ErrEmptyQuery
	}

	locationKey := "global"
	if location != "" {
		locationKey = cleanQuery(location)
	}
	key := "suppliers:" + base + ":" + locationKey

	hits, err := s.aggregate(ctx, key, base, supplierQueries(base, location), supplierKeywords, supplierBoost)
	if err != nil {
		return nil, err
	}
	return truncate(hits, maxResults), nil
}

// FindMarketSignals searches for market intelligence about product over the
// given timeframe (for example "6months"). The variant set targets pricing,
// forecasts, and supply-chain cost coverage.
func (s *Service) FindMarketSignals(ctx context.Context, product, timeframe string) ([]core.SearchHit, error) {
	base := cleanQuery(product)
	if base == "" {
		return nil, ErrEmptyQuery
	}
	if timeframe == "" {
		timeframe = "6months"
	}
	key := "market:" + base + ":" + timeframe

	return s.aggregate(ctx, key, base, marketQueries(base, timeframe, s.now()), marketKeywords, marketBoost)
}

// Suggestions returns deterministic auto-complete expansions of query.
func (s *Service) Suggestions(query string) []string {
	base := cleanQuery(query)
	if base == "" {
		return nil
	}
	return []string{
		base + " suppliers",
		base + " manufacturers",
		base + " vendors",
		base + " distributors",
		base + " companies",
	}
}

// aggregate runs the fan-out for key, serving from cache when possible and
// collapsing concurrent misses for the same key into one upstream pass.
func (s *Service) aggregate(ctx context.Context, key, base string, variants, keywords []string, boost float64) ([]core.SearchHit, error) {
	if hits, ok := s.results.Get(key); ok {
		s.logger.Debug("search cache hit", "key", key)
		return hits, nil
	}

	result, err, _ := s.group.Do(key, func() (any, error) {
		hits, err := s.fanOut(ctx, base, variants, keywords, boost)
		if err != nil {
			return nil, err
		}
		if err := s.results.Set(key, hits, s.ttl); err != nil {
			s.logger.Warn("failed to cache search results", "key", key, "err", err)
		}
		return hits, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]core.SearchHit), nil
}

// fanOut issues each variant in order, pacing between calls. A failed
// variant is skipped; only context cancellation aborts the pass.
func (s *Service) fanOut(ctx context.Context, base string, variants, keywords []string, boost float64) ([]core.SearchHit, error) {
	var collected []core.SearchHit
	for _, variant := range variants {
		if err := s.pacer.Pace(ctx); err != nil {
			return nil, err
		}

		hits, err := s.provider.Search(ctx, variant, perVariantResults)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Error("search variant failed",
				"provider", s.provider.Name(),
				"query", variant,
				"err", err)
			continue
		}
		collected = append(collected, hits...)
	}

	merged := filterAndBoost(dedupe(collected), keywords, boost)
	rescoreByOverlap(merged, base)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Relevance > merged[j].Relevance
	})

	s.logger.Info("search fan-out complete",
		"provider", s.provider.Name(),
		"query", base,
		"variants", len(variants),
		"results", len(merged))

	if merged == nil {
		merged = []core.SearchHit{}
	}
	return merged, nil
}

// supplierQueries builds the supplier-intent variant set for base, each
// suffixed with location when given.
func supplierQueries(base, location string) []string {
	suffix := ""
	if location != "" {
		suffix = " " + cleanQuery(location)
	}
	return []string{
		base + " suppliers manufacturers" + suffix,
		base + " vendors distributors" + suffix,
		"certified " + base + " companies" + suffix,
		base + " industry directory" + suffix,
		"wholesale " + base + " suppliers" + suffix,
	}
}

// marketQueries builds the market-intent variant set for base, stamped with
// the current year so results skew recent.
func marketQueries(base, timeframe string, now time.Time) []string {
	year := now.Format("2006")
	return []string{
		base + " market price " + year,
		base + " pricing trends analysis " + timeframe,
		base + " industry report market size",
		base + " cost analysis " + year,
		base + " market forecast pricing",
		base + " supply chain costs",
	}
}

// dedupe collapses hits sharing a normalized URL or title, keeping the
// first occurrence.
func dedupe(hits []core.SearchHit) []core.SearchHit {
	seenURLs := make(map[string]struct{}, len(hits))
	seenTitles := make(map[string]struct{}, len(hits))

	unique := make([]core.SearchHit, 0, len(hits))
	for _, hit := range hits {
		urlKey := strings.TrimRight(strings.ToLower(strings.TrimSpace(hit.URL)), "/")
		titleKey := strings.ToLower(strings.TrimSpace(hit.Title))

		if _, ok := seenURLs[urlKey]; ok {
			continue
		}
		if _, ok := seenTitles[titleKey]; ok {
			continue
		}
		seenURLs[urlKey] = struct{}{}
		seenTitles[titleKey] = struct{}{}
		unique = append(unique, hit)
	}
	return unique
}

// filterAndBoost drops spam and raises the relevance of hits mentioning the
// intent keywords, capped at 1.0.
func filterAndBoost(hits []core.SearchHit, keywords []string, boost float64) []core.SearchHit {
	kept := make([]core.SearchHit, 0, len(hits))
	for _, hit := range hits {
		content := strings.ToLower(hit.Title + " " + hit.Snippet)
		if containsAny(content, spamIndicators) {
			continue
		}
		if containsAny(content, keywords) {
			hit.Relevance = math.Min(hit.Relevance+boost, 1.0)
		}
		kept = append(kept, hit)
	}
	return kept
}

// rescoreByOverlap raises relevance by how many original query terms appear
// in the title and snippet, normalized by the query's term count.
func rescoreByOverlap(hits []core.SearchHit, query string) {
	queryTerms := termSet(cleanQuery(query))
	if len(queryTerms) == 0 {
		return
	}

	for i := range hits {
		titleOverlap := overlapCount(queryTerms, termSet(cleanQuery(hits[i].Title)))
		snippetOverlap := overlapCount(queryTerms, termSet(cleanQuery(hits[i].Snippet)))

		boost := (float64(titleOverlap)*titleOverlapWeight +
			float64(snippetOverlap)*snippetOverlapWeight) / float64(len(queryTerms))
		hits[i].Relevance = math.Min(hits[i].Relevance+boost, 1.0)
	}
}

func truncate(hits []core.SearchHit, max int) []core.SearchHit {
	if max > 0 && len(hits) > max {
		return hits[:max]
	}
	return hits
}
