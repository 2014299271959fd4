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

package discovery

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/procurit/core"
	"github.com/poiesic/procurit/enrich"
	"github.com/poiesic/procurit/extract"
	"github.com/poiesic/procurit/rank"
	"github.com/poiesic/procurit/ratelimit"
	"github.com/poiesic/procurit/websearch"
)

const (
	// DefaultMaxResults is used when a request does not say how many
	// suppliers it wants.
	DefaultMaxResults = 10

	// MaxResultsCeiling bounds how many suppliers one request may ask for.
	MaxResultsCeiling = 50

	// DefaultRequestLimit and DefaultRequestWindow shape the per-caller
	// admission window.
	DefaultRequestLimit  = 5
	DefaultRequestWindow = time.Minute

	minQueryLen = 3
	maxQueryLen = 200

	// searchOverfetch asks the search layer for more hits than requested so
	// filtering still leaves enough suppliers.
	searchOverfetch = 2
)

// Request describes one supplier discovery run.
type Request struct {
	// Query is the product or service to source, 3 to 200 characters.
	Query string

	// Location narrows results geographically when non-empty.
	Location string

	// Requirements are free-text constraint phrases suppliers must cover.
	Requirements []string

	// Certifications requires at least one matching certification when
	// non-empty.
	Certifications []string

	// MinRating drops suppliers rated below it. Zero disables the filter.
	MinRating float64

	// MaxResults caps the returned suppliers. Zero means DefaultMaxResults.
	MaxResults int

	// Caller identifies the requester for rate limiting. Empty means
	// "anonymous".
	Caller string
}

// normalize trims free-text fields and fills defaults in place.
func (r *Request) normalize() {
	r.Query = strings.TrimSpace(r.Query)
	r.Location = strings.TrimSpace(r.Location)
	if r.MaxResults == 0 {
		r.MaxResults = DefaultMaxResults
	}
	if r.Caller == "" {
		r.Caller = "anonymous"
	}
}

// validate checks the normalized request against the accepted bounds.
func (r *Request) validate() error {
	if len(r.Query) < minQueryLen || len(r.Query) > maxQueryLen {
		return ErrInvalidQuery
	}
	if r.MaxResults < 1 || r.MaxResults > MaxResultsCeiling {
		return ErrInvalidMaxResults
	}
	if r.MinRating != 0 && (r.MinRating < 1 || r.MinRating > 5) {
		return ErrInvalidMinRating
	}
	return nil
}

// Result is the outcome of one discovery run.
type Result struct {
	// Suppliers is the ranked result set, best first.
	Suppliers []core.VerifiedSupplier `json:"suppliers"`

	// TotalFound counts suppliers that survived filtering, before the
	// MaxResults cut.
	TotalFound int `json:"total_found"`

	// Query and LocationFilter echo the request.
	Query          string `json:"query"`
	LocationFilter string `json:"location_filter,omitempty"`

	// ProcessingTime is the wall-clock duration of the run.
	ProcessingTime time.Duration `json:"processing_time"`

	// DataSources lists the distinct domains the search hits came from.
	DataSources []string `json:"data_sources"`
}

// Health is a point-in-time snapshot of the service's moving parts.
type Health struct {
	SearchProvider string `json:"search_provider"`
	Completer      string `json:"completer"`
	RequestLimit   int    `json:"request_limit"`
}

// Service runs the discovery pipeline.
type Service struct {
	search   *websearch.Service
	verifier *enrich.Verifier
	limiter  *ratelimit.SlidingWindow
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service) error

// WithLimiter sets the inbound admission limiter.
// Default is DefaultRequestLimit requests per DefaultRequestWindow.
func WithLimiter(limiter *ratelimit.SlidingWindow) Option {
	return func(s *Service) error {
		if limiter != nil {
			s.limiter = limiter
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

// NewService creates a discovery service over the given search service and
// verifier.
func NewService(search *websearch.Service, verifier *enrich.Verifier, opts ...Option) (*Service, error) {
	if search == nil {
		return nil, ErrSearchRequired
	}
	if verifier == nil {
		return nil, ErrVerifierRequired
	}

	s := &Service{
		search:   search,
		verifier: verifier,
		limiter:  ratelimit.NewSlidingWindow(DefaultRequestLimit, DefaultRequestWindow),
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

// Discover runs the full pipeline for req: admission, search fan-out,
// candidate extraction, verification, then filtering and ranking. A total
// search failure yields an empty result set, not an error; only invalid
// requests, rate denials, and context cancellation fail the call.
func (s *Service) Discover(ctx context.Context, req Request) (*Result, error) {
	req.normalize()
	if err := req.validate(); err != nil {
		return nil, err
	}
	if err := s.limiter.Allow(req.Caller + ":discover"); err != nil {
		return nil, err
	}

	start := s.now()
	s.logger.Info("starting supplier discovery",
		"query", req.Query,
		"location", req.Location,
		"max_results", req.MaxResults)

	hits, err := s.search.FindSuppliers(ctx, req.Query, req.Location, req.MaxResults*searchOverfetch)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Error("supplier search failed", "query", req.Query, "err", err)
		hits = nil
	}
	if len(hits) == 0 {
		s.logger.Warn("no search results for query", "query", req.Query)
		return s.emptyResult(req, start), nil
	}

	candidates := extract.ExtractAll(hits, req.Location)
	if len(candidates) == 0 {
		s.logger.Warn("no candidates extracted", "query", req.Query, "hits", len(hits))
		return s.emptyResult(req, start), nil
	}

	suppliers := s.verifier.VerifyAll(ctx, candidates, req.Query, req.Requirements)

	criteria := rank.Criteria{
		Product:        req.Query,
		Location:       req.Location,
		MinRating:      req.MinRating,
		Certifications: req.Certifications,
		Requirements:   req.Requirements,
	}
	ranked := rank.Rank(rank.Filter(suppliers, criteria), criteria)

	result := &Result{
		Suppliers:      ranked,
		TotalFound:     len(ranked),
		Query:          req.Query,
		LocationFilter: req.Location,
		ProcessingTime: s.now().Sub(start),
		DataSources:    dataSources(hits),
	}
	if len(result.Suppliers) > req.MaxResults {
		result.Suppliers = result.Suppliers[:req.MaxResults]
	}

	s.logger.Info("supplier discovery complete",
		"query", req.Query,
		"found", result.TotalFound,
		"returned", len(result.Suppliers),
		"duration", result.ProcessingTime)
	return result, nil
}

// Occupancy reports how many requests the caller has in the current window.
func (s *Service) Occupancy(caller string) int {
	if caller == "" {
		caller = "anonymous"
	}
	return s.limiter.Occupancy(caller + ":discover")
}

// Health reports the providers and limits currently in effect.
func (s *Service) Health() Health {
	return Health{
		SearchProvider: s.search.ProviderName(),
		Completer:      s.verifier.CompleterName(),
		RequestLimit:   s.limiter.Limit(),
	}
}

func (s *Service) emptyResult(req Request, start time.Time) *Result {
	return &Result{
		Suppliers:      []core.VerifiedSupplier{},
		TotalFound:     0,
		Query:          req.Query,
		LocationFilter: req.Location,
		ProcessingTime: s.now().Sub(start),
		DataSources:    []string{},
	}
}

// dataSources collects the distinct hit sources in first-seen order.
func dataSources(hits []core.SearchHit) []string {
	seen := make(map[string]struct{}, len(hits))
	sources := make([]string, 0, len(hits))
	for _, hit := range hits {
		if hit.Source == "" {
			continue
		}
		if _, ok := seen[hit.Source]; ok {
			continue
		}
		seen[hit.Source] = struct{}{}
		sources = append(sources, hit.Source)
	}
	return sources
}
