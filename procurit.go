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

// Package procurit is a supplier discovery and market intelligence engine.
// It fans procurement queries out to a search provider, extracts candidate
// suppliers, verifies them through language-model providers, and ranks the
// survivors against the caller's criteria.
//
// Engine is the assembled system; the subpackages are usable on their own.
package procurit

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/procurit/cache"
	"github.com/poiesic/procurit/config"
	"github.com/poiesic/procurit/discovery"
	"github.com/poiesic/procurit/enrich"
	"github.com/poiesic/procurit/enrich/gemini"
	"github.com/poiesic/procurit/enrich/openai"
	"github.com/poiesic/procurit/market"
	"github.com/poiesic/procurit/ratelimit"
	"github.com/poiesic/procurit/websearch"
	"github.com/poiesic/procurit/websearch/duckduckgo"
)

// Engine wires the configured stores, providers, and services into one
// system.
type Engine struct {
	cfg config.Config

	searchStore   cache.Store
	supplierStore cache.Store
	insightStore  cache.Store

	search    *websearch.Service
	verifier  *enrich.Verifier
	discovery *discovery.Service
	market    *market.Agent

	sweepCancel context.CancelFunc
	logger      *slog.Logger
}

// Health aggregates the engine's moving parts for the health command.
type Health struct {
	SearchProvider string                 `json:"search_provider"`
	Completer      string                 `json:"completer"`
	RequestLimit   int                    `json:"request_limit"`
	Caches         map[string]cache.Stats `json:"caches"`
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	provider  websearch.Provider
	completer enrich.Completer
	logger    *slog.Logger
}

// WithSearchProvider overrides the search provider. Default is DuckDuckGo.
func WithSearchProvider(provider websearch.Provider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithCompleter overrides the completion provider. Default is a chain of
// the configured providers.
func WithCompleter(completer enrich.Completer) EngineOption {
	return func(o *engineOptions) {
		o.completer = completer
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewEngine assembles an engine from cfg.
func NewEngine(ctx context.Context, cfg config.Config, opts ...EngineOption) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Apply options
	options := &engineOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}

	e := &Engine{cfg: cfg, logger: options.logger}
	if err := e.buildStores(); err != nil {
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		var err error
		provider, err = buildSearchProvider(cfg, options.logger)
		if err != nil {
			e.closeStores()
			return nil, err
		}
	}

	completer := options.completer
	if completer == nil {
		var err error
		completer, err = buildCompleterChain(ctx, cfg, options.logger)
		if err != nil {
			e.closeStores()
			return nil, err
		}
	}

	search, err := websearch.NewService(provider,
		websearch.WithCache(e.searchStore),
		websearch.WithResultTTL(cfg.Search.ResultTTL.Std()),
		websearch.WithPacer(ratelimit.NewFixedPacer(cfg.Search.VariantDelay.Std())),
		websearch.WithLogger(options.logger))
	if err != nil {
		e.closeStores()
		return nil, err
	}
	e.search = search

	verifier, err := enrich.NewVerifier(completer,
		enrich.WithCache(e.supplierStore),
		enrich.WithCacheTTL(cfg.Cache.SupplierTTL.Std()),
		enrich.WithLogger(options.logger))
	if err != nil {
		e.closeStores()
		return nil, err
	}
	e.verifier = verifier

	limit := cfg.Limits.RequestsPerMinute
	if limit == 0 {
		limit = discovery.DefaultRequestLimit
	}
	disc, err := discovery.NewService(search, verifier,
		discovery.WithLimiter(ratelimit.NewSlidingWindow(limit, time.Minute)),
		discovery.WithLogger(options.logger))
	if err != nil {
		e.Close()
		return nil, err
	}
	e.discovery = disc

	agent, err := market.NewAgent(search, completer,
		market.WithCache(e.insightStore),
		market.WithInsightTTL(cfg.Cache.InsightTTL.Std()),
		market.WithLogger(options.logger))
	if err != nil {
		e.Close()
		return nil, err
	}
	e.market = agent

	e.startSweepers(ctx)
	return e, nil
}

// Discover runs supplier discovery for req.
func (e *Engine) Discover(ctx context.Context, req discovery.Request) (*discovery.Result, error) {
	return e.discovery.Discover(ctx, req)
}

// AnalyzeMarket synthesizes a market insight for product over timeframe.
func (e *Engine) AnalyzeMarket(ctx context.Context, product, timeframe string) (*market.Insight, error) {
	return e.market.Analyze(ctx, product, timeframe)
}

// Discovery exposes the discovery service for callers that need its full
// surface.
func (e *Engine) Discovery() *discovery.Service {
	return e.discovery
}

// Market exposes the market agent.
func (e *Engine) Market() *market.Agent {
	return e.market
}

// Health reports a point-in-time snapshot of providers, limits, and cache
// occupancy.
func (e *Engine) Health() Health {
	svc := e.discovery.Health()
	return Health{
		SearchProvider: svc.SearchProvider,
		Completer:      svc.Completer,
		RequestLimit:   svc.RequestLimit,
		Caches: map[string]cache.Stats{
			"search":   e.searchStore.Stats(),
			"supplier": e.supplierStore.Stats(),
			"insight":  e.insightStore.Stats(),
		},
	}
}

// Close stops the background sweepers and releases the worker pool and
// stores. The engine must not be used afterwards.
func (e *Engine) Close() error {
	if e.sweepCancel != nil {
		e.sweepCancel()
	}
	if e.verifier != nil {
		e.verifier.Release()
	}
	return e.closeStores()
}

func (e *Engine) buildStores() error {
	build := func() (cache.Store, error) {
		if e.cfg.Cache.Backend == "badger" {
			return cache.NewBadger()
		}
		return cache.NewMemory(), nil
	}

	var err error
	if e.searchStore, err = build(); err != nil {
		return err
	}
	if e.supplierStore, err = build(); err != nil {
		e.closeStores()
		return err
	}
	if e.insightStore, err = build(); err != nil {
		e.closeStores()
		return err
	}
	return nil
}

func (e *Engine) closeStores() error {
	var firstErr error
	for _, store := range []cache.Store{e.searchStore, e.supplierStore, e.insightStore} {
		if store == nil {
			continue
		}
		if err := store.Close(); err != nil {
			e.logger.Error("error closing cache store", "err", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// startSweepers evicts expired entries in the background for the lifetime
// of ctx or until Close.
func (e *Engine) startSweepers(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	e.sweepCancel = cancel

	for name, store := range map[string]cache.Store{
		"search":   e.searchStore,
		"supplier": e.supplierStore,
		"insight":  e.insightStore,
	} {
		sweeper := cache.NewSweeper(store,
			cache.WithLogger(e.logger.With("store", name)))
		go sweeper.Run(ctx)
	}
}

func buildSearchProvider(cfg config.Config, logger *slog.Logger) (websearch.Provider, error) {
	opts := []duckduckgo.Option{duckduckgo.WithLogger(logger)}
	if cfg.Search.Endpoint != "" {
		opts = append(opts, duckduckgo.WithEndpoint(cfg.Search.Endpoint))
	}
	return duckduckgo.New(opts...)
}

// buildCompleterChain assembles the provider fallback chain in priority
// order: Groq first, Gemini second.
func buildCompleterChain(ctx context.Context, cfg config.Config, logger *slog.Logger) (enrich.Completer, error) {
	var completers []enrich.Completer

	if cfg.Groq.APIKey != "" {
		groq, err := openai.New(openai.Config{
			BaseURL: cfg.Groq.BaseURL,
			Token:   cfg.Groq.APIKey,
			Model:   cfg.Groq.Model,
		}, openai.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		completers = append(completers, groq)
	}

	if cfg.Gemini.APIKey != "" {
		gem, err := gemini.New(ctx, gemini.Config{
			APIKey: cfg.Gemini.APIKey,
			Model:  cfg.Gemini.Model,
		}, gemini.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		completers = append(completers, gem)
	}

	if len(completers) == 0 {
		return nil, ErrNoProviders
	}
	return enrich.NewChain(completers, enrich.WithChainLogger(logger))
}
