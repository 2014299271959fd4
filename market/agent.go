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

package market

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/procurit/cache"
	"github.com/poiesic/procurit/core"
	"github.com/poiesic/procurit/enrich"
	"github.com/poiesic/procurit/websearch"
)

const (
	// DefaultTimeframe is used when the caller does not pick one.
	DefaultTimeframe = "6months"

	// DefaultInsightTTL is how long synthesized insights stay cached.
	DefaultInsightTTL = 2 * time.Hour

	// maxSignalsInPrompt bounds how many signals are summarized into the
	// synthesis prompt.
	maxSignalsInPrompt = 10

	// fallbackConfidence marks insights built without usable data.
	fallbackConfidence = 0.3
)

// Insight is the synthesized market picture for one product and timeframe.
type Insight struct {
	Product   string `json:"product"`
	Timeframe string `json:"timeframe"`

	// PriceTrend is "increasing", "decreasing", or "stable".
	PriceTrend string `json:"price_trend"`

	// KeyFactors are the drivers behind the trend.
	KeyFactors []string `json:"key_factors"`

	MarketSize string   `json:"market_size,omitempty"`
	GrowthRate string   `json:"growth_rate,omitempty"`
	KeyPlayers []string `json:"key_players,omitempty"`

	Opportunities   []string `json:"opportunities,omitempty"`
	Risks           []string `json:"risks,omitempty"`
	Recommendations []string `json:"recommendations"`

	// Confidence grades how much signal backed the synthesis, in [0,1].
	Confidence float64 `json:"confidence"`

	// SignalCount is how many search signals fed the synthesis.
	SignalCount int `json:"signal_count"`
}

// insightPayload is the JSON shape requested from the model.
type insightPayload struct {
	PriceTrend      string   `json:"price_trend"`
	KeyFactors      []string `json:"key_factors"`
	MarketSize      string   `json:"market_size"`
	GrowthRate      string   `json:"growth_rate"`
	KeyPlayers      []string `json:"key_players"`
	Opportunities   []string `json:"opportunities"`
	Risks           []string `json:"risks"`
	Recommendations []string `json:"recommendations"`
	Confidence      *float64 `json:"confidence"`
}

// Agent gathers market signals and synthesizes insights from them.
type Agent struct {
	search    *websearch.Service
	completer enrich.Completer
	insights  cache.Typed[Insight]
	ttl       time.Duration
	logger    *slog.Logger
}

// Option configures an Agent.
type Option func(*Agent) error

// WithCache sets the store backing the insight cache.
// Default is an in-process cache.Memory.
func WithCache(store cache.Store) Option {
	return func(a *Agent) error {
		if store != nil {
			a.insights = cache.NewTyped[Insight](store)
		}
		return nil
	}
}

// WithInsightTTL sets how long insights stay cached.
// Default is DefaultInsightTTL.
func WithInsightTTL(ttl time.Duration) Option {
	return func(a *Agent) error {
		if ttl > 0 {
			a.ttl = ttl
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// NewAgent creates a market agent over the given search service and
// completer.
func NewAgent(search *websearch.Service, completer enrich.Completer, opts ...Option) (*Agent, error) {
	if search == nil {
		return nil, ErrSearchRequired
	}
	if completer == nil {
		return nil, ErrCompleterRequired
	}

	a := &Agent{
		search:    search,
		completer: completer,
		insights:  cache.NewTyped[Insight](cache.NewMemory()),
		ttl:       DefaultInsightTTL,
		logger:    slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Analyze gathers market signals for product over timeframe and synthesizes
// them into an Insight. No signals or a failed synthesis produce the
// deterministic limited-data insight rather than an error; only context
// cancellation fails the call.
func (a *Agent) Analyze(ctx context.Context, product, timeframe string) (*Insight, error) {
	product = strings.TrimSpace(product)
	if product == "" {
		return nil, ErrEmptyProduct
	}
	if timeframe == "" {
		timeframe = DefaultTimeframe
	}

	key := "insight:" + core.Fingerprint(product, timeframe).String()
	if cached, ok := a.insights.Get(key); ok {
		a.logger.Debug("insight cache hit", "product", product, "timeframe", timeframe)
		return &cached, nil
	}

	signals, err := a.search.FindMarketSignals(ctx, product, timeframe)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		a.logger.Error("market signal search failed", "product", product, "err", err)
		signals = nil
	}
	if len(signals) == 0 {
		a.logger.Warn("no market signals found", "product", product)
		insight := fallbackInsight(product, timeframe)
		return &insight, nil
	}

	response, err := a.completer.Complete(ctx, buildInsightPrompt(product, timeframe, signals))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		a.logger.Error("insight synthesis failed, using fallback",
			"product", product,
			"completer", a.completer.Name(),
			"err", err)
		insight := fallbackInsight(product, timeframe)
		insight.SignalCount = len(signals)
		return &insight, nil
	}

	insight := insightFromResponse(product, timeframe, response, len(signals))
	if err := a.insights.Set(key, insight, a.ttl); err != nil {
		a.logger.Warn("failed to cache insight", "product", product, "err", err)
	}

	a.logger.Info("market analysis complete",
		"product", product,
		"timeframe", timeframe,
		"signals", len(signals),
		"trend", insight.PriceTrend)
	return &insight, nil
}

// buildInsightPrompt summarizes the strongest signals and asks for the
// insight JSON shape.
func buildInsightPrompt(product, timeframe string, signals []core.SearchHit) string {
	var summary strings.Builder
	for i, signal := range signals {
		if i >= maxSignalsInPrompt {
			break
		}
		fmt.Fprintf(&summary, "- %s: %s (source: %s)\n", signal.Title, signal.Snippet, signal.Source)
	}

	return fmt.Sprintf(`Analyze the following market data for %s over the next %s and provide market intelligence.

Market Data:
%s
Respond with a JSON object of this exact structure:
{
  "price_trend": "increasing|decreasing|stable",
  "key_factors": ["factor"],
  "market_size": "market size information",
  "growth_rate": "growth rate percentage",
  "key_players": ["company"],
  "opportunities": ["opportunity"],
  "risks": ["risk"],
  "recommendations": ["recommendation"],
  "confidence": 0.0
}

Focus on:
1. Price trends and forecasts
2. Market dynamics and drivers
3. Competitive landscape
4. Supply chain insights
5. Procurement recommendations`, product, timeframe, summary.String())
}

// insightFromResponse merges the model's payload over the deterministic
// defaults. A malformed response degrades to the limited-data insight with
// the observed signal count attached.
func insightFromResponse(product, timeframe, response string, signalCount int) Insight {
	var payload insightPayload
	if err := enrich.DecodeObject(response, &payload); err != nil {
		insight := fallbackInsight(product, timeframe)
		insight.SignalCount = signalCount
		return insight
	}

	insight := Insight{
		Product:         product,
		Timeframe:       timeframe,
		PriceTrend:      normalizeTrend(payload.PriceTrend),
		KeyFactors:      payload.KeyFactors,
		MarketSize:      payload.MarketSize,
		GrowthRate:      payload.GrowthRate,
		KeyPlayers:      payload.KeyPlayers,
		Opportunities:   payload.Opportunities,
		Risks:           payload.Risks,
		Recommendations: payload.Recommendations,
		Confidence:      0.5,
		SignalCount:     signalCount,
	}
	if payload.Confidence != nil {
		insight.Confidence = clamp01(*payload.Confidence)
	}
	if insight.KeyFactors == nil {
		insight.KeyFactors = []string{}
	}
	if len(insight.Recommendations) == 0 {
		insight.Recommendations = []string{"Normal procurement timing recommended"}
	}
	return insight
}

// fallbackInsight is the deterministic limited-data insight.
func fallbackInsight(product, timeframe string) Insight {
	return Insight{
		Product:    product,
		Timeframe:  timeframe,
		PriceTrend: "stable",
		KeyFactors: []string{"Limited data available"},
		Risks:      []string{"Data quality limitations may affect decision-making"},
		Recommendations: []string{
			"Conduct more detailed market research",
			"Consult industry experts",
		},
		Confidence: fallbackConfidence,
	}
}

func normalizeTrend(trend string) string {
	switch strings.ToLower(strings.TrimSpace(trend)) {
	case "increasing", "decreasing", "stable":
		return strings.ToLower(strings.TrimSpace(trend))
	default:
		return "stable"
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
