package market

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/procurit/core"
	"github.com/poiesic/procurit/enrich"
	enrichmock "github.com/poiesic/procurit/enrich/mock"
	"github.com/poiesic/procurit/ratelimit"
	"github.com/poiesic/procurit/websearch"
	searchmock "github.com/poiesic/procurit/websearch/mock"
)

const insightResponse = `{
  "price_trend": "increasing",
  "key_factors": ["raw material shortage", "energy costs"],
  "market_size": "USD 12B",
  "growth_rate": "4.5%",
  "key_players": ["Lone Star Steel Inc"],
  "opportunities": ["long-term contracts"],
  "risks": ["tariff changes"],
  "recommendations": ["Consider forward contracts or bulk purchasing"],
  "confidence": 0.8
}`

func newTestAgent(t *testing.T, provider websearch.Provider, completer enrich.Completer, opts ...Option) *Agent {
	t.Helper()

	search, err := websearch.NewService(provider, websearch.WithPacer(ratelimit.NopPacer{}))
	require.NoError(t, err)

	agent, err := NewAgent(search, completer, opts...)
	require.NoError(t, err)
	return agent
}

func TestNewAgentValidation(t *testing.T) {
	search, err := websearch.NewService(searchmock.NewProvider())
	require.NoError(t, err)

	_, err = NewAgent(nil, enrichmock.NewCompleter())
	assert.ErrorIs(t, err, ErrSearchRequired)

	_, err = NewAgent(search, nil)
	assert.ErrorIs(t, err, ErrCompleterRequired)
}

func TestAnalyzeSynthesizesInsight(t *testing.T) {
	completer := enrichmock.NewCompleter().WithCompleteFunc(
		func(context.Context, string) (string, error) { return insightResponse, nil })
	agent := newTestAgent(t, searchmock.NewProvider(), completer)

	insight, err := agent.Analyze(context.Background(), "industrial steel", "3months")
	require.NoError(t, err)

	assert.Equal(t, "industrial steel", insight.Product)
	assert.Equal(t, "3months", insight.Timeframe)
	assert.Equal(t, "increasing", insight.PriceTrend)
	assert.Equal(t, []string{"raw material shortage", "energy costs"}, insight.KeyFactors)
	assert.Equal(t, "USD 12B", insight.MarketSize)
	assert.Equal(t, []string{"Consider forward contracts or bulk purchasing"}, insight.Recommendations)
	assert.InDelta(t, 0.8, insight.Confidence, 1e-9)
	assert.Greater(t, insight.SignalCount, 0)
}

func TestAnalyzePromptCarriesSignalsAndTimeframe(t *testing.T) {
	completer := enrichmock.NewCompleter().WithCompleteFunc(
		func(context.Context, string) (string, error) { return insightResponse, nil })
	agent := newTestAgent(t, searchmock.NewProvider(), completer)

	_, err := agent.Analyze(context.Background(), "copper wire", "")
	require.NoError(t, err)

	prompts := completer.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "copper wire")
	assert.Contains(t, prompts[0], DefaultTimeframe, "a blank timeframe must default")
	assert.Contains(t, prompts[0], `"price_trend"`)
	assert.Contains(t, prompts[0], "source:", "the prompt must carry the gathered signals")
}

func TestAnalyzeEmptyProduct(t *testing.T) {
	agent := newTestAgent(t, searchmock.NewProvider(), enrichmock.NewCompleter())

	_, err := agent.Analyze(context.Background(), "   ", "6months")
	assert.ErrorIs(t, err, ErrEmptyProduct)
}

func TestAnalyzeServesRepeatsFromCache(t *testing.T) {
	completer := enrichmock.NewCompleter().WithCompleteFunc(
		func(context.Context, string) (string, error) { return insightResponse, nil })
	agent := newTestAgent(t, searchmock.NewProvider(), completer)

	_, err := agent.Analyze(context.Background(), "industrial steel", "6months")
	require.NoError(t, err)
	require.Equal(t, 1, completer.CallCount())

	insight, err := agent.Analyze(context.Background(), "industrial steel", "6months")
	require.NoError(t, err)
	assert.Equal(t, 1, completer.CallCount(), "a repeat analysis must be served from cache")
	assert.Equal(t, "increasing", insight.PriceTrend)

	// A different timeframe is a different insight.
	_, err = agent.Analyze(context.Background(), "industrial steel", "1year")
	require.NoError(t, err)
	assert.Equal(t, 2, completer.CallCount())
}

func TestAnalyzeFallbackWhenNoSignals(t *testing.T) {
	provider := searchmock.NewProvider().WithSearchFunc(
		func(context.Context, string, int) ([]core.SearchHit, error) { return nil, nil })
	completer := enrichmock.NewCompleter()
	agent := newTestAgent(t, provider, completer)

	insight, err := agent.Analyze(context.Background(), "unobtainium", "6months")
	require.NoError(t, err)

	assert.Equal(t, "stable", insight.PriceTrend)
	assert.Equal(t, []string{"Limited data available"}, insight.KeyFactors)
	assert.InDelta(t, 0.3, insight.Confidence, 1e-9)
	assert.Zero(t, insight.SignalCount)
	assert.Equal(t, 0, completer.CallCount(), "nothing to synthesize without signals")
}

func TestAnalyzeFallbackWhenSynthesisFails(t *testing.T) {
	completer := enrichmock.NewCompleter().WithCompleteFunc(
		func(context.Context, string) (string, error) { return "", errors.New("quota exhausted") })
	agent := newTestAgent(t, searchmock.NewProvider(), completer)

	insight, err := agent.Analyze(context.Background(), "industrial steel", "6months")
	require.NoError(t, err, "a dead completer degrades to the limited-data insight")

	assert.Equal(t, "stable", insight.PriceTrend)
	assert.InDelta(t, 0.3, insight.Confidence, 1e-9)
	assert.Greater(t, insight.SignalCount, 0, "the signal count reflects what was gathered")
}

func TestAnalyzeFallbacksAreNotCached(t *testing.T) {
	failing := true
	completer := enrichmock.NewCompleter().WithCompleteFunc(
		func(context.Context, string) (string, error) {
			if failing {
				return "", errors.New("outage")
			}
			return insightResponse, nil
		})
	agent := newTestAgent(t, searchmock.NewProvider(), completer)

	insight, err := agent.Analyze(context.Background(), "industrial steel", "6months")
	require.NoError(t, err)
	require.Equal(t, "stable", insight.PriceTrend)

	failing = false
	insight, err = agent.Analyze(context.Background(), "industrial steel", "6months")
	require.NoError(t, err)
	assert.Equal(t, "increasing", insight.PriceTrend,
		"a recovered completer must re-synthesize, not replay the fallback")
}

func TestAnalyzeMalformedResponseDegrades(t *testing.T) {
	completer := enrichmock.NewCompleter().WithCompleteFunc(
		func(context.Context, string) (string, error) { return "no structure here", nil })
	agent := newTestAgent(t, searchmock.NewProvider(), completer)

	insight, err := agent.Analyze(context.Background(), "industrial steel", "6months")
	require.NoError(t, err)

	assert.Equal(t, "stable", insight.PriceTrend)
	assert.Greater(t, insight.SignalCount, 0)
}

func TestAnalyzeNormalizesUnknownTrend(t *testing.T) {
	completer := enrichmock.NewCompleter().WithCompleteFunc(
		func(context.Context, string) (string, error) {
			return `{"price_trend": "Bullish", "recommendations": ["buy"]}`, nil
		})
	agent := newTestAgent(t, searchmock.NewProvider(), completer)

	insight, err := agent.Analyze(context.Background(), "industrial steel", "6months")
	require.NoError(t, err)
	assert.Equal(t, "stable", insight.PriceTrend, "unknown trends collapse to stable")
	assert.InDelta(t, 0.5, insight.Confidence, 1e-9, "absent confidence takes the parse default")
}

func TestAnalyzeCancelledContext(t *testing.T) {
	provider := searchmock.NewProvider().WithSearchFunc(
		func(ctx context.Context, _ string, _ int) ([]core.SearchHit, error) {
			return nil, ctx.Err()
		})
	agent := newTestAgent(t, provider, enrichmock.NewCompleter())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := agent.Analyze(ctx, "industrial steel", "6months")
	assert.ErrorIs(t, err, context.Canceled)
}
