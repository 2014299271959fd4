package websearch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/procurit/core"
	"github.com/poiesic/procurit/ratelimit"
	"github.com/poiesic/procurit/websearch/mock"
)

func newTestService(t *testing.T, provider Provider, opts ...Option) *Service {
	t.Helper()
	opts = append([]Option{WithPacer(ratelimit.NopPacer{})}, opts...)
	svc, err := NewService(provider, opts...)
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresProvider(t *testing.T) {
	_, err := NewService(nil)
	assert.ErrorIs(t, err, ErrProviderRequired)
}

func TestCleanQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Steel Pipes", "steel pipes"},
		{"strips punctuation", "steel, pipes & tubes!", "steel pipes tubes"},
		{"collapses whitespace", "  steel   pipes  ", "steel pipes"},
		{"keeps hyphens", "heavy-duty fasteners", "heavy-duty fasteners"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanQuery(tt.input))
		})
	}
}

func TestDedupeIsIdempotent(t *testing.T) {
	hits := []core.SearchHit{
		{Title: "Acme Steel", URL: "https://acme.example/"},
		{Title: "Acme Steel", URL: "https://acme.example"},
		{Title: "ACME STEEL ", URL: "https://other.example"},
		{Title: "Bolt Works", URL: "https://bolts.example"},
	}

	once := dedupe(hits)
	require.Len(t, once, 2)

	twice := dedupe(once)
	assert.Equal(t, once, twice, "applying dedup to deduped results must change nothing")
}

func TestFilterAndBoost(t *testing.T) {
	hits := []core.SearchHit{
		{Title: "Acme Steel Supplier", Snippet: "Industrial steel.", Relevance: 0.5},
		{Title: "Steel facts", Snippet: "Steel on wikipedia today", Relevance: 0.5},
		{Title: "Plain result", Snippet: "nothing notable", Relevance: 0.5},
		{Title: "Mega Manufacturer", Snippet: "quality parts", Relevance: 0.95},
	}

	kept := filterAndBoost(hits, supplierKeywords, supplierBoost)
	require.Len(t, kept, 3, "spam hit must be dropped")

	assert.InDelta(t, 0.7, kept[0].Relevance, 1e-9, "supplier keyword adds 0.2")
	assert.InDelta(t, 0.5, kept[1].Relevance, 1e-9, "no keyword leaves relevance unchanged")
	assert.InDelta(t, 1.0, kept[2].Relevance, 1e-9, "boost is capped at 1.0")
}

func TestRescoreByOverlap(t *testing.T) {
	hits := []core.SearchHit{
		{Title: "industrial steel catalog", Snippet: "all about steel", Relevance: 0.1},
		{Title: "unrelated page", Snippet: "nothing here", Relevance: 0.1},
	}

	rescoreByOverlap(hits, "industrial steel")

	// Two query terms: title matches both (2*0.3), snippet matches one (1*0.1),
	// normalized by 2 -> +0.35.
	assert.InDelta(t, 0.45, hits[0].Relevance, 1e-9)
	assert.InDelta(t, 0.1, hits[1].Relevance, 1e-9)
}

func TestFindSuppliersAggregates(t *testing.T) {
	provider := mock.NewProvider().WithSearchFunc(
		func(_ context.Context, query string, _ int) ([]core.SearchHit, error) {
			return []core.SearchHit{
				{Title: "Acme Steel Supplier", URL: "https://acme.example", Snippet: "industrial steel supplier", Relevance: 0.5},
				{Title: "Free Steel Download", URL: "https://spam.example/" + query, Snippet: "click here now", Relevance: 0.5},
				{Title: "Steel Review Blog", URL: "https://blog.example", Snippet: "opinions on steel", Relevance: 0.5},
			}, nil
		})
	svc := newTestService(t, provider)

	hits, err := svc.FindSuppliers(context.Background(), "industrial steel", "texas", 10)
	require.NoError(t, err)

	assert.Equal(t, 5, provider.CallCount(), "each supplier variant must be queried once")
	for _, q := range provider.Queries() {
		assert.Contains(t, q, "texas", "variants must carry the location")
	}

	require.Len(t, hits, 2, "duplicates and spam must be gone")
	assert.Equal(t, "Acme Steel Supplier", hits[0].Title, "boosted supplier hit must rank first")
	for i := 1; i < len(hits); i++ {
		assert.GreaterOrEqual(t, hits[i-1].Relevance, hits[i].Relevance, "ordering must be descending")
	}
}

func TestFindSuppliersTruncates(t *testing.T) {
	provider := mock.NewProvider() // default: maxResults distinct hits per variant
	svc := newTestService(t, provider)

	hits, err := svc.FindSuppliers(context.Background(), "fasteners", "", 3)
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}

func TestFindSuppliersServesFromCache(t *testing.T) {
	provider := mock.NewProvider()
	svc := newTestService(t, provider)

	_, err := svc.FindSuppliers(context.Background(), "copper wire", "", 5)
	require.NoError(t, err)
	first := provider.CallCount()

	_, err = svc.FindSuppliers(context.Background(), "copper wire", "", 5)
	require.NoError(t, err)

	assert.Equal(t, first, provider.CallCount(), "a repeat query must be served from cache")
}

func TestFindSuppliersCollapsesConcurrentMisses(t *testing.T) {
	provider := mock.NewProvider().WithSearchFunc(
		func(_ context.Context, query string, _ int) ([]core.SearchHit, error) {
			time.Sleep(20 * time.Millisecond)
			return []core.SearchHit{{Title: "Hit " + query, URL: "https://x.example/" + query, Relevance: 0.5}}, nil
		})
	svc := newTestService(t, provider)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.FindSuppliers(context.Background(), "aluminum sheet", "", 5)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, provider.CallCount(), "concurrent misses must share one fan-out")
}

func TestFindSuppliersSkipsFailedVariants(t *testing.T) {
	var calls int
	var mu sync.Mutex
	provider := mock.NewProvider().WithSearchFunc(
		func(_ context.Context, query string, _ int) ([]core.SearchHit, error) {
			mu.Lock()
			calls++
			n := calls
			mu.Unlock()
			if n%2 == 0 {
				return nil, errors.New("provider overloaded")
			}
			return []core.SearchHit{{
				Title:     fmt.Sprintf("Supplier %d", n),
				URL:       fmt.Sprintf("https://s%d.example", n),
				Snippet:   "steel supplier",
				Relevance: 0.5,
			}}, nil
		})
	svc := newTestService(t, provider)

	hits, err := svc.FindSuppliers(context.Background(), "steel", "", 10)
	require.NoError(t, err, "variant failures must not fail the fan-out")
	assert.Len(t, hits, 3, "surviving variants must still contribute")
}

func TestFindSuppliersAllVariantsFailed(t *testing.T) {
	provider := mock.NewProvider().WithSearchFunc(
		func(context.Context, string, int) ([]core.SearchHit, error) {
			return nil, errors.New("blocked")
		})
	svc := newTestService(t, provider)

	hits, err := svc.FindSuppliers(context.Background(), "steel", "", 10)
	require.NoError(t, err)
	assert.Empty(t, hits, "total provider failure degrades to an empty result")
}

func TestFindSuppliersEmptyQuery(t *testing.T) {
	svc := newTestService(t, mock.NewProvider())

	_, err := svc.FindSuppliers(context.Background(), "  !!! ", "", 5)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestFindSuppliersHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	provider := mock.NewProvider().WithSearchFunc(
		func(ctx context.Context, _ string, _ int) ([]core.SearchHit, error) {
			cancel()
			return nil, ctx.Err()
		})
	svc := newTestService(t, provider)

	_, err := svc.FindSuppliers(ctx, "steel", "", 5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFindMarketSignals(t *testing.T) {
	fixed := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	provider := mock.NewProvider()
	svc := newTestService(t, provider, WithClock(func() time.Time { return fixed }))

	hits, err := svc.FindMarketSignals(context.Background(), "copper", "6months")
	require.NoError(t, err)
	assert.NotEmpty(t, hits)

	queries := provider.Queries()
	require.Len(t, queries, 6, "each market variant must be queried once")

	stamped := 0
	for _, q := range queries {
		if strings.Contains(q, "2026") {
			stamped++
		}
	}
	assert.Equal(t, 2, stamped, "price and cost variants carry the current year")
	assert.Contains(t, queries[1], "6months")
}

func TestSuggestions(t *testing.T) {
	svc := newTestService(t, mock.NewProvider())

	got := svc.Suggestions("Steel Pipes!")
	assert.Equal(t, []string{
		"steel pipes suppliers",
		"steel pipes manufacturers",
		"steel pipes vendors",
		"steel pipes distributors",
		"steel pipes companies",
	}, got)

	assert.Nil(t, svc.Suggestions("  "))
}
