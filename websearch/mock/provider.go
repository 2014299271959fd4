// Package mock provides a test double for websearch.Provider.
//
// The mock allows tests to run without network access and enables
// controlled, deterministic search results via function-field injection.
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/poiesic/procurit/core"
)

// Provider is a test double for websearch.Provider.
// It allows custom behavior injection via function fields.
type Provider struct {
	// SearchFunc is called by Search if set.
	// If nil, deterministic hits derived from the query are returned.
	SearchFunc func(ctx context.Context, query string, maxResults int) ([]core.SearchHit, error)

	mu        sync.Mutex
	callCount int
	queries   []string
}

// NewProvider creates a mock provider with default deterministic behavior.
func NewProvider() *Provider {
	return &Provider{}
}

// WithSearchFunc sets custom search behavior and returns the provider for
// chaining.
func (p *Provider) WithSearchFunc(fn func(ctx context.Context, query string, maxResults int) ([]core.SearchHit, error)) *Provider {
	p.SearchFunc = fn
	return p
}

// Search records the call and delegates to SearchFunc when set.
func (p *Provider) Search(ctx context.Context, query string, maxResults int) ([]core.SearchHit, error) {
	p.mu.Lock()
	p.callCount++
	p.queries = append(p.queries, query)
	p.mu.Unlock()

	if p.SearchFunc != nil {
		return p.SearchFunc(ctx, query, maxResults)
	}

	// Default: one synthetic hit per requested slot, derived from the query.
	if maxResults <= 0 {
		maxResults = 1
	}
	hits := make([]core.SearchHit, 0, maxResults)
	for i := 0; i < maxResults; i++ {
		hits = append(hits, core.SearchHit{
			Title:     fmt.Sprintf("Result %d for %s", i+1, query),
			URL:       fmt.Sprintf("https://example.com/%s/%d", sanitize(query), i+1),
			Snippet:   fmt.Sprintf("Synthetic result %d for query %q.", i+1, query),
			Source:    "example.com",
			Relevance: 0.5,
		})
	}
	return hits, nil
}

// Name identifies the mock in logs.
func (p *Provider) Name() string {
	return "mock"
}

// CallCount returns how many times Search was called.
func (p *Provider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.callCount
}

// Queries returns the queries Search was called with, in order.
func (p *Provider) Queries() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.queries))
	copy(out, p.queries)
	return out
}

func sanitize(query string) string {
	out := make([]rune, 0, len(query))
	for _, r := range query {
		if r == ' ' {
			r = '-'
		}
		out = append(out, r)
	}
	return string(out)
}
