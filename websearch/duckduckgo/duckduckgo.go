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


// Package duckduckgo implements websearch.Provider over the DuckDuckGo HTML
// endpoint. The HTML frontend needs no API key, which makes it the default
// provider; it is also aggressively rate limited, so callers are expected to
// pace their queries.
package duckduckgo

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/poiesic/procurit/core"
)

const (
	defaultEndpoint = "https://html.duckduckgo.com/html/"
	defaultTimeout  = 10 * time.Second

	// userAgent mimics a regular browser; the HTML endpoint rejects
	// obviously programmatic clients.
	userAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

	// defaultRelevance is assigned to every parsed hit; the aggregation
	// layer reweights it.
	defaultRelevance = 0.5
)

// Provider searches via the DuckDuckGo HTML frontend.
type Provider struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// Option configures a Provider.
type Option func(*Provider) error

// WithEndpoint overrides the search endpoint. Intended for tests.
func WithEndpoint(endpoint string) Option {
	return func(p *Provider) error {
		if endpoint == "" {
			return ErrEndpointRequired
		}
		p.endpoint = endpoint
		return nil
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) error {
		if client != nil {
			p.client = client
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// New creates a DuckDuckGo provider.
func New(opts ...Option) (*Provider, error) {
	p := &Provider{
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: defaultTimeout},
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Name identifies the provider.
func (p *Provider) Name() string {
	return "duckduckgo"
}

// Search runs query against the HTML endpoint and parses up to maxResults
// organic results.
func (p *Provider) Search(ctx context.Context, query string, maxResults int) ([]core.SearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.endpoint+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, fmt.Errorf("building search request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	hits := p.parseResults(doc, maxResults)
	p.logger.Debug("duckduckgo search complete", "query", query, "hits", len(hits))
	return hits, nil
}

func (p *Provider) parseResults(doc *goquery.Document, maxResults int) []core.SearchHit {
	var hits []core.SearchHit

	doc.Find("div.result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if maxResults > 0 && len(hits) >= maxResults {
			return false
		}

		anchor := sel.Find("a.result__a").First()
		title := strings.TrimSpace(anchor.Text())
		href, _ := anchor.Attr("href")
		target := resolveRedirect(href)
		if title == "" || target == "" {
			return true
		}

		hits = append(hits, core.SearchHit{
			Title:     title,
			URL:       target,
			Snippet:   strings.TrimSpace(sel.Find(".result__snippet").Text()),
			Source:    domainOf(target),
			Relevance: defaultRelevance,
		})
		return true
	})

	return hits
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg=<target> redirect links to
// the destination URL. Direct links pass through unchanged.
func resolveRedirect(href string) string {
	if href == "" {
		return ""
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		return target
	}
	if parsed.Scheme == "" {
		parsed.Scheme = "https"
	}
	return parsed.String()
}

func domainOf(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return "unknown"
	}
	return parsed.Host
}
