package duckduckgo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const serpPage = `<!DOCTYPE html>
<html><body>
<div class="results">
  <div class="result results_links results_links_deep web-result">
    <h2 class="result__title">
      <a rel="nofollow" class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Facme.example%2Fsteel&amp;rut=abc123">Acme Steel Supply</a>
    </h2>
    <a class="result__snippet" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Facme.example%2Fsteel">Industrial steel supplier with ISO 9001 certification.</a>
  </div>
  <div class="result results_links results_links_deep web-result">
    <h2 class="result__title">
      <a rel="nofollow" class="result__a" href="https://bolts.example/catalog">Bolt Works Catalog</a>
    </h2>
    <a class="result__snippet" href="https://bolts.example/catalog">Fasteners and bolts for heavy industry.</a>
  </div>
  <div class="result">
    <h2 class="result__title">
      <a rel="nofollow" class="result__a" href=""></a>
    </h2>
  </div>
  <div class="result results_links results_links_deep web-result">
    <h2 class="result__title">
      <a rel="nofollow" class="result__a" href="https://third.example/">Third Result</a>
    </h2>
    <a class="result__snippet" href="https://third.example/">A third organic result.</a>
  </div>
</div>
</body></html>`

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := New(WithEndpoint(server.URL+"/html/"), WithHTTPClient(server.Client()))
	require.NoError(t, err)
	return p
}

func TestSearchParsesResults(t *testing.T) {
	var gotQuery string
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(serpPage))
	})

	hits, err := p.Search(context.Background(), "industrial steel suppliers", 10)
	require.NoError(t, err)
	assert.Equal(t, "industrial steel suppliers", gotQuery)

	require.Len(t, hits, 3, "the empty anchor must be skipped")

	assert.Equal(t, "Acme Steel Supply", hits[0].Title)
	assert.Equal(t, "https://acme.example/steel", hits[0].URL, "redirect links must be unwrapped")
	assert.Equal(t, "acme.example", hits[0].Source)
	assert.Equal(t, "Industrial steel supplier with ISO 9001 certification.", hits[0].Snippet)
	assert.InDelta(t, 0.5, hits[0].Relevance, 1e-9)

	assert.Equal(t, "https://bolts.example/catalog", hits[1].URL, "direct links pass through")
}

func TestSearchRespectsMaxResults(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(serpPage))
	})

	hits, err := p.Search(context.Background(), "steel", 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	_, err = p.Search(context.Background(), "   ", 5)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestSearchUnexpectedStatus(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := p.Search(context.Background(), "steel", 5)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestResolveRedirect(t *testing.T) {
	tests := []struct {
		name string
		href string
		want string
	}{
		{"redirect link", "//duckduckgo.com/l/?uddg=" + url.QueryEscape("https://acme.example/steel") + "&rut=xyz", "https://acme.example/steel"},
		{"direct link", "https://bolts.example/catalog", "https://bolts.example/catalog"},
		{"schemeless", "//bolts.example/catalog", "https://bolts.example/catalog"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveRedirect(tt.href))
		})
	}
}
