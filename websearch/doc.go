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


// Package websearch turns a single product query into a fanned-out,
// aggregated web search.
//
// A Service expands the query into a deterministic set of intent-specific
// variants (supplier discovery or market intelligence), issues them
// sequentially through a Provider under a ratelimit.Pacer, and merges the
// per-variant results: duplicates collapse on normalized URL and title, spam
// is dropped, intent keywords and query-term overlap raise relevance, and
// the merged set is returned sorted by descending relevance.
//
// Individual variant failures are logged and skipped; a degraded provider
// yields fewer results, not an error. Aggregated result sets are cached with
// a short TTL, and concurrent misses for the same key are collapsed into a
// single upstream fan-out.
package websearch
