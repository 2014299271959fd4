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


// Package extract derives supplier candidates from raw search hits using
// ordered heuristic rules. Extraction is best-effort: a hit that yields no
// plausible company name is skipped, never errored.
package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/poiesic/procurit/core"
)

var (
	numberedPrefix = regexp.MustCompile(`^\d+\.\s*`)
	afterDash      = regexp.MustCompile(`\s*-\s*.*$`)
	afterPipe      = regexp.MustCompile(`\s*\|\s*.*$`)

	// nameRules are tried in order; the first match longer than two
	// characters wins.
	nameRules = []*regexp.Regexp{
		// Legal-suffix form: "Acme Industrial Corp", "Bolt Works LLC".
		regexp.MustCompile(`([A-Z][a-zA-Z0-9\s&.,]+(?:Inc|LLC|Ltd|Corp|Company|Co\.|Corporation))`),
		// Bounded capitalized phrase.
		regexp.MustCompile(`([A-Z][a-zA-Z0-9\s&.,]{2,30})`),
		// Whatever precedes the first separator.
		regexp.MustCompile(`^([^-|]+)`),
	}

	// locationRules are tried in order against the snippet.
	locationRules = []*regexp.Regexp{
		// "located in Houston", "headquarters at Munich, Germany".
		regexp.MustCompile(`(?:located|based|headquarters|office)\s+(?:in|at)\s+([A-Z][a-zA-Z\s,]+)`),
		// "Austin, TX"
		regexp.MustCompile(`([A-Z][a-zA-Z\s]+,\s*[A-Z]{2})`),
		// "Hamburg, Germany"
		regexp.MustCompile(`([A-Z][a-zA-Z\s]+,\s*[A-Z][a-zA-Z\s]+)`),
	}
)

// CompanyName extracts a company name from a search result title. Numbered
// list prefixes and separator-delimited taglines are stripped before the
// name rules run. Falls back to the trimmed title.
func CompanyName(title string) string {
	cleaned := numberedPrefix.ReplaceAllString(title, "")
	cleaned = afterDash.ReplaceAllString(cleaned, "")
	cleaned = afterPipe.ReplaceAllString(cleaned, "")

	for _, rule := range nameRules {
		match := rule.FindStringSubmatch(cleaned)
		if match == nil {
			continue
		}
		name := strings.TrimSpace(match[1])
		if len(name) >= core.MinCandidateNameLen {
			return name
		}
	}
	return strings.TrimSpace(cleaned)
}

// Location extracts a location from a snippet. When no rule matches but the
// caller's preferred location is mentioned in the snippet, the preferred
// location is returned; otherwise core.LocationUnspecified.
func Location(snippet, preferred string) string {
	for _, rule := range locationRules {
		match := rule.FindStringSubmatch(snippet)
		if match == nil {
			continue
		}
		location := strings.TrimSpace(match[1])
		if len(location) > 2 {
			return location
		}
	}

	if preferred != "" && strings.Contains(strings.ToLower(snippet), strings.ToLower(preferred)) {
		return preferred
	}
	return core.LocationUnspecified
}

// Extract builds a candidate from hit. The boolean is false when the hit
// yields no acceptable company name.
func Extract(hit core.SearchHit, preferredLocation string) (core.Candidate, bool) {
	candidate := core.Candidate{
		Name:            CompanyName(hit.Title),
		Location:        Location(hit.Snippet, preferredLocation),
		Description:     hit.Snippet,
		Website:         hit.URL,
		Domain:          domainOf(hit.URL),
		SourceTitle:     hit.Title,
		SearchRelevance: hit.Relevance,
	}
	if err := core.ValidateCandidate(&candidate); err != nil {
		return core.Candidate{}, false
	}
	return candidate, true
}

// ExtractAll extracts candidates from every hit, dropping the ones that
// fail validation.
func ExtractAll(hits []core.SearchHit, preferredLocation string) []core.Candidate {
	candidates := make([]core.Candidate, 0, len(hits))
	for _, hit := range hits {
		if candidate, ok := Extract(hit, preferredLocation); ok {
			candidates = append(candidates, candidate)
		}
	}
	return candidates
}

func domainOf(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return parsed.Host
}
