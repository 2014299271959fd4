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


package websearch

import (
	"regexp"
	"strings"
)

// supplierKeywords mark a hit as supplier-related content worth boosting.
var supplierKeywords = []string{
	"supplier", "manufacturer", "vendor", "distributor", "company",
	"corporation", "inc", "llc", "ltd", "wholesale", "industrial",
	"factory", "producer", "exporter", "importer",
}

// marketKeywords mark a hit as market-intelligence content worth boosting.
var marketKeywords = []string{
	"market", "price", "pricing", "cost", "analysis", "report",
	"trend", "forecast", "industry", "research", "data",
	"statistics", "survey", "outlook", "intelligence",
}

// spamIndicators disqualify a hit regardless of other signals.
var spamIndicators = []string{
	"download", "free", "click here", "sign up", "register now",
	"limited time", "special offer", "discount", "sale",
	"wikipedia", "amazon.com", "ebay.com", "social media",
}

var (
	nonQueryChars = regexp.MustCompile(`[^\w\s-]`)
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// cleanQuery normalizes free text for querying and term comparison:
// punctuation stripped, whitespace collapsed, lowercased.
func cleanQuery(query string) string {
	cleaned := nonQueryChars.ReplaceAllString(strings.TrimSpace(query), "")
	cleaned = whitespaceRun.ReplaceAllString(cleaned, " ")
	return strings.ToLower(strings.TrimSpace(cleaned))
}

func containsAny(content string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(content, keyword) {
			return true
		}
	}
	return false
}

func termSet(text string) map[string]struct{} {
	terms := make(map[string]struct{})
	for _, term := range strings.Fields(text) {
		terms[term] = struct{}{}
	}
	return terms
}

func overlapCount(a, b map[string]struct{}) int {
	count := 0
	for term := range a {
		if _, ok := b[term]; ok {
			count++
		}
	}
	return count
}
