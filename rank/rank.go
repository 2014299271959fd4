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


// Package rank filters and orders verified suppliers against the caller's
// procurement criteria.
//
// Score is a weighted composite over provider confidence, verification
// status, rating, certifications, location fit, and specialty overlap. The
// composite always overwrites the supplier's ConfidenceScore: the value a
// provider reported is one input, never the output.
package rank

import (
	"sort"
	"strings"

	"github.com/poiesic/procurit/core"
)

// Composite score weights. They sum to 1.0; the result is clamped to [0,1].
const (
	confidenceWeight    = 0.40
	statusWeight        = 0.20
	ratingWeight        = 0.15
	certificationWeight = 0.10
	locationWeight      = 0.10
	specialtyWeight     = 0.05

	// certificationTarget is how many certifications earn the full
	// certification component.
	certificationTarget = 5.0

	// requirementCoverage is the fraction of requirement phrases a supplier
	// must mention to pass the requirements filter.
	requirementCoverage = 0.5
)

// statusWeights grade verification status into the composite.
var statusWeights = map[core.VerificationStatus]float64{
	core.StatusVerified:   1.0,
	core.StatusUnverified: 0.5,
	core.StatusPending:    0.3,
	core.StatusFailed:     0.0,
}

// stateAbbreviations maps US state names to their postal codes for loose
// location matching in either direction.
var stateAbbreviations = map[string]string{
	"california":   "ca",
	"texas":        "tx",
	"new york":     "ny",
	"florida":      "fl",
	"illinois":     "il",
	"pennsylvania": "pa",
}

// Criteria is what the caller is procuring and under which constraints.
type Criteria struct {
	// Product is the free-text product or service description.
	Product string

	// Location narrows results geographically when non-empty.
	Location string

	// MinRating drops suppliers rated below it. Zero disables the filter.
	MinRating float64

	// Certifications requires at least one matching certification when
	// non-empty.
	Certifications []string

	// Requirements are free-text constraint phrases; suppliers must cover
	// at least half of them.
	Requirements []string
}

// Score computes the composite relevance of supplier under criteria.
func Score(supplier *core.VerifiedSupplier, criteria Criteria) float64 {
	score := supplier.ConfidenceScore * confidenceWeight
	score += statusWeights[supplier.Status] * statusWeight

	if supplier.HasRating() {
		score += (*supplier.Rating / 5.0) * ratingWeight
	}

	if len(supplier.Certifications) > 0 {
		certScore := float64(len(supplier.Certifications)) / certificationTarget
		if certScore > 1.0 {
			certScore = 1.0
		}
		score += certScore * certificationWeight
	}

	if criteria.Location != "" && locationMatches(supplier.Location, criteria.Location) {
		score += locationWeight
	}

	if len(supplier.Specialties) > 0 {
		score += specialtyRelevance(supplier.Specialties, criteria.Product) * specialtyWeight
	}

	if score > 1.0 {
		score = 1.0
	}
	if score < 0.0 {
		score = 0.0
	}
	return score
}

// Filter drops suppliers that violate the criteria's hard constraints.
// A supplier with no usable location passes the location filter: absence of
// evidence is not disqualifying at this stage.
func Filter(suppliers []core.VerifiedSupplier, criteria Criteria) []core.VerifiedSupplier {
	kept := make([]core.VerifiedSupplier, 0, len(suppliers))
	for _, supplier := range suppliers {
		if criteria.Location != "" && hasLocation(&supplier) &&
			!locationMatches(supplier.Location, criteria.Location) {
			continue
		}
		if criteria.MinRating > 0 && supplier.HasRating() && *supplier.Rating < criteria.MinRating {
			continue
		}
		if len(criteria.Certifications) > 0 && !hasAnyCertification(&supplier, criteria.Certifications) {
			continue
		}
		if len(criteria.Requirements) > 0 && !meetsRequirements(&supplier, criteria.Requirements) {
			continue
		}
		kept = append(kept, supplier)
	}
	return kept
}

// Rank recomputes every supplier's composite score and sorts descending.
// The sort is stable, so equal scores keep their upstream order.
func Rank(suppliers []core.VerifiedSupplier, criteria Criteria) []core.VerifiedSupplier {
	for i := range suppliers {
		suppliers[i].ConfidenceScore = Score(&suppliers[i], criteria)
	}
	sort.SliceStable(suppliers, func(i, j int) bool {
		return suppliers[i].ConfidenceScore > suppliers[j].ConfidenceScore
	})
	return suppliers
}

// locationMatches reports whether a supplier location satisfies the
// requested one: case-insensitive substring containment, or a known state
// name/abbreviation pair in either direction.
func locationMatches(supplierLocation, requestedLocation string) bool {
	supplier := strings.ToLower(supplierLocation)
	requested := strings.ToLower(requestedLocation)

	if strings.Contains(supplier, requested) {
		return true
	}

	for fullName, abbrev := range stateAbbreviations {
		if strings.Contains(requested, fullName) && strings.Contains(supplier, abbrev) {
			return true
		}
		if strings.Contains(requested, abbrev) && strings.Contains(supplier, fullName) {
			return true
		}
	}
	return false
}

func hasLocation(supplier *core.VerifiedSupplier) bool {
	return supplier.Location != "" && supplier.Location != core.LocationUnspecified
}

func hasAnyCertification(supplier *core.VerifiedSupplier, wanted []string) bool {
	held := make([]string, len(supplier.Certifications))
	for i, cert := range supplier.Certifications {
		held[i] = strings.ToLower(cert)
	}
	for _, want := range wanted {
		want = strings.ToLower(want)
		for _, have := range held {
			if want == have {
				return true
			}
		}
	}
	return false
}

// meetsRequirements checks requirement phrases against the supplier's
// description, specialties, and certifications.
func meetsRequirements(supplier *core.VerifiedSupplier, requirements []string) bool {
	searchable := strings.ToLower(supplier.Description + " " +
		strings.Join(supplier.Specialties, " ") + " " +
		strings.Join(supplier.Certifications, " "))

	matched := 0
	for _, requirement := range requirements {
		if strings.Contains(searchable, strings.ToLower(requirement)) {
			matched++
		}
	}
	return float64(matched) >= float64(len(requirements))*requirementCoverage
}

// specialtyRelevance is the fraction of product terms that appear among the
// supplier's specialties.
func specialtyRelevance(specialties []string, product string) float64 {
	productTerms := strings.Fields(strings.ToLower(product))
	if len(productTerms) == 0 {
		return 0.0
	}

	specialtyTerms := make(map[string]struct{})
	for _, term := range strings.Fields(strings.ToLower(strings.Join(specialties, " "))) {
		specialtyTerms[term] = struct{}{}
	}

	matched := 0
	for _, term := range productTerms {
		if _, ok := specialtyTerms[term]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(productTerms))
}
