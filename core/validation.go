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


package core

import "fmt"

// MinCandidateNameLen is the minimum accepted length for an extracted
// company name. Shorter names are filtered, not errored.
const MinCandidateNameLen = 3

// ValidateSearchHit validates a SearchHit according to domain rules.
//
// Validation rules:
//   - Title and URL must not be empty
//   - Relevance must be within [0,1]
//
// NOT validated:
//   - Snippet (providers legitimately return empty snippets)
//   - Source (derived from URL, may be "unknown")
func ValidateSearchHit(hit *SearchHit) error {
	if hit == nil {
		return fmt.Errorf("%w: hit is nil", ErrInvalidHit)
	}

	if hit.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidHit, ErrEmptyTitle)
	}

	if hit.URL == "" {
		return fmt.Errorf("%w: %w", ErrInvalidHit, ErrEmptyURL)
	}

	if hit.Relevance < 0 || hit.Relevance > 1 {
		return fmt.Errorf("%w: %w", ErrInvalidHit, ErrInvalidRelevance)
	}

	return nil
}

// ValidateCandidate validates a Candidate according to domain rules.
//
// Validation rules:
//   - Name must be at least MinCandidateNameLen characters
//
// NOT validated (best-effort extraction output):
//   - Location (may be the LocationUnspecified sentinel)
//   - Website/Domain (carried through from the hit verbatim)
func ValidateCandidate(candidate *Candidate) error {
	if candidate == nil {
		return fmt.Errorf("%w: candidate is nil", ErrInvalidCandidate)
	}

	if len(candidate.Name) < MinCandidateNameLen {
		return fmt.Errorf("%w: %w", ErrInvalidCandidate, ErrNameTooShort)
	}

	return nil
}

// ValidateStatus validates that a VerificationStatus has a known value.
func ValidateStatus(status VerificationStatus) error {
	switch status {
	case StatusVerified, StatusUnverified, StatusPending, StatusFailed:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
}

// ParseStatus maps a provider-reported status string to a known
// VerificationStatus, defaulting to unverified for anything unrecognized.
func ParseStatus(raw string) VerificationStatus {
	status := VerificationStatus(raw)
	if ValidateStatus(status) != nil {
		return StatusUnverified
	}
	return status
}
