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

package discovery

import "errors"

var (
	// ErrSearchRequired is returned when no search service was provided.
	ErrSearchRequired = errors.New("search service is required")

	// ErrVerifierRequired is returned when no verifier was provided.
	ErrVerifierRequired = errors.New("verifier is required")

	// ErrInvalidQuery is returned when the query is missing or outside the
	// accepted length bounds.
	ErrInvalidQuery = errors.New("query must be between 3 and 200 characters")

	// ErrInvalidMaxResults is returned when the requested result count is
	// outside the accepted bounds.
	ErrInvalidMaxResults = errors.New("max results must be between 1 and 50")

	// ErrInvalidMinRating is returned when the minimum rating is outside
	// the 1-5 scale.
	ErrInvalidMinRating = errors.New("minimum rating must be between 1 and 5")
)
