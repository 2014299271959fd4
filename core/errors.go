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

import "errors"

// Domain validation errors
var (
	// ErrInvalidHit indicates a SearchHit failed validation.
	ErrInvalidHit = errors.New("invalid search hit")

	// ErrInvalidCandidate indicates a Candidate failed validation.
	ErrInvalidCandidate = errors.New("invalid candidate")

	// ErrNameTooShort indicates an extracted name is below the minimum length.
	ErrNameTooShort = errors.New("candidate name shorter than 3 characters")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrEmptyURL indicates the URL field is empty.
	ErrEmptyURL = errors.New("url cannot be empty")

	// ErrInvalidStatus indicates an unknown VerificationStatus value.
	ErrInvalidStatus = errors.New("invalid verification status")

	// ErrInvalidRelevance indicates a relevance score outside [0,1].
	ErrInvalidRelevance = errors.New("relevance score must be within [0,1]")
)
