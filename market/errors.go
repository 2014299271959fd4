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

package market

import "errors"

var (
	// ErrSearchRequired is returned when no search service was provided.
	ErrSearchRequired = errors.New("search service is required")

	// ErrCompleterRequired is returned when no completer was provided.
	ErrCompleterRequired = errors.New("completer is required")

	// ErrEmptyProduct is returned when the product name is blank.
	ErrEmptyProduct = errors.New("product must not be empty")
)
