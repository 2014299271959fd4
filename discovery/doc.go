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

// Package discovery orchestrates the supplier discovery pipeline: search
// fan-out, candidate extraction, concurrent verification, and criteria-based
// filtering and ranking.
//
// A Service admits requests through a sliding-window limiter keyed by caller,
// then runs the stages in order. Degradation is graceful end to end: a total
// search failure produces an empty result set rather than an error, and
// verification failures surface as low-confidence fallback records upstream.
package discovery
