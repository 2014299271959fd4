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

// Package market synthesizes market intelligence for a product: search
// signals are gathered through the websearch fan-out, summarized into a
// prompt, and distilled by a language model into a structured Insight.
//
// Like supplier verification, the synthesis degrades instead of failing: if
// no signals are found or every completer is down, a deterministic
// limited-data insight is returned.
package market
