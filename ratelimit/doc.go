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


// Package ratelimit provides admission control for inbound requests and
// outbound calls toward quota-limited providers.
//
// Two interchangeable strategies are available per call site: SlidingWindow
// counts admitted events in a trailing interval, TokenBucket replenishes a
// fixed capacity of permits. Each distinct (caller, operation) key owns
// independent state; keys never interfere.
//
// A rejection is never an unrecoverable failure: callers receive an *Error
// carrying the limit, the window, and how long to wait before retrying.
//
// Pacers are the other half of the story: they slow a single outbound call
// series down (fan-out variants, enrichment batches) rather than admitting
// or rejecting competing callers.
package ratelimit
