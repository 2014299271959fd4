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


// Package enrich verifies and enriches supplier candidates through language
// model providers.
//
// A Completer wraps one provider's text completion; a Chain tries completers
// in order and returns the first success. The Verifier drives the whole
// step: candidates are processed in fixed-size batches on a worker pool,
// every batch member resolves before the next batch starts, and per-batch
// pacing keeps the providers under their quotas. Provider responses are
// free-form text scanned for an embedded JSON object; parse failures degrade
// to field defaults, and total provider failure yields a deterministic
// low-confidence fallback record. A candidate never disappears from the
// result set because enrichment failed.
//
// Verified records are cached by content fingerprint so re-discovery of the
// same candidate within the TTL skips the provider round trip.
package enrich
