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


// Package cache provides byte-oriented key/value stores with per-entry TTL.
//
// Two implementations are provided: Memory, a mutex-guarded in-process map,
// and Badger, backed by an in-memory BadgerDB instance with native entry
// expiry. Both enforce lazy expiry: a Get on an entry whose TTL has elapsed
// behaves exactly like a miss, independent of the periodic sweep.
//
// Stores are constructed once at startup and injected into every component
// that memoizes expensive calls. A Sweeper runs expiry eviction on a fixed
// interval in the background.
//
// # Usage
//
//	store := cache.NewMemory()
//	defer store.Close()
//
//	sweeper := cache.NewSweeper(store)
//	go sweeper.Run(ctx)
//
//	hits := cache.NewTyped[[]core.SearchHit](store)
//	hits.Set("suppliers:steel:texas", results, 30*time.Minute)
package cache
