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


package websearch

import (
	"context"

	"github.com/poiesic/procurit/core"
)

// Provider executes a single web search query.
//
// Implementations assign each hit an initial relevance in [0, 1]; the
// Service reweights it during aggregation. Search returns at most
// maxResults hits.
type Provider interface {
	Search(ctx context.Context, query string, maxResults int) ([]core.SearchHit, error)

	// Name identifies the provider in logs and result metadata.
	Name() string
}
