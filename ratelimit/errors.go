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


package ratelimit

import (
	"errors"
	"fmt"
	"time"
)

// Error reports a rejected admission. It is advisory, not fatal: RetryAfter
// tells the caller when the same key is expected to be admitted again.
type Error struct {
	// Limit is the maximum number of admissions configured for the key.
	Limit int

	// Window is the interval the limit applies to.
	Window time.Duration

	// RetryAfter is how long the caller should wait before retrying.
	RetryAfter time.Duration
}

func (e *Error) Error() string {
	return fmt.Sprintf("rate limit exceeded: %d per %s, retry after %s",
		e.Limit, e.Window, e.RetryAfter.Round(time.Millisecond))
}

// IsRateLimited reports whether err is (or wraps) a ratelimit rejection.
func IsRateLimited(err error) bool {
	var rlErr *Error
	return errors.As(err, &rlErr)
}
