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


package enrich

import "errors"

var (
	// ErrCompleterRequired is returned when no completer is supplied.
	ErrCompleterRequired = errors.New("completer is required")

	// ErrNoCompleters is returned when a chain is built without members.
	ErrNoCompleters = errors.New("at least one completer is required")

	// ErrAllCompletersFailed is returned when every chain member failed.
	ErrAllCompletersFailed = errors.New("all completers failed")

	// ErrInvalidMaxAttempts is returned for a non-positive retry budget.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrNoPayload is returned when a response carries no JSON object.
	ErrNoPayload = errors.New("response contains no JSON object")
)

// TransientError marks a provider failure worth retrying, such as a rate
// limit response or a server-side error.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return "transient provider error: " + e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is (or wraps) a TransientError.
func IsTransient(err error) bool {
	var transient *TransientError
	return errors.As(err, &transient)
}
