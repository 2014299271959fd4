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

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// AnalystSystemPrompt frames every provider call. Providers that support a
// system role send it separately; the rest prepend it to the prompt.
const AnalystSystemPrompt = "You are a procurement intelligence analyst. " +
	"Provide accurate, structured analysis in JSON format."

// Completer produces a text completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)

	// Name identifies the provider in logs and error chains.
	Name() string
}

// Chain tries completers in order and returns the first successful
// completion. A Chain is itself a Completer, so chains nest.
type Chain struct {
	completers []Completer
	logger     *slog.Logger
}

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// WithChainLogger sets a custom logger. Default is slog.Default().
func WithChainLogger(logger *slog.Logger) ChainOption {
	return func(c *Chain) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewChain creates a provider chain. Order matters: the first completer is
// the primary, the rest are fallbacks.
func NewChain(completers []Completer, opts ...ChainOption) (*Chain, error) {
	if len(completers) == 0 {
		return nil, ErrNoCompleters
	}
	for _, completer := range completers {
		if completer == nil {
			return nil, ErrCompleterRequired
		}
	}

	c := &Chain{
		completers: completers,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Complete returns the first member's successful completion. When every
// member fails, the joined per-provider errors are returned under
// ErrAllCompletersFailed.
func (c *Chain) Complete(ctx context.Context, prompt string) (string, error) {
	var failures []error
	for _, completer := range c.completers {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		response, err := completer.Complete(ctx, prompt)
		if err == nil {
			return response, nil
		}

		c.logger.Warn("completer failed, trying next",
			"completer", completer.Name(),
			"err", err)
		failures = append(failures, fmt.Errorf("%s: %w", completer.Name(), err))
	}
	return "", fmt.Errorf("%w: %w", ErrAllCompletersFailed, errors.Join(failures...))
}

// Name identifies the chain.
func (c *Chain) Name() string {
	return "chain"
}
