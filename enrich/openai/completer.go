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


// Package openai implements enrich.Completer over OpenAI-compatible chat
// APIs. Any endpoint speaking the chat-completions protocol works, which
// covers hosted OpenAI, Groq, and local inference servers.
package openai

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/poiesic/procurit/enrich"
)

var (
	// ErrModelRequired is returned when no model name is configured.
	ErrModelRequired = errors.New("model is required")

	// ErrNoChoices is returned when the provider responds without content.
	ErrNoChoices = errors.New("no choices returned from model")
)

const (
	completionTemperature = 0.3
	completionMaxTokens   = 2000
)

// Config holds the connection settings for an OpenAI-compatible endpoint.
type Config struct {
	// BaseURL points at the chat endpoint. Empty means the hosted default.
	BaseURL string

	// Token authenticates the client. Local endpoints that skip auth can
	// leave it empty; a placeholder is sent instead.
	Token string

	// Model is the chat model name. Required.
	Model string
}

// Completer implements enrich.Completer over the chat-completions protocol.
type Completer struct {
	client llms.Model
	model  string
	logger *slog.Logger
}

// Option configures a Completer.
type Option func(*Completer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Completer) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// New creates a completer for the configured endpoint.
func New(config Config, opts ...Option) (*Completer, error) {
	if config.Model == "" {
		return nil, ErrModelRequired
	}

	clientOpts := []openai.Option{openai.WithModel(config.Model)}
	if config.BaseURL != "" {
		clientOpts = append(clientOpts, openai.WithBaseURL(config.BaseURL))
	}

	// Use "none" for local OpenAI-compatible services without authentication
	token := config.Token
	if token == "" {
		token = "none"
	}
	clientOpts = append(clientOpts, openai.WithToken(token))

	client, err := openai.New(clientOpts...)
	if err != nil {
		return nil, err
	}

	c := &Completer{
		client: client,
		model:  config.Model,
		logger: slog.Default().With("component", "openai-completer"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Complete sends the analyst system prompt plus the user prompt and returns
// the raw completion text.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(enrich.AnalystSystemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
			},
		},
	}

	response, err := c.client.GenerateContent(ctx, content,
		llms.WithTemperature(completionTemperature),
		llms.WithMaxTokens(completionMaxTokens),
		llms.WithJSONMode())
	if err != nil {
		c.logger.Error("completion failed", "model", c.model, "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		return "", ErrNoChoices
	}
	return response.Choices[0].Content, nil
}

// Name identifies the provider.
func (c *Completer) Name() string {
	return "openai/" + c.model
}
