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


// Package gemini implements enrich.Completer over the Gemini API. Rate
// limit and server-side failures are classified as transient and retried
// with backoff before the chain falls through to the next provider.
package gemini

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/poiesic/procurit/enrich"
)

var (
	// ErrAPIKeyRequired is returned when no API key is configured.
	ErrAPIKeyRequired = errors.New("api key is required")

	// ErrModelRequired is returned when no model name is configured.
	ErrModelRequired = errors.New("model is required")

	// ErrEmptyResponse is returned when the model responds without text.
	ErrEmptyResponse = errors.New("empty response from model")
)

const (
	completionTemperature = 0.3
	completionMaxTokens   = 2000

	retryAttempts  = 3
	retryBaseDelay = time.Second
)

// Config holds the connection settings for the Gemini API.
type Config struct {
	// APIKey authenticates against the Gemini API. Required.
	APIKey string

	// Model is the generation model name. Required.
	Model string

	// BaseURL overrides the API base URL. Useful for proxies and tests.
	BaseURL string
}

// Completer implements enrich.Completer over Gemini.
type Completer struct {
	client *genai.Client
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

// New creates a Gemini completer.
func New(ctx context.Context, config Config, opts ...Option) (*Completer, error) {
	if strings.TrimSpace(config.APIKey) == "" {
		return nil, ErrAPIKeyRequired
	}
	if strings.TrimSpace(config.Model) == "" {
		return nil, ErrModelRequired
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  strings.TrimSpace(config.APIKey),
		Backend: genai.BackendGeminiAPI,
	}
	if strings.TrimSpace(config.BaseURL) != "" {
		clientConfig.HTTPOptions.BaseURL = strings.TrimSpace(config.BaseURL)
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, err
	}

	c := &Completer{
		client: client,
		model:  strings.TrimSpace(config.Model),
		logger: slog.Default().With("component", "gemini-completer"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Complete generates a completion. Gemini has no separate system role here,
// so the analyst framing is prepended to the prompt. Transient failures are
// retried with exponential backoff.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	temperature := float32(completionTemperature)
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: completionMaxTokens,
		CandidateCount:  1,
	}
	framed := enrich.AnalystSystemPrompt + " " + prompt

	var text string
	err := enrich.RetryTransient(ctx, func() error {
		response, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(framed), config)
		if err != nil {
			return classifyErr(err)
		}
		text = response.Text()
		if strings.TrimSpace(text) == "" {
			return ErrEmptyResponse
		}
		return nil
	}, retryAttempts, retryBaseDelay)
	if err != nil {
		c.logger.Error("completion failed", "model", c.model, "err", err)
		return "", err
	}
	return text, nil
}

// Name identifies the provider.
func (c *Completer) Name() string {
	return "gemini/" + c.model
}

// classifyErr wraps rate limits, server errors, and network timeouts as
// transient so the retry loop handles them.
func classifyErr(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == 429 || apiErr.Code/100 == 5 {
			return &enrich.TransientError{Err: err}
		}
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &enrich.TransientError{Err: err}
	}
	return err
}
