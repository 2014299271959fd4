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

// Package config loads engine configuration from a YAML file merged with
// environment variables. Provider credentials are usually supplied through
// the environment (GROQ_API_KEY, GEMINI_API_KEY) so config files can be
// committed without secrets.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "30m".
type Duration time.Duration

// UnmarshalYAML parses the node as a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDuration, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the full engine configuration.
type Config struct {
	LogLevel string `yaml:"log_level"`

	Search Search `yaml:"search"`
	Groq   Groq   `yaml:"groq"`
	Gemini Gemini `yaml:"gemini"`
	Limits Limits `yaml:"limits"`
	Cache  Cache  `yaml:"cache"`
}

// Search configures the search fan-out layer.
type Search struct {
	// Endpoint overrides the DuckDuckGo HTML endpoint. Empty means the
	// production endpoint.
	Endpoint string `yaml:"endpoint"`

	// VariantDelay spaces out consecutive variant queries.
	VariantDelay Duration `yaml:"variant_delay"`

	// ResultTTL is how long aggregated result sets stay cached.
	ResultTTL Duration `yaml:"result_ttl"`
}

// Groq configures the primary completion provider (OpenAI-compatible).
type Groq struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// Gemini configures the fallback completion provider.
type Gemini struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// Limits configures inbound admission control.
type Limits struct {
	// RequestsPerMinute is the per-caller sliding-window limit.
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

// Cache configures the TTL stores.
type Cache struct {
	// Backend is "memory" or "badger". Both are in-process; badger adds
	// native per-entry TTL handling.
	Backend string `yaml:"backend"`

	SupplierTTL Duration `yaml:"supplier_ttl"`
	InsightTTL  Duration `yaml:"insight_ttl"`
}

// Default returns the configuration used when no file or overrides are
// given.
func Default() Config {
	return Config{
		LogLevel: "info",
		Search: Search{
			VariantDelay: Duration(time.Second),
			ResultTTL:    Duration(30 * time.Minute),
		},
		Groq: Groq{
			Model:   "llama3-8b-8192",
			BaseURL: "https://api.groq.com/openai/v1",
		},
		Gemini: Gemini{
			Model: "gemini-1.5-flash",
		},
		Limits: Limits{
			RequestsPerMinute: 10,
		},
		Cache: Cache{
			Backend:     "memory",
			SupplierTTL: Duration(2 * time.Hour),
			InsightTTL:  Duration(2 * time.Hour),
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.ApplyEnv()
	return cfg, cfg.Validate()
}

// FromEnv returns the defaults with environment overrides applied. Used
// when no config file is given.
func FromEnv() Config {
	cfg := Default()
	cfg.ApplyEnv()
	return cfg
}

// ApplyEnv overrides credentials and the log level from the environment.
func (c *Config) ApplyEnv() {
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		c.Groq.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}
	if level := os.Getenv("PROCURIT_LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
}

// Validate checks the configuration for contradictions. A configuration
// without any provider credentials is still valid for search-only use; the
// engine rejects it at wiring time when verification is needed.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "", "memory", "badger":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCacheBackend, c.Cache.Backend)
	}
	if c.Limits.RequestsPerMinute < 0 {
		return ErrInvalidRequestLimit
	}
	return nil
}

// HasCredentials reports whether at least one completion provider is
// configured.
func (c *Config) HasCredentials() bool {
	return c.Groq.APIKey != "" || c.Gemini.APIKey != ""
}
