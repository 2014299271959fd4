// Package mock provides a test double for enrich.Completer.
//
// The mock allows tests to run without provider credentials and enables
// controlled, deterministic completions via function-field injection.
package mock

import (
	"context"
	"sync"
)

// defaultResponse is a well-formed verification payload so default-behavior
// tests exercise the full parse path.
const defaultResponse = `{
  "name": "Mock Verified Supplier",
  "location": "Austin, TX",
  "confidence_score": 0.8,
  "certifications": ["ISO 9001"],
  "specialties": ["industrial supply"],
  "company_size": "Medium",
  "verification_status": "verified",
  "contact_info": {"email": "sales@example.com"},
  "description": "Deterministic mock assessment.",
  "rating": 4.2
}`

// Completer is a test double for enrich.Completer.
// It allows custom behavior injection via function fields.
type Completer struct {
	// CompleteFunc is called by Complete if set.
	// If nil, a fixed well-formed verification payload is returned.
	CompleteFunc func(ctx context.Context, prompt string) (string, error)

	// NameValue overrides the reported provider name.
	NameValue string

	mu        sync.Mutex
	callCount int
	prompts   []string
}

// NewCompleter creates a mock completer with default deterministic behavior.
func NewCompleter() *Completer {
	return &Completer{}
}

// WithCompleteFunc sets custom completion behavior and returns the completer
// for chaining.
func (c *Completer) WithCompleteFunc(fn func(ctx context.Context, prompt string) (string, error)) *Completer {
	c.CompleteFunc = fn
	return c
}

// Complete records the call and delegates to CompleteFunc when set.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	c.mu.Lock()
	c.callCount++
	c.prompts = append(c.prompts, prompt)
	c.mu.Unlock()

	if c.CompleteFunc != nil {
		return c.CompleteFunc(ctx, prompt)
	}
	return defaultResponse, nil
}

// Name identifies the mock in logs.
func (c *Completer) Name() string {
	if c.NameValue != "" {
		return c.NameValue
	}
	return "mock"
}

// CallCount returns how many times Complete was called.
func (c *Completer) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.callCount
}

// Prompts returns the prompts Complete was called with, in order.
func (c *Completer) Prompts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.prompts))
	copy(out, c.prompts)
	return out
}
