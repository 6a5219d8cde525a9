// Package llm wraps external large-language-model services behind a narrow
// text-in/text-out contract used by the online classification stage.
package llm

import (
	"context"
	"time"
)

// Client defines the interface for LLM providers.
type Client interface {
	// Complete sends a prompt to the provider and returns the raw text reply.
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config holds configuration for the online classifier.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
}
