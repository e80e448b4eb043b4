package providers

import (
	"context"
)

// Config represents a single request to an LLM provider.
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
	// ImagePath, when set, attaches the image at that path to the
	// request. Providers that cannot accept images must return an error.
	ImagePath string
	// JSONMode asks the provider to constrain output to a JSON object.
	JSONMode bool
	// MaxTokens caps the completion length. Zero means provider default.
	MaxTokens int
}

// Provider defines the interface for an LLM provider.
type Provider interface {
	// Name identifies the provider in logs and error messages.
	Name() string
	// Complete sends the prompt (and optional image) and returns the
	// raw model response text.
	Complete(ctx context.Context, config Config) (string, error)
}
