// Package providers implements the LLM capability boundary: a single-prompt
// text completion interface behind which a hosted model, a recorded fixture,
// or a test stub can sit. Everything that interprets the returned text lives
// in the match package; providers only move prompts and text.
package providers

import (
	"context"
	"time"
)

// LLMClient is the capability interface for text completion. Implementations
// make exactly one attempt per call: the engine treats any failure as "no
// response" and the caller decides whether to re-invoke the pipeline.
type LLMClient interface {
	// Generate sends one prompt and returns the model's free-form text.
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error)

	// Name returns the client identifier (e.g. "gemini").
	Name() string
}

// GenerateRequest is a single text-completion request.
type GenerateRequest struct {
	Prompt string `json:"prompt"`

	// Model selection (uses client default if empty).
	Model string `json:"model,omitempty"`

	// Temperature of 0 means provider default.
	Temperature float64 `json:"temperature,omitempty"`

	// RequestID for log correlation; generated when empty.
	RequestID string `json:"-"`
}

// GenerateResult is the response to a Generate call.
type GenerateResult struct {
	Content   string        `json:"content"`
	Provider  string        `json:"provider"`
	ModelUsed string        `json:"model_used"`
	RequestID string        `json:"request_id"`
	TotalTime time.Duration `json:"total_time"`
}

// LLMProviderConfig configures one provider instance.
type LLMProviderConfig struct {
	Type    string // "gemini", "openai", "mock"
	Model   string
	APIKey  string
	BaseURL string // OpenAI-compatible gateways; ignored by gemini
	Enabled bool
}

// RegistryConfig is the full provider configuration consumed by Registry.
type RegistryConfig struct {
	LLMProviders map[string]LLMProviderConfig
}
