package providers

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

const MockClientName = "mock"

// MockClient is an LLMClient for testing.
type MockClient struct {
	// Configurable behavior
	Latency      time.Duration
	ShouldFail   bool
	ResponseText string

	// Responder, when set, overrides ResponseText and receives the prompt.
	Responder func(prompt string) string

	// State
	requestCount atomic.Int64
	lastPrompt   atomic.Value
}

// NewMockClient creates a new mock client with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{
		ResponseText: "[]",
	}
}

// Name returns the client identifier.
func (c *MockClient) Name() string {
	return MockClientName
}

// RequestCount returns the number of Generate calls made.
func (c *MockClient) RequestCount() int64 {
	return c.requestCount.Load()
}

// LastPrompt returns the prompt of the most recent Generate call.
func (c *MockClient) LastPrompt() string {
	if v := c.lastPrompt.Load(); v != nil {
		return v.(string)
	}
	return ""
}

// Generate returns the configured response.
func (c *MockClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	start := time.Now()
	count := c.requestCount.Add(1)
	c.lastPrompt.Store(req.Prompt)

	if c.Latency > 0 {
		select {
		case <-time.After(c.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if c.ShouldFail {
		return nil, fmt.Errorf("mock client configured to fail")
	}

	content := c.ResponseText
	if c.Responder != nil {
		content = c.Responder(req.Prompt)
	}

	return &GenerateResult{
		Content:   content,
		Provider:  MockClientName,
		ModelUsed: req.Model,
		RequestID: fmt.Sprintf("mock-%d", count),
		TotalTime: time.Since(start),
	}, nil
}
