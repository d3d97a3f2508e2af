package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"
)

const (
	GeminiName         = "gemini"
	geminiDefaultModel = "gemini-2.5-flash"
)

// GeminiConfig holds configuration for the Gemini client.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// GeminiClient implements LLMClient against the Gemini API.
type GeminiClient struct {
	apiKey string
	model  string
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	if cfg.Model == "" {
		cfg.Model = geminiDefaultModel
	}
	return &GeminiClient{
		apiKey: cfg.APIKey,
		model:  cfg.Model,
	}
}

// Name returns the client identifier.
func (c *GeminiClient) Name() string {
	return GeminiName
}

// Generate sends one prompt to Gemini and returns the raw text response.
// One attempt only; the caller treats failure as "no response".
func (c *GeminiClient) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	start := time.Now()

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}
	model := req.Model
	if model == "" {
		model = c.model
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	var config *genai.GenerateContentConfig
	if req.Temperature > 0 {
		temp := float32(req.Temperature)
		config = &genai.GenerateContentConfig{Temperature: &temp}
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("gemini returned an empty response")
	}

	return &GenerateResult{
		Content:   text,
		Provider:  GeminiName,
		ModelUsed: model,
		RequestID: requestID,
		TotalTime: time.Since(start),
	}, nil
}
