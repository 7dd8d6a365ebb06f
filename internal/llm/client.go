package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"alfred/internal/instrumentation"
)

// Completer issues one prompt and returns the model's text response.
// Routing and extraction depend only on this interface so tests can swap
// in a canned model.
type Completer interface {
	Complete(ctx context.Context, operation, prompt string) (string, error)
}

// Client is a Gemini-backed Completer.
type Client struct {
	model   *googleai.GoogleAI
	metrics *instrumentation.Metrics
}

// NewClient creates a Gemini client. The API key and model name are
// required; construct the client once at startup and inject it.
func NewClient(ctx context.Context, apiKey, model string, metrics *instrumentation.Metrics) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	opts := []googleai.Option{
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	}

	client, err := googleai.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{
		model:   client,
		metrics: metrics,
	}, nil
}

// Complete sends a single prompt and returns the trimmed response text.
// operation labels the call in metrics ("route", "extract", "converse").
func (c *Client) Complete(ctx context.Context, operation, prompt string) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt)
	c.metrics.RecordModelCall(ctx, operation, instrumentation.StatusFor(err))
	if err != nil {
		return "", fmt.Errorf("failed to generate completion: %w", err)
	}
	return strings.TrimSpace(out), nil
}
