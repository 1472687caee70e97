package ai

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"
)

// ProviderGemini selects the Google Gemini backend.
const ProviderGemini = "gemini"

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-3-flash-preview"

type geminiCompleter struct {
	client *genai.Client
	model  string
}

func newGeminiCompleter(apiKey, model string) (*geminiCompleter, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY not set")
		}
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &geminiCompleter{client: client, model: model}, nil
}

func (c *geminiCompleter) name() string { return ProviderGemini }

func (c *geminiCompleter) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		MaxOutputTokens:  int32(maxTokens),
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}
