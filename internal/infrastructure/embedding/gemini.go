package embedding

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"freelance-match/internal/domain/matching"

	"google.golang.org/genai"
)

// maxGeminiInput keeps requests under the embedding model's token limit.
const maxGeminiInput = 40000

type GeminiEncoder struct {
	client *genai.Client
	model  string
}

func NewGeminiEncoder(ctx context.Context, apiKey, model string) (*GeminiEncoder, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	if model == "" {
		model = "text-embedding-004"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiEncoder{client: client, model: model}, nil
}

func GeminiFactory(apiKey, model string) Factory {
	return func(ctx context.Context) (matching.TextEncoder, error) {
		return NewGeminiEncoder(ctx, apiKey, model)
	}
}

func (g *GeminiEncoder) Model() string { return g.model }

func (g *GeminiEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	text = truncateUTF8(text, maxGeminiInput)
	result, err := g.client.Models.EmbedContent(ctx, g.model, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if result == nil || len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, errors.New("empty embedding result")
	}
	return result.Embeddings[0].Values, nil
}

// truncateUTF8 cuts s to at most max bytes without splitting a rune.
func truncateUTF8(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
