package embedding

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiEmbedder embeds text with a Google Gemini embedding model.
type GeminiEmbedder struct {
	client *genai.Client
	model  string
}

// NewGeminiEmbedder opens a Gemini client. Close releases it.
func NewGeminiEmbedder(ctx context.Context, apiKey, model string) (*GeminiEmbedder, error) {
	if model == "" {
		model = "text-embedding-004"
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiEmbedder{client: client, model: model}, nil
}

func (g *GeminiEmbedder) Model() string { return g.model }

func (g *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := g.client.EmbeddingModel(g.model).EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if resp == nil || resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, ErrEmptyEmbedding
	}
	return resp.Embedding.Values, nil
}

func (g *GeminiEmbedder) Close() error {
	return g.client.Close()
}
