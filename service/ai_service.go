package service

import (
	"context"

	"github.com/blockvoltcr7/vector-store-be/types"
)

// AIService generates a conversational completion from a system prompt and
// a message history.
type AIService interface {
	Chat(ctx context.Context, system string, messages []types.Message) (string, error)
}

// Embedder turns text into fixed-length vectors in the index's vector space.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}
