package embedding

import (
	"context"
	"fmt"
)

// EmbeddingProvider defines the interface for generating text embeddings.
// Embed returns exactly one vector per input text, in input order.
type EmbeddingProvider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbedOne embeds a single text through a batch provider.
func EmbedOne(ctx context.Context, provider EmbeddingProvider, text string) ([]float32, error) {
	vectors, err := provider.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("expected 1 embedding, got %d", len(vectors))
	}
	return vectors[0], nil
}

func countMismatch(provider string, want, got int) error {
	return fmt.Errorf("%s returned %d embeddings for %d inputs", provider, got, want)
}
