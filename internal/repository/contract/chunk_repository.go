package contract

import (
	"context"

	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/model"
)

// ScoredChunk wraps a RagChunk with its cosine similarity to the query vector.
type ScoredChunk struct {
	Chunk      *model.RagChunk
	Similarity float64 // 1.0 = identical direction
}

// ChunkRepository persists embedded chunks on the Postgres/pgvector backend.
// The concrete table is dataset-namespaced, so implementations carry the
// table name.
type ChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*model.RagChunk) error
	// ReplaceSource atomically deletes every chunk of a source and inserts the
	// replacements, so a re-ingested document never half-exists.
	ReplaceSource(ctx context.Context, source string, chunks []*model.RagChunk) error
	// SearchSimilarWithScore returns the top chunks by cosine similarity,
	// ordered descending. An empty table yields an empty slice.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*ScoredChunk, error)
	Count(ctx context.Context) (int64, error)
}
