package implementation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/model"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/repository/contract"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/vectorstore"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// PgVectorStore adapts the pgvector chunk repository to the vectorstore.Store
// contract shared with the local flat-file backend, so the retrieval pipeline
// never knows which backend it is talking to.
type PgVectorStore struct {
	repo contract.ChunkRepository
	dim  int
}

var _ vectorstore.Store = (*PgVectorStore)(nil)

func NewPgVectorStore(repo contract.ChunkRepository, dimension int) *PgVectorStore {
	return &PgVectorStore{
		repo: repo,
		dim:  dimension,
	}
}

func (s *PgVectorStore) Add(ctx context.Context, vectors [][]float32, texts []string, metas []vectorstore.Metadata) error {
	if len(vectors) != len(texts) || len(texts) != len(metas) {
		return fmt.Errorf("mismatched batch: %d vectors, %d texts, %d metadata entries", len(vectors), len(texts), len(metas))
	}

	chunks := make([]*model.RagChunk, 0, len(vectors))
	for i, vec := range vectors {
		if len(vec) != s.dim {
			return fmt.Errorf("%w: store dimension %d, incoming vector dimension %d", vectorstore.ErrDimensionMismatch, s.dim, len(vec))
		}

		metaJSON, err := json.Marshal(metas[i])
		if err != nil {
			return fmt.Errorf("encode chunk metadata: %w", err)
		}

		chunks = append(chunks, &model.RagChunk{
			Id:         uuid.New(),
			Content:    texts[i],
			Embedding:  pgvector.NewVector(vec),
			Metadata:   metaJSON,
			Source:     metas[i].Source,
			ChunkIndex: metas[i].ChunkIndex,
		})
	}

	return s.repo.CreateBulk(ctx, chunks)
}

func (s *PgVectorStore) Search(ctx context.Context, query []float32, k int) ([]vectorstore.SearchHit, error) {
	scored, err := s.repo.SearchSimilarWithScore(ctx, query, k)
	if err != nil {
		return nil, err
	}

	hits := make([]vectorstore.SearchHit, 0, len(scored))
	for _, sc := range scored {
		var meta vectorstore.Metadata
		if err := json.Unmarshal(sc.Chunk.Metadata, &meta); err != nil || meta.Source == "" {
			// Rows written outside this service may carry bare metadata;
			// recover the source from the indexed column.
			meta = vectorstore.Metadata{
				Source:     sc.Chunk.Source,
				ChunkIndex: sc.Chunk.ChunkIndex,
			}
		}
		hits = append(hits, vectorstore.SearchHit{
			Text:       sc.Chunk.Content,
			Meta:       meta,
			Similarity: sc.Similarity,
		})
	}
	return hits, nil
}

func (s *PgVectorStore) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
