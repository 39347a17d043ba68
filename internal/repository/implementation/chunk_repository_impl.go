package implementation

import (
	"context"

	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/model"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ChunkRepositoryImpl struct {
	db    *gorm.DB
	table string
}

// NewChunkRepository returns a ChunkRepository bound to the dataset's table
// (rag_chunks_<dataset>).
func NewChunkRepository(db *gorm.DB, table string) contract.ChunkRepository {
	return &ChunkRepositoryImpl{
		db:    db,
		table: table,
	}
}

func (r *ChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*model.RagChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Table(r.table).Create(chunks).Error
}

func (r *ChunkRepositoryImpl) ReplaceSource(ctx context.Context, source string, chunks []*model.RagChunk) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(r.table).Where("source = ?", source).Delete(&model.RagChunk{}).Error; err != nil {
			return err
		}
		if len(chunks) == 0 {
			return nil
		}
		return tx.Table(r.table).Create(chunks).Error
	})
}

func (r *ChunkRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*contract.ScoredChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance in pgvector is 1 - cosine_similarity, so
	// 1 - (embedding <=> query) recovers the similarity score.
	type result struct {
		model.RagChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table(r.table).
		Select("*, 1 - (embedding <=> ?) as similarity", queryVector).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredChunk, len(results))
	for i, res := range results {
		chunk := res.RagChunk
		scored[i] = &contract.ScoredChunk{
			Chunk:      &chunk,
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}

func (r *ChunkRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table(r.table).Count(&count).Error
	return count, err
}
