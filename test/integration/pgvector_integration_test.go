package integration

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/model"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/repository/implementation"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/repository/specification"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/database"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/vectorstore"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func connectPostgres(t *testing.T) *gorm.DB {
	t.Helper()

	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}
	return db
}

// TestPgVectorStore drives the pgvector backend through the shared store
// contract: a throwaway table, a handful of hand-made vectors, similarity
// search with metadata round-trip, and the per-source replace used by
// re-ingestion.
func TestPgVectorStore(t *testing.T) {
	db := connectPostgres(t)
	ctx := context.Background()

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		t.Fatalf("pgvector extension unavailable: %v", err)
	}

	table := "rag_chunks_itest_" + uuid.New().String()[:8]
	createSQL := fmt.Sprintf(`CREATE TABLE %s (
		id uuid PRIMARY KEY,
		content text NOT NULL,
		embedding vector(4),
		metadata jsonb,
		source text,
		chunk_index int DEFAULT 0,
		created_at timestamptz DEFAULT now()
	)`, table)
	if err := db.Exec(createSQL).Error; err != nil {
		t.Fatalf("Failed to create test table: %v", err)
	}
	defer db.Exec("DROP TABLE IF EXISTS " + table)

	repo := implementation.NewChunkRepository(db, table)
	store := implementation.NewPgVectorStore(repo, 4)

	vectors := [][]float32{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0.8, 0.6, 0, 0},
	}
	texts := []string{
		"NIB diterbitkan melalui sistem OSS.",
		"PBG menggantikan IMB untuk bangunan baru.",
		"NIB dan PBG diurus di kantor DPMPTSP.",
	}
	metas := []vectorstore.Metadata{
		{Source: "nib.txt", Filename: "nib.txt", ChunkIndex: 0, FileType: ".txt"},
		{Source: "pbg.txt", Filename: "pbg.txt", ChunkIndex: 0, FileType: ".txt"},
		{Source: "campuran.txt", Filename: "campuran.txt", ChunkIndex: 0, FileType: ".txt"},
	}

	err := store.Add(ctx, vectors, texts, metas)
	assert.NoError(t, err)

	count, err := store.Count(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)

	t.Run("Search orders by cosine similarity", func(t *testing.T) {
		hits, err := store.Search(ctx, []float32{1, 0, 0, 0}, 2)
		assert.NoError(t, err)
		if !assert.Len(t, hits, 2) {
			return
		}

		assert.Equal(t, texts[0], hits[0].Text)
		assert.InDelta(t, 1.0, hits[0].Similarity, 0.01)
		assert.Equal(t, "nib.txt", hits[0].Meta.Filename, "metadata must survive the jsonb round-trip")
		assert.Equal(t, ".txt", hits[0].Meta.FileType)

		assert.Equal(t, "campuran.txt", hits[1].Meta.Source)
		assert.InDelta(t, 0.8, hits[1].Similarity, 0.01)
	})

	t.Run("Rejects mismatched dimensions", func(t *testing.T) {
		err := store.Add(ctx,
			[][]float32{{1, 0, 0}},
			[]string{"vektor pendek"},
			[]vectorstore.Metadata{{Source: "pendek.txt"}},
		)
		assert.ErrorIs(t, err, vectorstore.ErrDimensionMismatch)
	})

	t.Run("ReplaceSource drops old chunks", func(t *testing.T) {
		err := repo.ReplaceSource(ctx, "nib.txt", nil)
		assert.NoError(t, err)

		count, err := store.Count(ctx)
		assert.NoError(t, err)
		assert.Equal(t, int64(2), count)

		hits, err := store.Search(ctx, []float32{1, 0, 0, 0}, 1)
		assert.NoError(t, err)
		if assert.Len(t, hits, 1) {
			assert.Equal(t, "campuran.txt", hits[0].Meta.Source)
		}
	})
}

// TestTrainingStorePostgres exercises the training repository against a live
// database: create, lookup by specification, the two FindAnswer strategies,
// and soft delete. Rows carry a unique marker so the test never collides with
// real data and cleans up fully.
func TestTrainingStorePostgres(t *testing.T) {
	db := connectPostgres(t)
	ctx := context.Background()

	if err := db.AutoMigrate(&model.TrainingPair{}); err != nil {
		t.Fatalf("Failed to migrate training_pairs: %v", err)
	}

	repo := implementation.NewTrainingRepository(db)

	marker := strings.ReplaceAll(uuid.New().String(), "-", "")[:10]
	question := fmt.Sprintf("Apakah kode unik %s masih berlaku?", marker)
	pair := &model.TrainingPair{
		Id:           uuid.New(),
		Question:     question,
		Answer:       "Masih berlaku sampai akhir tahun berjalan.",
		Category:     "integrasi_itest",
		QualityScore: 0.9,
		Source:       "manual",
	}

	err := repo.Create(ctx, pair)
	assert.NoError(t, err)
	defer db.Unscoped().Delete(&model.TrainingPair{}, pair.Id)

	t.Run("FindOne by id", func(t *testing.T) {
		found, err := repo.FindOne(ctx, specification.ByID{ID: pair.Id})
		assert.NoError(t, err)
		if assert.NotNil(t, found) {
			assert.Equal(t, question, found.Question)
		}
	})

	t.Run("FindAnswer matches exactly, case-insensitive", func(t *testing.T) {
		found, err := repo.FindAnswer(ctx, strings.ToUpper(question))
		assert.NoError(t, err)
		if assert.NotNil(t, found) {
			assert.Equal(t, pair.Answer, found.Answer)
		}
	})

	t.Run("FindAnswer falls back to keywords", func(t *testing.T) {
		// Only the marker exceeds the keyword length cutoff, so the lookup
		// cannot match anything but our row.
		found, err := repo.FindAnswer(ctx, "apa "+marker)
		assert.NoError(t, err)
		if assert.NotNil(t, found) {
			assert.Equal(t, pair.Id, found.Id)
		}
	})

	t.Run("FindAnswer misses cleanly", func(t *testing.T) {
		found, err := repo.FindAnswer(ctx, "zzqqwwxxyyzz")
		assert.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("Count honors category filter", func(t *testing.T) {
		n, err := repo.Count(ctx, specification.ByCategory{Category: "integrasi_itest"})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("Delete is soft", func(t *testing.T) {
		err := repo.Delete(ctx, pair.Id)
		assert.NoError(t, err)

		found, err := repo.FindOne(ctx, specification.ByID{ID: pair.Id})
		assert.NoError(t, err)
		assert.Nil(t, found)

		// The row itself stays behind with deleted_at set.
		var deleted model.TrainingPair
		err = db.Unscoped().First(&deleted, pair.Id).Error
		assert.NoError(t, err)
		assert.True(t, deleted.DeletedAt.Valid)
	})
}
