package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// RagChunk is one embedded document chunk on the Postgres backend. The actual
// table is namespaced per dataset (rag_chunks_<dataset>), so repositories
// always address it through Table(); TableName only covers the default
// dataset.
type RagChunk struct {
	Id         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Content    string          `gorm:"type:text;not null"`
	Embedding  pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text dimension; migrate manually when switching models
	Metadata   datatypes.JSON  `gorm:"type:jsonb"`
	Source     string          `gorm:"type:text;index"`
	ChunkIndex int             `gorm:"default:0"`
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
}

func (RagChunk) TableName() string {
	return "rag_chunks_default"
}
