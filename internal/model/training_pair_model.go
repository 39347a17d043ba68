package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrainingPair is a curated question/answer row. Exact or keyword matches
// against Question are served before the RAG pipeline runs.
type TrainingPair struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Question     string         `gorm:"type:text;not null"`
	Answer       string         `gorm:"type:text;not null"`
	Category     string         `gorm:"type:varchar(64);index"`
	QualityScore float64        `gorm:"default:0"`
	UserFeedback string         `gorm:"type:text"`
	Source       string         `gorm:"type:varchar(64);default:'training'"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (TrainingPair) TableName() string {
	return "training_pairs"
}
