package specification

import "gorm.io/gorm"

// ByCategory filters training pairs by their assigned category.
type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category = ?", s.Category)
}

// QuestionContains matches training pairs whose question contains the given
// fragment, case-insensitively.
type QuestionContains struct {
	Fragment string
}

func (s QuestionContains) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Fragment + "%"
	return db.Where("LOWER(question) LIKE LOWER(?)", pattern)
}

// MinQuality keeps only pairs at or above a quality score.
type MinQuality struct {
	Score float64
}

func (s MinQuality) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("quality_score >= ?", s.Score)
}
