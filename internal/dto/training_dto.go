package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTrainingPairRequest struct {
	Question     string  `json:"question" validate:"required"`
	Answer       string  `json:"answer" validate:"required"`
	Category     string  `json:"category,omitempty"` // auto-categorized when empty
	QualityScore float64 `json:"quality_score" validate:"gte=0,lte=1"`
}

type UpdateTrainingPairRequest struct {
	Id           uuid.UUID `json:"-"`
	Question     string    `json:"question" validate:"required"`
	Answer       string    `json:"answer" validate:"required"`
	Category     string    `json:"category,omitempty"`
	QualityScore float64   `json:"quality_score" validate:"gte=0,lte=1"`
	UserFeedback string    `json:"user_feedback,omitempty"`
}

type TrainingPairResponse struct {
	Id           uuid.UUID `json:"id"`
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	Category     string    `json:"category"`
	QualityScore float64   `json:"quality_score"`
	UserFeedback string    `json:"user_feedback,omitempty"`
	Source       string    `json:"source"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ListTrainingPairsResponse struct {
	Total int64                   `json:"total"`
	Pairs []*TrainingPairResponse `json:"pairs"`
}
