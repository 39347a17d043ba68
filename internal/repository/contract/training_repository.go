package contract

import (
	"context"

	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/model"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/repository/specification"

	"github.com/google/uuid"
)

// TrainingRepository manages curated question/answer pairs.
type TrainingRepository interface {
	Create(ctx context.Context, pair *model.TrainingPair) error
	Update(ctx context.Context, pair *model.TrainingPair) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*model.TrainingPair, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*model.TrainingPair, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// FindAnswer resolves a user question to a stored answer: exact
	// case-insensitive match first, then a keyword fallback over words longer
	// than three characters. Best quality wins; nil means no match.
	FindAnswer(ctx context.Context, question string) (*model.TrainingPair, error)
}
