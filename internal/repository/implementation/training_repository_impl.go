package implementation

import (
	"context"
	"errors"
	"strings"

	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/model"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/repository/contract"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TrainingRepositoryImpl struct {
	db *gorm.DB
}

func NewTrainingRepository(db *gorm.DB) contract.TrainingRepository {
	return &TrainingRepositoryImpl{db: db}
}

func (r *TrainingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TrainingRepositoryImpl) Create(ctx context.Context, pair *model.TrainingPair) error {
	return r.db.WithContext(ctx).Create(pair).Error
}

func (r *TrainingRepositoryImpl) Update(ctx context.Context, pair *model.TrainingPair) error {
	return r.db.WithContext(ctx).Save(pair).Error
}

func (r *TrainingRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.TrainingPair{}, id).Error
}

func (r *TrainingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*model.TrainingPair, error) {
	var m model.TrainingPair
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *TrainingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*model.TrainingPair, error) {
	var pairs []*model.TrainingPair
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&pairs).Error; err != nil {
		return nil, err
	}
	return pairs, nil
}

func (r *TrainingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.TrainingPair{}).Count(&count).Error
	return count, err
}

func (r *TrainingRepositoryImpl) FindAnswer(ctx context.Context, question string) (*model.TrainingPair, error) {
	var m model.TrainingPair

	// Exact match first, case-insensitive, best quality wins.
	err := r.db.WithContext(ctx).
		Where("LOWER(question) = LOWER(?)", question).
		Order("quality_score DESC").
		First(&m).Error
	if err == nil {
		return &m, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Keyword fallback: any word longer than three characters appearing in a
	// stored question counts as a match.
	for _, word := range strings.Fields(strings.ToLower(question)) {
		if len(word) <= 3 {
			continue
		}
		err := r.db.WithContext(ctx).
			Where("LOWER(question) LIKE ?", "%"+word+"%").
			Order("quality_score DESC").
			First(&m).Error
		if err == nil {
			return &m, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return nil, nil
}
