package repository

import (
	"context"
	"errors"
	"fmt"

	"house-price-gateway/internal/model"

	"gorm.io/gorm"
)

// ErrNotFound запись не найдена
var ErrNotFound = errors.New("prediction not found")

// PredictionRepository интерфейс для работы с историей оценок
type PredictionRepository interface {
	Create(ctx context.Context, prediction *model.Prediction) error
	GetByID(ctx context.Context, id string) (*model.Prediction, error)
	List(ctx context.Context, page, pageSize int) ([]*model.Prediction, int64, error)
}

// predictionRepository реализация PredictionRepository
type predictionRepository struct {
	db *gorm.DB
}

// NewPredictionRepository создает новый instance PredictionRepository
func NewPredictionRepository(db *gorm.DB) PredictionRepository {
	return &predictionRepository{
		db: db,
	}
}

// Create сохраняет оценку в базе данных
func (r *predictionRepository) Create(ctx context.Context, prediction *model.Prediction) error {
	if err := r.db.WithContext(ctx).Create(prediction).Error; err != nil {
		return fmt.Errorf("failed to create prediction: %w", err)
	}
	return nil
}

// GetByID получает оценку по ID
func (r *predictionRepository) GetByID(ctx context.Context, id string) (*model.Prediction, error) {
	var prediction model.Prediction
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&prediction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("prediction with id %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}
	return &prediction, nil
}

// List получает список оценок с пагинацией, новые первыми
func (r *predictionRepository) List(ctx context.Context, page, pageSize int) ([]*model.Prediction, int64, error) {
	var predictions []*model.Prediction
	var total int64

	db := r.db.WithContext(ctx)

	// Подсчитываем общее количество
	if err := db.Model(&model.Prediction{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count predictions: %w", err)
	}

	offset := (page - 1) * pageSize
	err := db.Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&predictions).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list predictions: %w", err)
	}

	return predictions, total, nil
}
