package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"house-price-gateway/internal/client"
	"house-price-gateway/internal/feature"
	"house-price-gateway/internal/model"
	"house-price-gateway/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrHistoryDisabled история оценок не настроена
var ErrHistoryDisabled = errors.New("history disabled")

// ErrPredictionNotFound оценка не найдена
var ErrPredictionNotFound = repository.ErrNotFound

// saveTimeout предел записи в историю; запись не задерживает ответ дольше
const saveTimeout = 3 * time.Second

// HistoryService сервис для работы с историей оценок.
// Нулевой репозиторий означает выключенную историю.
type HistoryService struct {
	repo   repository.PredictionRepository
	logger *logrus.Logger
	newID  func() string
}

// NewHistoryService создает новый сервис истории
func NewHistoryService(repo repository.PredictionRepository, logger *logrus.Logger) *HistoryService {
	return &HistoryService{
		repo:   repo,
		logger: logger,
		newID:  generatePredictionID,
	}
}

// Enabled сообщает, что история подключена к хранилищу
func (s *HistoryService) Enabled() bool {
	return s != nil && s.repo != nil
}

// Save сохраняет успешную оценку. Ошибка хранилища только логируется.
func (s *HistoryService) Save(ctx context.Context, vec feature.Vector, result *client.PredictionResult) {
	if !s.Enabled() {
		return
	}

	// Запись не должна зависеть от отмены исходного запроса
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()

	prediction := &model.Prediction{
		ID:              s.newID(),
		NetArea:         vec.NetArea,
		RoomCount:       vec.RoomCount,
		LivingRoomCount: vec.LivingRoomCount,
		BuildingAge:     vec.BuildingAge,
		BalconyCount:    vec.BalconyCount,
		InComplex:       vec.InComplex,
		FloorType:       vec.FloorType.WireName(),
		City:            vec.City,
		District:        vec.District,
		Neighborhood:    vec.Neighborhood,
		EstimatedPrice:  result.EstimatedPrice,
		Currency:        result.Currency,
		ModelVersion:    result.ModelVersion,
	}

	if err := s.repo.Create(ctx, prediction); err != nil {
		s.logger.Errorf("Ошибка сохранения оценки в БД: %v", err)
		return
	}
	s.logger.WithField("id", prediction.ID).Debug("Оценка сохранена в истории")
}

// GetPrediction получает оценку по ID
func (s *HistoryService) GetPrediction(ctx context.Context, id string) (*PredictionRecord, error) {
	if !s.Enabled() {
		return nil, ErrHistoryDisabled
	}

	prediction, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}
	return toRecord(prediction), nil
}

// ListPredictions получает список оценок с пагинацией
func (s *HistoryService) ListPredictions(ctx context.Context, page, pageSize int) (*ListPredictionsResponse, error) {
	if !s.Enabled() {
		return nil, ErrHistoryDisabled
	}

	predictions, total, err := s.repo.List(ctx, page, pageSize)
	if err != nil {
		s.logger.Errorf("Ошибка получения списка оценок: %v", err)
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}

	records := make([]PredictionRecord, len(predictions))
	for i, p := range predictions {
		records[i] = *toRecord(p)
	}

	return &ListPredictionsResponse{
		Predictions: records,
		Total:       total,
		Page:        page,
		Size:        pageSize,
	}, nil
}

// toRecord преобразует модель базы данных в ответ API
func toRecord(p *model.Prediction) *PredictionRecord {
	return &PredictionRecord{
		ID: p.ID,
		Features: FeatureSnapshot{
			NetArea:         p.NetArea,
			RoomCount:       p.RoomCount,
			LivingRoomCount: p.LivingRoomCount,
			BuildingAge:     p.BuildingAge,
			BalconyCount:    p.BalconyCount,
			InComplex:       p.InComplex,
			FloorType:       p.FloorType,
		},
		Location: LocationPath{
			City:         p.City,
			District:     p.District,
			Neighborhood: p.Neighborhood,
		},
		EstimatedPrice: p.EstimatedPrice,
		Currency:       p.Currency,
		ModelVersion:   p.ModelVersion,
		CreatedAt:      p.CreatedAt,
	}
}

// generatePredictionID генерирует уникальный ID для оценки
func generatePredictionID() string {
	return uuid.New().String()
}
