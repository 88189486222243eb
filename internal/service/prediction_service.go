package service

import (
	"context"
	"errors"
	"time"

	"house-price-gateway/internal/client"
	"house-price-gateway/internal/feature"
	"house-price-gateway/internal/location"
	"house-price-gateway/internal/scoreboard"
	"house-price-gateway/pkg/models"

	"github.com/sirupsen/logrus"
)

// Gateway движок оценки стоимости
type Gateway interface {
	Predict(ctx context.Context, vec feature.Vector) (*client.PredictionResult, error)
	CheckHealth(ctx context.Context) (*models.HealthResponse, error)
}

// ScoreboardFetcher получает табло моделей; nil означает отсутствие
type ScoreboardFetcher interface {
	Fetch(ctx context.Context) *scoreboard.Scoreboard
}

// Recorder учитывает исходы запросов (метрики)
type Recorder interface {
	ObserveValidationFailure(field string)
	ObservePrediction(result string)
}

// PredictionService сервис оценки стоимости жилья
type PredictionService struct {
	hierarchy *location.Hierarchy
	gateway   Gateway
	boards    ScoreboardFetcher
	history   *HistoryService
	options   feature.Options
	recorder  Recorder
	logger    *logrus.Logger
}

// NewPredictionService создает новый сервис оценки.
// history и recorder могут быть nil.
func NewPredictionService(
	hierarchy *location.Hierarchy,
	gateway Gateway,
	boards ScoreboardFetcher,
	history *HistoryService,
	options feature.Options,
	recorder Recorder,
	logger *logrus.Logger,
) *PredictionService {
	return &PredictionService{
		hierarchy: hierarchy,
		gateway:   gateway,
		boards:    boards,
		history:   history,
		options:   options,
		recorder:  recorder,
		logger:    logger,
	}
}

// Hierarchy справочник локаций сервиса
func (s *PredictionService) Hierarchy() *location.Hierarchy {
	return s.hierarchy
}

// Predict проверяет форму и запрашивает оценку у движка.
// Возвращает *feature.ValidationError для невалидной формы и *client.GatewayError при отказе движка.
func (s *PredictionService) Predict(ctx context.Context, req models.PredictRequest) (*models.PredictResponse, error) {
	startTime := time.Now()

	sel := location.FromPath(s.hierarchy, string(req.Sehir), string(req.Ilce), string(req.Mahalle))
	vec, err := feature.Build(rawFields(req), sel, s.options)
	if err != nil {
		var vErr *feature.ValidationError
		if errors.As(err, &vErr) {
			s.logger.WithFields(logrus.Fields{
				"field":  vErr.Field,
				"reason": vErr.Reason,
			}).Info("Форма отклонена")
			s.observeValidation(vErr.Field)
		}
		return nil, err
	}

	result, err := s.gateway.Predict(ctx, vec)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.observePrediction("canceled")
		} else {
			s.observePrediction("unavailable")
		}
		return nil, err
	}

	s.observePrediction("success")
	s.logger.WithFields(logrus.Fields{
		"city":     vec.City,
		"district": vec.District,
		"price":    result.EstimatedPrice,
		"duration": time.Since(startTime).String(),
	}).Info("Оценка стоимости получена")

	if s.history != nil {
		s.history.Save(ctx, vec, result)
	}

	return &models.PredictResponse{
		EstimatedPrice: result.EstimatedPrice,
		Currency:       result.Currency,
		ModelVersion:   result.ModelVersion,
	}, nil
}

// ModelInfo возвращает табло моделей; false, если табло недоступно
func (s *PredictionService) ModelInfo(ctx context.Context) (*models.ModelInfoResponse, bool) {
	board := s.boards.Fetch(ctx)
	if board == nil {
		return nil, false
	}

	resp := board.ToResponse()
	return &resp, true
}

// CheckHealth проверяет состояние движка
func (s *PredictionService) CheckHealth(ctx context.Context) *models.HealthResponse {
	s.logger.Debug("Проверяем состояние движка оценки")

	health, err := s.gateway.CheckHealth(ctx)
	if err != nil {
		s.logger.Errorf("Движок оценки недоступен: %v", err)
		return &models.HealthResponse{
			Status:  "unhealthy",
			Message: "prediction engine unavailable",
		}
	}
	return health
}

func (s *PredictionService) observeValidation(field string) {
	if s.recorder != nil {
		s.recorder.ObserveValidationFailure(field)
		s.recorder.ObservePrediction("invalid")
	}
}

func (s *PredictionService) observePrediction(result string) {
	if s.recorder != nil {
		s.recorder.ObservePrediction(result)
	}
}

// rawFields переводит поля формы во входные данные валидации
func rawFields(req models.PredictRequest) feature.RawFields {
	return feature.RawFields{
		NetArea:         string(req.NetAlan),
		RoomCount:       string(req.OdaSayisi),
		LivingRoomCount: string(req.SalonSayisi),
		BuildingAge:     string(req.BinaYasi),
		BalconyCount:    string(req.BalkonSayisi),
		InComplex:       string(req.SiteIcerisinde),
		FloorType:       string(req.KatTipi),
	}
}
