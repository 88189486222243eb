// Package scoreboard собирает и ранжирует метрики качества моделей движка.
// Данные справочные: любая ошибка превращается в отсутствие табло.
package scoreboard

import (
	"context"
	"fmt"
	"sort"

	"house-price-gateway/pkg/models"

	"github.com/sirupsen/logrus"
)

// Entry метрики одной модели
type Entry struct {
	ModelName         string
	R2Score           float64
	MeanAbsoluteError float64
}

// Scoreboard табло моделей; Entries отсортированы для отображения
type Scoreboard struct {
	ActiveModelName string
	TrainingDate    *string
	BestR2Score     float64
	Entries         []Entry
}

// Source источник сведений о моделях
type Source interface {
	FetchModelInfo(ctx context.Context) (*models.ModelInfoResponse, error)
}

// Rank сортирует по убыванию R2, затем по возрастанию MAE, затем по имени
func Rank(entries []Entry) []Entry {
	ranked := make([]Entry, len(entries))
	copy(ranked, entries)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.R2Score != b.R2Score {
			return a.R2Score > b.R2Score
		}
		if a.MeanAbsoluteError != b.MeanAbsoluteError {
			return a.MeanAbsoluteError < b.MeanAbsoluteError
		}
		return a.ModelName < b.ModelName
	})
	return ranked
}

// FromModelInfo строит табло из ответа движка.
// Активная модель обязана присутствовать среди результатов, если они не пусты.
func FromModelInfo(info *models.ModelInfoResponse) (*Scoreboard, error) {
	if info == nil {
		return nil, fmt.Errorf("empty model info")
	}

	entries := make([]Entry, 0, len(info.AllResults))
	for name, score := range info.AllResults {
		if score.MAE < 0 {
			return nil, fmt.Errorf("model %q has negative mae %v", name, score.MAE)
		}
		entries = append(entries, Entry{
			ModelName:         name,
			R2Score:           score.R2Score,
			MeanAbsoluteError: score.MAE,
		})
	}

	if len(entries) > 0 {
		if _, ok := info.AllResults[info.ActiveModel]; !ok {
			return nil, fmt.Errorf("active model %q is not among results", info.ActiveModel)
		}
	}

	return &Scoreboard{
		ActiveModelName: info.ActiveModel,
		TrainingDate:    info.TrainingDate,
		BestR2Score:     info.BestScoreR2,
		Entries:         Rank(entries),
	}, nil
}

// Fetcher получает табло из движка
type Fetcher struct {
	source Source
	logger *logrus.Logger
}

// NewFetcher создает новый Fetcher
func NewFetcher(source Source, logger *logrus.Logger) *Fetcher {
	return &Fetcher{source: source, logger: logger}
}

// Fetch возвращает табло или nil, если движок недоступен или ответ непригоден
func (f *Fetcher) Fetch(ctx context.Context) *Scoreboard {
	info, err := f.source.FetchModelInfo(ctx)
	if err != nil {
		f.logger.Warnf("Табло моделей недоступно: %v", err)
		return nil
	}

	board, err := FromModelInfo(info)
	if err != nil {
		f.logger.Warnf("Некорректные сведения о моделях: %v", err)
		return nil
	}
	return board
}

// ToResponse переводит табло в ответ клиенту
func (s *Scoreboard) ToResponse() models.ModelInfoResponse {
	resp := models.ModelInfoResponse{
		ActiveModel:  s.ActiveModelName,
		TrainingDate: s.TrainingDate,
		BestScoreR2:  s.BestR2Score,
		AllResults:   make(map[string]models.ModelScore, len(s.Entries)),
		Ranking:      make([]models.RankedModel, 0, len(s.Entries)),
	}
	for _, e := range s.Entries {
		resp.AllResults[e.ModelName] = models.ModelScore{R2Score: e.R2Score, MAE: e.MeanAbsoluteError}
		resp.Ranking = append(resp.Ranking, models.RankedModel{
			ModelName: e.ModelName,
			R2Score:   e.R2Score,
			MAE:       e.MeanAbsoluteError,
		})
	}
	return resp
}
