package service

import (
	"time"
)

// FeatureSnapshot признаки объекта, по которым получена оценка
type FeatureSnapshot struct {
	NetArea         float64 `json:"net_area"`
	RoomCount       float64 `json:"room_count"`
	LivingRoomCount float64 `json:"living_room_count"`
	BuildingAge     float64 `json:"building_age"`
	BalconyCount    float64 `json:"balcony_count"`
	InComplex       bool    `json:"in_complex"`
	FloorType       string  `json:"floor_type"`
}

// LocationPath путь в справочнике локаций
type LocationPath struct {
	City         string `json:"city"`
	District     string `json:"district"`
	Neighborhood string `json:"neighborhood,omitempty"`
}

// PredictionRecord сохраненная оценка
type PredictionRecord struct {
	ID             string          `json:"id"`
	Features       FeatureSnapshot `json:"features"`
	Location       LocationPath    `json:"location"`
	EstimatedPrice float64         `json:"estimated_price"`
	Currency       string          `json:"currency"`
	ModelVersion   *string         `json:"model_version"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ListPredictionsResponse ответ со списком оценок
type ListPredictionsResponse struct {
	Predictions []PredictionRecord `json:"predictions"`
	Total       int64              `json:"total"`
	Page        int                `json:"page"`
	Size        int                `json:"size"`
}
