package model

import (
	"time"

	"gorm.io/gorm"
)

// Prediction представляет сохраненную оценку стоимости в базе данных
type Prediction struct {
	ID string `gorm:"primaryKey;type:varchar(36)" json:"id"`

	// Признаки объекта
	NetArea         float64 `gorm:"not null" json:"net_area"`
	RoomCount       float64 `gorm:"not null" json:"room_count"`
	LivingRoomCount float64 `gorm:"not null" json:"living_room_count"`
	BuildingAge     float64 `gorm:"not null" json:"building_age"`
	BalconyCount    float64 `gorm:"not null" json:"balcony_count"`
	InComplex       bool    `gorm:"not null" json:"in_complex"`
	FloorType       string  `gorm:"type:varchar(16);not null" json:"floor_type"`

	// Локация
	City         string `gorm:"type:varchar(255);not null;index" json:"city"`
	District     string `gorm:"type:varchar(255);not null;index" json:"district"`
	Neighborhood string `gorm:"type:varchar(255)" json:"neighborhood"`

	// Результат движка
	EstimatedPrice float64 `gorm:"not null" json:"estimated_price"`
	Currency       string  `gorm:"type:varchar(8);not null" json:"currency"`
	ModelVersion   *string `gorm:"type:varchar(255)" json:"model_version"`

	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName указывает имя таблицы для Prediction
func (Prediction) TableName() string {
	return "predictions"
}
