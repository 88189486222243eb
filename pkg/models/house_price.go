package models

import (
	"bytes"
	"encoding/json"
)

// FormValue значение поля формы в исходном виде.
// Принимает число, строку или bool в любом поле формы, чтобы ошибки относились к конкретному полю.
type FormValue string

// UnmarshalJSON сохраняет литерал без преобразования
func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	*v = FormValue(data)
	return nil
}

// PredictRequest запрос на оценку стоимости от формы
type PredictRequest struct {
	NetAlan        FormValue `json:"NetAlan"`        // Полезная площадь, м²
	OdaSayisi      FormValue `json:"OdaSayisi"`      // Количество комнат
	SalonSayisi    FormValue `json:"SalonSayisi"`    // Количество гостиных
	BinaYasi       FormValue `json:"BinaYasi"`       // Возраст здания, лет
	BalkonSayisi   FormValue `json:"BalkonSayisi"`   // Количество балконов
	SiteIcerisinde FormValue `json:"SiteIcerisinde"` // В жилом комплексе (0/1)
	KatTipi        FormValue `json:"KatTipi"`        // Normal / Dubleks / Tripleks
	Sehir          FormValue `json:"Sehir"`          // Город
	Ilce           FormValue `json:"Ilce"`           // Район
	Mahalle        FormValue `json:"Mahalle"`        // Микрорайон
}

// EnginePredictRequest тело запроса к движку оценки
type EnginePredictRequest struct {
	NetAlan        float64 `json:"NetAlan"`
	OdaSayisi      float64 `json:"OdaSayisi"`
	SalonSayisi    float64 `json:"SalonSayisi"`
	BinaYasi       float64 `json:"BinaYasi"`
	BalkonSayisi   float64 `json:"BalkonSayisi"`
	SiteIcerisinde int     `json:"SiteIcerisinde"`
	KatTipi        string  `json:"KatTipi"`
	Sehir          string  `json:"Sehir"`
	Ilce           string  `json:"Ilce"`
	Mahalle        string  `json:"Mahalle,omitempty"`
}

// EnginePredictResponse ответ движка; все поля кроме цены могут отсутствовать
type EnginePredictResponse struct {
	EstimatedPrice *float64 `json:"estimated_price"`
	Currency       *string  `json:"currency"`
	ModelVersion   *string  `json:"model_version"`
}

// PredictResponse ответ клиенту с оценкой стоимости
type PredictResponse struct {
	EstimatedPrice float64 `json:"estimated_price"`
	Currency       string  `json:"currency"`
	ModelVersion   *string `json:"model_version"`
}

// ModelScore метрики качества одной модели
type ModelScore struct {
	R2Score float64 `json:"r2_score"`
	MAE     float64 `json:"mae"`
}

// RankedModel модель в рейтинге
type RankedModel struct {
	ModelName string  `json:"model_name"`
	R2Score   float64 `json:"r2_score"`
	MAE       float64 `json:"mae"`
}

// ModelInfoResponse сведения о моделях движка.
// Ranking заполняется только в ответе клиенту.
type ModelInfoResponse struct {
	ActiveModel  string                `json:"active_model"`
	TrainingDate *string               `json:"training_date"`
	BestScoreR2  float64               `json:"best_score_r2"`
	AllResults   map[string]ModelScore `json:"all_results"`
	Ranking      []RankedModel         `json:"ranking"`
}

// HealthResponse представляет ответ проверки здоровья сервиса
type HealthResponse struct {
	Status  string `json:"status"`            // healthy/unhealthy
	Message string `json:"message,omitempty"` // Сообщение движка
}
