package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"strings"
	"time"

	"house-price-gateway/internal/feature"
	"house-price-gateway/pkg/models"

	"github.com/sirupsen/logrus"
)

// DefaultTimeout жесткий предел ожидания ответа движка
const DefaultTimeout = 20 * time.Second

const (
	endpointPredict   = "predict"
	endpointModelInfo = "model-info"
	endpointHealth    = "health"
)

const (
	outcomeSuccess  = "success"
	outcomeCanceled = "canceled"
)

// Observer принимает результат каждого обращения к движку (метрики)
type Observer interface {
	ObserveUpstream(endpoint, outcome string, duration time.Duration)
}

// Options настройки клиента движка
type Options struct {
	Timeout          time.Duration
	DefaultCurrency  string
	SendNeighborhood bool
	Observer         Observer
}

// PredictionResult нормализованный результат оценки
type PredictionResult struct {
	EstimatedPrice float64
	Currency       string
	ModelVersion   *string
}

// EngineClient клиент для взаимодействия с движком оценки стоимости.
// Каждый вызов выполняет ровно один HTTP запрос, повторов нет.
type EngineClient struct {
	baseURL          string
	httpClient       *http.Client
	defaultCurrency  string
	sendNeighborhood bool
	observer         Observer
	logger           *logrus.Logger
}

// NewEngineClient создает новый клиент для движка оценки
func NewEngineClient(baseURL string, opts Options, logger *logrus.Logger) *EngineClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &EngineClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		defaultCurrency:  opts.DefaultCurrency,
		sendNeighborhood: opts.SendNeighborhood,
		observer:         opts.Observer,
		logger:           logger,
	}
}

// Predict отправляет вектор признаков на оценку. Вектор не изменяется.
func (c *EngineClient) Predict(ctx context.Context, vec feature.Vector) (*PredictionResult, error) {
	payload := c.encode(vec)

	c.logger.WithFields(logrus.Fields{
		"city":     vec.City,
		"district": vec.District,
	}).Debug("Отправка запроса на оценку стоимости")

	start := time.Now()
	respBody, err := c.do(ctx, start, http.MethodPost, endpointPredict, "/predict", payload)
	if err != nil {
		return nil, err
	}

	var engineResp models.EnginePredictResponse
	if err := json.Unmarshal(respBody, &engineResp); err != nil {
		return nil, c.fail(endpointPredict, start, &GatewayError{Kind: KindMalformed, Err: fmt.Errorf("failed to parse response: %w", err)})
	}
	if engineResp.EstimatedPrice == nil {
		return nil, c.fail(endpointPredict, start, &GatewayError{Kind: KindMalformed, Err: errors.New("estimated_price is missing")})
	}

	price := *engineResp.EstimatedPrice
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return nil, c.fail(endpointPredict, start, &GatewayError{Kind: KindMalformed, Err: fmt.Errorf("invalid estimated_price %v", price)})
	}
	c.observe(endpointPredict, outcomeSuccess, start)

	result := &PredictionResult{
		EstimatedPrice: price,
		Currency:       c.defaultCurrency,
		ModelVersion:   engineResp.ModelVersion,
	}
	if engineResp.Currency != nil && *engineResp.Currency != "" {
		result.Currency = *engineResp.Currency
	}

	c.logger.WithField("price", result.EstimatedPrice).Info("Успешно получена оценка от движка")
	return result, nil
}

// FetchModelInfo получает сведения о качестве моделей движка
func (c *EngineClient) FetchModelInfo(ctx context.Context) (*models.ModelInfoResponse, error) {
	c.logger.Debug("Запрос сведений о моделях")

	start := time.Now()
	respBody, err := c.do(ctx, start, http.MethodGet, endpointModelInfo, "/model-info", nil)
	if err != nil {
		return nil, err
	}

	var info models.ModelInfoResponse
	if err := json.Unmarshal(respBody, &info); err != nil {
		return nil, c.fail(endpointModelInfo, start, &GatewayError{Kind: KindMalformed, Err: fmt.Errorf("failed to parse response: %w", err)})
	}
	c.observe(endpointModelInfo, outcomeSuccess, start)

	return &info, nil
}

// CheckHealth проверяет состояние движка
func (c *EngineClient) CheckHealth(ctx context.Context) (*models.HealthResponse, error) {
	c.logger.Debug("Проверка здоровья движка")

	start := time.Now()
	respBody, err := c.do(ctx, start, http.MethodGet, endpointHealth, "/", nil)
	if err != nil {
		return nil, err
	}
	c.observe(endpointHealth, outcomeSuccess, start)

	health := &models.HealthResponse{Status: "healthy"}
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(respBody, &body) == nil {
		health.Message = body.Message
	}
	return health, nil
}

// encode переводит вектор в формат движка
func (c *EngineClient) encode(vec feature.Vector) models.EnginePredictRequest {
	req := models.EnginePredictRequest{
		NetAlan:      vec.NetArea,
		OdaSayisi:    vec.RoomCount,
		SalonSayisi:  vec.LivingRoomCount,
		BinaYasi:     vec.BuildingAge,
		BalkonSayisi: vec.BalconyCount,
		KatTipi:      vec.FloorType.WireName(),
		Sehir:        vec.City,
		Ilce:         vec.District,
	}
	if vec.InComplex {
		req.SiteIcerisinde = 1
	}
	if c.sendNeighborhood {
		req.Mahalle = vec.Neighborhood
	}
	return req
}

// do выполняет один запрос и возвращает тело успешного ответа.
// Успех учитывает вызывающий после разбора тела, отказы учитываются здесь.
func (c *EngineClient) do(ctx context.Context, start time.Time, method, endpoint, path string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, c.fail(endpoint, start, &GatewayError{Kind: KindUnreachable, Err: fmt.Errorf("failed to create request: %w", err)})
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debugf("Отправка %s запроса на %s", method, url)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, endpoint, start, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportError(ctx, endpoint, start, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.fail(endpoint, start, &GatewayError{
			Kind:       KindUpstream,
			StatusCode: resp.StatusCode,
			Body:       excerpt(respBody),
		})
	}

	return respBody, nil
}

// transportError классифицирует ошибку транспорта.
// Отмена вызывающим не считается отказом движка и возвращается как есть.
func (c *EngineClient) transportError(ctx context.Context, endpoint string, start time.Time, err error) error {
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		c.observe(endpoint, outcomeCanceled, start)
		c.logger.WithField("endpoint", endpoint).Debug("Запрос к движку отменен")
		return fmt.Errorf("engine request canceled: %w", ctx.Err())
	}

	kind := KindUnreachable
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = KindTimeout
	}

	return c.fail(endpoint, start, &GatewayError{Kind: kind, Err: err})
}

// fail учитывает отказ с его видом и логирует его
func (c *EngineClient) fail(endpoint string, start time.Time, gwErr *GatewayError) error {
	c.observe(endpoint, string(gwErr.Kind), start)
	c.logger.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"kind":     gwErr.Kind,
		"status":   gwErr.StatusCode,
	}).Errorf("Ошибка обращения к движку: %v", gwErr)
	return gwErr
}

func (c *EngineClient) observe(endpoint, outcome string, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveUpstream(endpoint, outcome, time.Since(start))
	}
}
