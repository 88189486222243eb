package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"house-price-gateway/internal/client"
	"house-price-gateway/internal/feature"
	"house-price-gateway/internal/service"
	"house-price-gateway/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// statusClientClosedRequest клиент закрыл соединение до ответа
const statusClientClosedRequest = 499

// HousePriceHandler обрабатывает HTTP запросы оценки стоимости жилья
type HousePriceHandler struct {
	predictionService *service.PredictionService
	historyService    *service.HistoryService
	logger            *logrus.Logger
}

// NewHousePriceHandler создает новый экземпляр HousePriceHandler
func NewHousePriceHandler(predictionService *service.PredictionService, historyService *service.HistoryService, logger *logrus.Logger) *HousePriceHandler {
	return &HousePriceHandler{
		predictionService: predictionService,
		historyService:    historyService,
		logger:            logger,
	}
}

// RegisterRoutes регистрирует маршруты API
func (h *HousePriceHandler) RegisterRoutes(router *gin.Engine) {
	locations := NewLocationHandler(h.predictionService.Hierarchy(), h.logger)

	api := router.Group("/api/houseprice")
	{
		api.POST("/predict", h.Predict)
		api.GET("/model-info", h.ModelInfo)
		api.GET("/health", h.CheckHealth)
		api.GET("/predictions", h.ListPredictions)
		api.GET("/predictions/:id", h.GetPrediction)

		api.GET("/locations/cities", locations.ListCities)
		api.GET("/locations/districts", locations.ListDistricts)
		api.GET("/locations/neighborhoods", locations.ListNeighborhoods)
	}
}

// Predict обрабатывает запрос на оценку стоимости
func (h *HousePriceHandler) Predict(c *gin.Context) {
	var req models.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Infof("Ошибка разбора тела запроса: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	resp, err := h.predictionService.Predict(c.Request.Context(), req)
	if err != nil {
		h.writePredictError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// writePredictError переводит ошибку оценки в HTTP ответ.
// Вид отказа движка остается только в логах.
func (h *HousePriceHandler) writePredictError(c *gin.Context, err error) {
	var vErr *feature.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": vErr.Reason,
			"field": vErr.Field,
		})
		return
	}

	var gwErr *client.GatewayError
	if errors.As(err, &gwErr) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "prediction unavailable"})
		return
	}

	if errors.Is(err, context.Canceled) {
		h.logger.Debug("Клиент отменил запрос на оценку")
		c.AbortWithStatus(statusClientClosedRequest)
		return
	}

	h.logger.Errorf("Ошибка оценки стоимости: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// ModelInfo возвращает табло моделей или 204, если табло недоступно
func (h *HousePriceHandler) ModelInfo(c *gin.Context) {
	info, ok := h.predictionService.ModelInfo(c.Request.Context())
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, info)
}

// CheckHealth проверяет состояние сервиса
func (h *HousePriceHandler) CheckHealth(c *gin.Context) {
	h.logger.Debug("Получен запрос проверки здоровья")

	health := h.predictionService.CheckHealth(c.Request.Context())

	statusCode := http.StatusOK
	if health.Status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}
	c.JSON(statusCode, health)
}

// ListPredictions возвращает историю оценок с пагинацией
func (h *HousePriceHandler) ListPredictions(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil || size < 1 || size > 100 {
		size = 10
	}

	resp, err := h.historyService.ListPredictions(c.Request.Context(), page, size)
	if err != nil {
		if errors.Is(err, service.ErrHistoryDisabled) {
			c.JSON(http.StatusNotFound, gin.H{"error": "history disabled"})
			return
		}
		h.logger.Errorf("Ошибка получения истории оценок: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list predictions"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetPrediction возвращает оценку по ID
func (h *HousePriceHandler) GetPrediction(c *gin.Context) {
	id := c.Param("id")

	record, err := h.historyService.GetPrediction(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrHistoryDisabled):
			c.JSON(http.StatusNotFound, gin.H{"error": "history disabled"})
		case errors.Is(err, service.ErrPredictionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "prediction not found"})
		default:
			h.logger.Errorf("Ошибка получения оценки %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get prediction"})
		}
		return
	}

	c.JSON(http.StatusOK, record)
}
