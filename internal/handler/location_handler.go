package handler

import (
	"net/http"

	"house-price-gateway/internal/location"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// LocationHandler отдает справочник локаций для каскадных списков формы
type LocationHandler struct {
	hierarchy *location.Hierarchy
	logger    *logrus.Logger
}

// NewLocationHandler создает новый обработчик справочника
func NewLocationHandler(hierarchy *location.Hierarchy, logger *logrus.Logger) *LocationHandler {
	return &LocationHandler{
		hierarchy: hierarchy,
		logger:    logger,
	}
}

// ListCities возвращает города. Если город один, он передается в auto_select.
func (h *LocationHandler) ListCities(c *gin.Context) {
	resp := gin.H{"cities": h.hierarchy.ListCities()}
	if city, ok := h.hierarchy.SoleCity(); ok {
		resp["auto_select"] = city
	}
	c.JSON(http.StatusOK, resp)
}

// ListDistricts возвращает районы города; для неизвестного города список пуст
func (h *LocationHandler) ListDistricts(c *gin.Context) {
	city := c.Query("city")
	if city == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "city is required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"city":      city,
		"districts": h.hierarchy.ListDistricts(city),
	})
}

// ListNeighborhoods возвращает микрорайоны района
func (h *LocationHandler) ListNeighborhoods(c *gin.Context) {
	city := c.Query("city")
	district := c.Query("district")
	if city == "" || district == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "city and district are required"})
		return
	}

	h.logger.Debugf("Запрос микрорайонов %s/%s", city, district)
	c.JSON(http.StatusOK, gin.H{
		"city":          city,
		"district":      district,
		"neighborhoods": h.hierarchy.ListNeighborhoods(city, district),
	})
}
