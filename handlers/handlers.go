package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"safepulse/database"
	"safepulse/models"
	"safepulse/services"
)

// Area query bounds. Radius is capped so a single request cannot scan the
// whole table.
const (
	DefaultRadiusKm = 5.0
	MaxRadiusKm     = 50.0
)

// SafetyHandler handles HTTP requests for the safety API.
type SafetyHandler struct {
	db       *database.Service
	reports  *services.ReportService
	alerts   *services.AlertService
	journeys *services.JourneyService
	sos      *services.SosService
}

// NewSafetyHandler creates a new safety handler.
func NewSafetyHandler(db *database.Service, reports *services.ReportService, alerts *services.AlertService, journeys *services.JourneyService, sos *services.SosService) *SafetyHandler {
	return &SafetyHandler{
		db:       db,
		reports:  reports,
		alerts:   alerts,
		journeys: journeys,
		sos:      sos,
	}
}

// HealthCheck handles GET /health
func (h *SafetyHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "safepulse",
	})
}

// respondError maps the sentinel error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotActive):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Errorf("Request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// parseCenter reads the lat, lng and optional radius_km query parameters.
// It writes the error response itself and reports success in the bool.
func parseCenter(c *gin.Context) (models.GeoPoint, float64, bool) {
	latStr, ok := c.GetQuery("lat")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat parameter is required"})
		return models.GeoPoint{}, 0, false
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lat parameter"})
		return models.GeoPoint{}, 0, false
	}

	lngStr, ok := c.GetQuery("lng")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lng parameter is required"})
		return models.GeoPoint{}, 0, false
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lng parameter"})
		return models.GeoPoint{}, 0, false
	}

	center := models.GeoPoint{Latitude: lat, Longitude: lng}
	if !center.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Coordinates out of range"})
		return models.GeoPoint{}, 0, false
	}

	radiusKm := DefaultRadiusKm
	if radiusStr, ok := c.GetQuery("radius_km"); ok {
		radiusKm, err = strconv.ParseFloat(radiusStr, 64)
		if err != nil || radiusKm < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid radius_km parameter"})
			return models.GeoPoint{}, 0, false
		}
	}
	if radiusKm > MaxRadiusKm {
		radiusKm = MaxRadiusKm
	}
	return center, radiusKm, true
}
