package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	geojson "github.com/paulmach/go.geojson"

	"safepulse/geo"
	"safepulse/models"
)

// GetMapReports handles GET /map/reports
func (h *SafetyHandler) GetMapReports(c *gin.Context) {
	center, radiusKm, ok := parseCenter(c)
	if !ok {
		return
	}

	reports, err := h.reports.MapReports(c.Request.Context(), center, radiusKm)
	if err != nil {
		respondError(c, err)
		return
	}

	collection := geojson.NewFeatureCollection()
	for _, report := range reports {
		feature := geojson.NewPointFeature([]float64{report.Location.Longitude, report.Location.Latitude})
		feature.ID = report.Id
		feature.SetProperty("severity", report.Severity)
		feature.SetProperty("status", report.Status)
		feature.SetProperty("categories", report.Categories)
		feature.SetProperty("timestamp", report.CreatedAt.Format(time.RFC3339))
		collection.AddFeature(feature)
	}

	c.JSON(http.StatusOK, collection)
}

// GetMapHeat handles GET /map/heat
func (h *SafetyHandler) GetMapHeat(c *gin.Context) {
	center, radiusKm, ok := parseCenter(c)
	if !ok {
		return
	}

	cellLevel := geo.DefaultCellLevel
	if levelStr, ok := c.GetQuery("cell_level"); ok {
		level, err := strconv.Atoi(levelStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cell_level parameter"})
			return
		}
		cellLevel = geo.ClampCellLevel(level)
	}

	reports, err := h.reports.MapReports(c.Request.Context(), center, radiusKm)
	if err != nil {
		respondError(c, err)
		return
	}

	aggregator := geo.NewHeatAggregator(cellLevel)
	for _, report := range reports {
		aggregator.AddPoint(report.Location.Latitude, report.Location.Longitude, severityWeight(report.Severity))
	}
	cells := aggregator.Cells()

	c.JSON(http.StatusOK, gin.H{
		"cells":      cells,
		"cell_level": cellLevel,
		"count":      len(cells),
	})
}

// severityWeight maps a report severity onto its heat contribution.
func severityWeight(severity string) float64 {
	switch severity {
	case models.SeverityHigh:
		return 1.0
	case models.SeverityMedium:
		return 0.6
	default:
		return 0.3
	}
}
