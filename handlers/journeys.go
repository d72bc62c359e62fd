package handlers

import (
	"net/http"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"safepulse/models"
)

// StartJourney handles POST /journeys
func (h *SafetyHandler) StartJourney(c *gin.Context) {
	var req models.StartJourneyRequest
	if err := c.BindJSON(&req); err != nil {
		log.Errorf("Failed to bind journey request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.UserId == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	if !req.Start.Valid() || !req.Destination.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Coordinates out of range"})
		return
	}

	journey, err := h.journeys.Start(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.StartJourneyResponse{
		JourneyId:             journey.Id,
		RouteSafety:           journey.RouteSafety,
		SafetyRecommendations: journey.SafetyRecommendations,
	})
}

// GetJourney handles GET /journeys/:id
func (h *SafetyHandler) GetJourney(c *gin.Context) {
	journey, err := h.journeys.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, journey)
}

// UpdateJourneyLocation handles POST /journeys/:id/location
func (h *SafetyHandler) UpdateJourneyLocation(c *gin.Context) {
	var req models.UpdateLocationRequest
	if err := c.BindJSON(&req); err != nil {
		log.Errorf("Failed to bind location request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if !req.Location.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Coordinates out of range"})
		return
	}

	response, err := h.journeys.UpdateLocation(c.Request.Context(), c.Param("id"), req.Location)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// EndJourney handles POST /journeys/:id/end
func (h *SafetyHandler) EndJourney(c *gin.Context) {
	summary, err := h.journeys.End(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// TriggerJourneyEmergency handles POST /journeys/:id/emergency
func (h *SafetyHandler) TriggerJourneyEmergency(c *gin.Context) {
	var req models.EmergencyRequest
	if c.Request.ContentLength > 0 {
		if err := c.BindJSON(&req); err != nil {
			log.Errorf("Failed to bind emergency request: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}
	if req.Location != nil && !req.Location.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Coordinates out of range"})
		return
	}

	result, err := h.journeys.TriggerEmergency(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
