package handlers

import (
	"net/http"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"safepulse/models"
)

// TriggerSos handles POST /sos
func (h *SafetyHandler) TriggerSos(c *gin.Context) {
	var req models.SosRequest
	if err := c.BindJSON(&req); err != nil {
		log.Errorf("Failed to bind SOS request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.UserId == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	if !req.Location.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Coordinates out of range"})
		return
	}

	result, err := h.sos.Trigger(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetSosHistory handles GET /sos/history
func (h *SafetyHandler) GetSosHistory(c *gin.Context) {
	userId, ok := c.GetQuery("user_id")
	if !ok || userId == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id parameter is required"})
		return
	}

	events, err := h.sos.History(c.Request.Context(), userId)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"count":  len(events),
	})
}

// GetVolunteers handles GET /volunteers
func (h *SafetyHandler) GetVolunteers(c *gin.Context) {
	volunteers, err := h.db.Volunteers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	if category, ok := c.GetQuery("category"); ok && category != "" {
		filtered := make([]models.Volunteer, 0, len(volunteers))
		for _, volunteer := range volunteers {
			for _, expertise := range volunteer.Expertise {
				if expertise == category {
					filtered = append(filtered, volunteer)
					break
				}
			}
		}
		volunteers = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"volunteers": volunteers,
		"count":      len(volunteers),
	})
}
