package handlers

import (
	"net/http"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"safepulse/models"
)

// CreateAlert handles POST /alerts
func (h *SafetyHandler) CreateAlert(c *gin.Context) {
	var req models.CreateAlertRequest
	if err := c.BindJSON(&req); err != nil {
		log.Errorf("Failed to bind alert request: %v", err)
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
	if req.Severity != "" && !models.ValidSeverity(req.Severity) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid severity"})
		return
	}

	alert, notified, err := h.alerts.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.CreateAlertResponse{
		AlertId:             alert.Id,
		Severity:            alert.Severity,
		AuthoritiesNotified: notified,
		Message:             "Alert created successfully",
	})
}

// GetActiveAlerts handles GET /alerts/active
func (h *SafetyHandler) GetActiveAlerts(c *gin.Context) {
	center, radiusKm, ok := parseCenter(c)
	if !ok {
		return
	}

	alerts, err := h.alerts.GetActive(c.Request.Context(), center, radiusKm)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

// GetAlert handles GET /alerts/:id
func (h *SafetyHandler) GetAlert(c *gin.Context) {
	alert, err := h.alerts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}

// VerifyAlert handles POST /alerts/:id/verify
func (h *SafetyHandler) VerifyAlert(c *gin.Context) {
	var req models.VerifyRequest
	if err := c.BindJSON(&req); err != nil {
		log.Errorf("Failed to bind verify request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	alert, _, err := h.alerts.Verify(c.Request.Context(), c.Param("id"), req.Kind)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.VerifyResponse{
		Status:            alert.Status,
		VerificationCount: alert.VerificationCount,
		Severity:          alert.Severity,
		Message:           "Verification recorded",
	})
}

// ResolveAlert handles POST /alerts/:id/resolve
func (h *SafetyHandler) ResolveAlert(c *gin.Context) {
	var req models.ResolveAlertRequest
	if c.Request.ContentLength > 0 {
		if err := c.BindJSON(&req); err != nil {
			log.Errorf("Failed to bind resolve request: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	alert, err := h.alerts.Resolve(c.Request.Context(), c.Param("id"), req.ResolutionDetails)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"alert_id": alert.Id,
		"status":   alert.Status,
		"message":  "Alert resolved",
	})
}
