package handlers

import (
	"net/http"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"safepulse/models"
)

// SubmitReport handles POST /reports
func (h *SafetyHandler) SubmitReport(c *gin.Context) {
	var req models.SubmitReportRequest
	if err := c.BindJSON(&req); err != nil {
		log.Errorf("Failed to bind report request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.UserId == "" || req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and text are required"})
		return
	}
	if !req.Location.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Coordinates out of range"})
		return
	}

	report, err := h.reports.Submit(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SubmitReportResponse{
		ReportId:                report.Id,
		Severity:                report.Severity,
		Categories:              report.Categories,
		RequiresImmediateAction: report.RequiresImmediateAction,
		Message:                 "Report submitted successfully",
	})
}

// GetReport handles GET /reports/:id
func (h *SafetyHandler) GetReport(c *gin.Context) {
	report, err := h.reports.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// VerifyReport handles POST /reports/:id/verify
func (h *SafetyHandler) VerifyReport(c *gin.Context) {
	var req models.VerifyRequest
	if err := c.BindJSON(&req); err != nil {
		log.Errorf("Failed to bind verify request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	report, _, err := h.reports.Verify(c.Request.Context(), c.Param("id"), req.Kind)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.VerifyResponse{
		Status:            report.Status,
		VerificationCount: report.VerificationCount,
		Message:           "Verification recorded",
	})
}

// GetCommunitySupport handles GET /reports/:id/support
func (h *SafetyHandler) GetCommunitySupport(c *gin.Context) {
	volunteers, err := h.reports.CommunitySupport(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.CommunitySupportResponse{Volunteers: volunteers})
}

// GetReportsByArea handles GET /reports/area
func (h *SafetyHandler) GetReportsByArea(c *gin.Context) {
	center, radiusKm, ok := parseCenter(c)
	if !ok {
		return
	}

	reports, err := h.reports.ByArea(c.Request.Context(), center, radiusKm)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reports": reports,
		"count":   len(reports),
	})
}
