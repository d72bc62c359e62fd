package handlers

import (
	"net/http"
	"strconv"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"safepulse/models"
)

// RegisterUser handles POST /users
func (h *SafetyHandler) RegisterUser(c *gin.Context) {
	var req models.RegisterUserRequest
	if err := c.BindJSON(&req); err != nil {
		log.Errorf("Failed to bind user request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if req.Id == "" {
		req.Id = uuid.New().String()
	}

	user := &models.User{
		Id:    req.Id,
		Name:  req.Name,
		Email: req.Email,
	}
	if err := h.db.UpsertUser(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.RegisterUserResponse{
		UserId:  req.Id,
		Message: "User registered successfully",
	})
}

// AddContact handles POST /contacts
func (h *SafetyHandler) AddContact(c *gin.Context) {
	var req models.AddContactRequest
	if err := c.BindJSON(&req); err != nil {
		log.Errorf("Failed to bind contact request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.UserId == "" || req.Name == "" || req.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id, name and phone are required"})
		return
	}

	contact := &models.EmergencyContact{
		UserId:       req.UserId,
		Name:         req.Name,
		Phone:        req.Phone,
		Relationship: req.Relationship,
	}
	if err := h.db.AddContact(c.Request.Context(), contact); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contact)
}

// GetContacts handles GET /contacts
func (h *SafetyHandler) GetContacts(c *gin.Context) {
	userId, ok := c.GetQuery("user_id")
	if !ok || userId == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id parameter is required"})
		return
	}

	contacts, err := h.db.ContactsByUser(c.Request.Context(), userId)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contacts": contacts,
		"count":    len(contacts),
	})
}

// DeleteContact handles DELETE /contacts/:id
func (h *SafetyHandler) DeleteContact(c *gin.Context) {
	contactId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact id"})
		return
	}
	userId, ok := c.GetQuery("user_id")
	if !ok || userId == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id parameter is required"})
		return
	}

	if err := h.db.DeleteContact(c.Request.Context(), contactId, userId); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contact deleted"})
}
