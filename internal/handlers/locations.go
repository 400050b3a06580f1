package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prasadbobby/suraksha-backend/internal/models"
	"github.com/prasadbobby/suraksha-backend/internal/services"
)

type LocationHandler struct {
	locationService *services.LocationService
}

func NewLocationHandler(locationService *services.LocationService) *LocationHandler {
	return &LocationHandler{
		locationService: locationService,
	}
}

// UpdateLocation stores a location fix without notifying anyone
func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req models.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	location, err := h.locationService.UpdateLocation(c.Request.Context(), userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update location"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "location": location})
}

// GetLatestLocation returns the caller's most recent location fix
func (h *LocationHandler) GetLatestLocation(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	location, err := h.locationService.GetLatestLocation(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no location found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "location": location})
}

// ShareLocation shares a location with selected contacts and notifies them
func (h *LocationHandler) ShareLocation(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req models.ShareLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.locationService.ShareLocation(c.Request.Context(), userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to share location"})
		return
	}

	c.JSON(http.StatusOK, response)
}
