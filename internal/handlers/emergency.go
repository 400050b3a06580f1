package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prasadbobby/suraksha-backend/internal/models"
	"github.com/prasadbobby/suraksha-backend/internal/services"
)

type EmergencyHandler struct {
	alertService *services.AlertService
}

func NewEmergencyHandler(alertService *services.AlertService) *EmergencyHandler {
	return &EmergencyHandler{
		alertService: alertService,
	}
}

// CreateAlert triggers an emergency alert and notifies trusted contacts.
// Partial channel failures still return 200 with counts; only a failure to
// resolve the user or contacts is an error.
func (h *EmergencyHandler) CreateAlert(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req models.CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.alertService.TriggerAlert(c.Request.Context(), userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send emergency alert"})
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetAlerts lists the caller's recent alerts
func (h *EmergencyHandler) GetAlerts(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	alerts, err := h.alertService.GetAlerts(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch alerts"})
		return
	}

	c.JSON(http.StatusOK, models.AlertsResponse{Success: true, Alerts: alerts})
}

// ResolveAlert marks an alert resolved
func (h *EmergencyHandler) ResolveAlert(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	alertID := c.Param("alertId")
	if alertID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "alertId is required"})
		return
	}

	var req struct {
		Status models.AlertStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		req.Status = models.AlertResolved
	}

	if err := h.alertService.ResolveAlert(c.Request.Context(), userID, alertID, req.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
