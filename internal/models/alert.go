package models

import "time"

// AlertStatus represents the lifecycle state of an emergency alert
type AlertStatus string

const (
	AlertActive    AlertStatus = "active"
	AlertResolved  AlertStatus = "resolved"
	AlertCancelled AlertStatus = "cancelled"
)

// EmergencyAlert represents a triggered SOS alert and its notification record
type EmergencyAlert struct {
	AlertID          string              `firestore:"alertId" json:"alertId"`
	UserID           string              `firestore:"userId" json:"userId"`
	TriggerMethod    string              `firestore:"triggerMethod" json:"triggerMethod"` // "button" or "shake"
	Location         *GeoPoint           `firestore:"location,omitempty" json:"location,omitempty"`
	Status           AlertStatus         `firestore:"status" json:"status"`
	ContactsNotified []string            `firestore:"contactsNotified" json:"contactsNotified"`
	Record           *NotificationRecord `firestore:"notificationRecord" json:"notificationRecord"`
	CreatedAt        time.Time           `firestore:"createdAt" json:"createdAt"`
	ResolvedAt       *time.Time          `firestore:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
}

// CreateAlertRequest represents the trigger alert request body
type CreateAlertRequest struct {
	TriggerMethod string    `json:"triggerMethod" binding:"required,oneof=button shake"`
	Location      *GeoPoint `json:"location"`
}

// CreateAlertResponse represents the trigger alert response
type CreateAlertResponse struct {
	Success           bool   `json:"success"`
	AlertID           string `json:"alertId"`
	ContactsNotified  int    `json:"contactsNotified"`
	NotificationsSent int    `json:"notificationsSent"`
}

// AlertsResponse represents the alert history response
type AlertsResponse struct {
	Success bool              `json:"success"`
	Alerts  []*EmergencyAlert `json:"alerts"`
}
