package models

import "time"

// Location represents a stored location fix, optionally shared with contacts
type Location struct {
	LocationID string              `firestore:"locationId" json:"locationId"`
	UserID     string              `firestore:"userId" json:"userId"`
	Latitude   float64             `firestore:"latitude" json:"latitude"`
	Longitude  float64             `firestore:"longitude" json:"longitude"`
	Address    string              `firestore:"address" json:"address,omitempty"`
	Accuracy   float64             `firestore:"accuracy" json:"accuracy,omitempty"`
	Timestamp  time.Time           `firestore:"timestamp" json:"timestamp"`
	IsShared   bool                `firestore:"isShared" json:"isShared"`
	SharedWith []string            `firestore:"sharedWith,omitempty" json:"sharedWith,omitempty"`
	ExpiresAt  *time.Time          `firestore:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	Record     *NotificationRecord `firestore:"notificationRecord,omitempty" json:"notificationRecord,omitempty"`
}

// UpdateLocationRequest represents the location update request body
type UpdateLocationRequest struct {
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
	Address   string  `json:"address"`
	Accuracy  float64 `json:"accuracy"`
}

// ShareLocationRequest represents the share location request body
type ShareLocationRequest struct {
	Latitude      float64  `json:"latitude" binding:"required"`
	Longitude     float64  `json:"longitude" binding:"required"`
	Address       string   `json:"address"`
	ContactIDs    []string `json:"contactIds" binding:"required,min=1"`
	DurationHours int      `json:"duration"`
	IsLiveSharing bool     `json:"isLiveSharing"`
}

// ShareLocationResponse represents the share location response
type ShareLocationResponse struct {
	Success                       bool      `json:"success"`
	Message                       string    `json:"message,omitempty"`
	Location                      *Location `json:"location,omitempty"`
	ContactsNotified              int       `json:"contactsNotified"`
	NotificationsSent             int       `json:"notificationsSent"`
	NotificationsSkippedDuplicate int       `json:"notificationsSkippedDuplicate"`
	IsLiveSharing                 bool      `json:"isLiveSharing"`
	IsDuplicate                   bool      `json:"isDuplicate"`
}
