package models

import "time"

// User represents an account holder (the subject of emergency events)
type User struct {
	UserID            string    `firestore:"userId" json:"userId"`
	Email             string    `firestore:"email" json:"email"`
	PasswordHash      string    `firestore:"passwordHash" json:"-"` // Don't expose in JSON
	Name              string    `firestore:"name" json:"name"`
	Phone             string    `firestore:"phone" json:"phone,omitempty"`
	IsActive          bool      `firestore:"isActive" json:"isActive"`
	NotificationToken string    `firestore:"notificationToken" json:"notificationToken,omitempty"`
	CreatedAt         time.Time `firestore:"createdAt" json:"createdAt"`
	LastSeen          time.Time `firestore:"lastSeen" json:"lastSeen"`
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

// UpdateNotificationTokenRequest represents the device token update request
type UpdateNotificationTokenRequest struct {
	NotificationToken string `json:"notificationToken" binding:"required"`
}
