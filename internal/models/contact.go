package models

import "time"

// Contact represents a trusted contact registered by a user
type Contact struct {
	ContactID            string    `firestore:"contactId" json:"contactId"`
	UserID               string    `firestore:"userId" json:"userId"`
	Name                 string    `firestore:"name" json:"name"`
	Phone                string    `firestore:"phone" json:"phone,omitempty"`
	Email                string    `firestore:"email" json:"email,omitempty"`
	Relation             string    `firestore:"relation" json:"relation"`
	IsTrusted            bool      `firestore:"isTrusted" json:"isTrusted"`
	IsPriority           bool      `firestore:"isPriority" json:"isPriority"`
	NotificationsEnabled bool      `firestore:"notificationsEnabled" json:"notificationsEnabled"`
	CreatedAt            time.Time `firestore:"createdAt" json:"createdAt"`
}

// CreateContactRequest represents the create contact request body
type CreateContactRequest struct {
	Name                 string `json:"name" binding:"required,min=1,max=64"`
	Phone                string `json:"phone"`
	Email                string `json:"email"`
	Relation             string `json:"relation" binding:"required"`
	IsTrusted            bool   `json:"isTrusted"`
	IsPriority           bool   `json:"isPriority"`
	NotificationsEnabled *bool  `json:"notificationsEnabled"`
}

// UpdateContactRequest represents the update contact request body.
// Pointer fields distinguish "not provided" from zero values.
type UpdateContactRequest struct {
	Name                 *string `json:"name"`
	Phone                *string `json:"phone"`
	Email                *string `json:"email"`
	Relation             *string `json:"relation"`
	IsTrusted            *bool   `json:"isTrusted"`
	IsPriority           *bool   `json:"isPriority"`
	NotificationsEnabled *bool   `json:"notificationsEnabled"`
}

// ContactsResponse represents the contact listing response
type ContactsResponse struct {
	Success  bool       `json:"success"`
	Contacts []*Contact `json:"contacts"`
}
