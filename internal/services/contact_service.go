package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/prasadbobby/suraksha-backend/internal/models"
	"github.com/prasadbobby/suraksha-backend/internal/repository"
	"github.com/prasadbobby/suraksha-backend/pkg/utils"
)

type ContactService struct {
	contactRepo *repository.ContactRepository
}

func NewContactService() *ContactService {
	return &ContactService{
		contactRepo: repository.NewContactRepository(),
	}
}

// GetContacts lists all contacts for a user
func (s *ContactService) GetContacts(ctx context.Context, userID string) ([]*models.Contact, error) {
	return s.contactRepo.GetContacts(ctx, userID)
}

// CreateContact registers a new contact for a user. At least one reachable
// medium (phone or email) is required.
func (s *ContactService) CreateContact(ctx context.Context, userID string, req *models.CreateContactRequest) (*models.Contact, error) {
	if req.Phone == "" && req.Email == "" {
		return nil, errors.New("contact needs a phone number or an email")
	}

	phone := req.Phone
	if phone != "" {
		normalized, err := utils.NormalizePhone(phone)
		if err != nil {
			return nil, err
		}
		phone = normalized
	}
	if req.Email != "" {
		if err := utils.ValidateEmail(req.Email); err != nil {
			return nil, err
		}
	}

	// Notifications default to enabled unless explicitly opted out
	notificationsEnabled := true
	if req.NotificationsEnabled != nil {
		notificationsEnabled = *req.NotificationsEnabled
	}

	contact := &models.Contact{
		ContactID:            uuid.NewString(),
		UserID:               userID,
		Name:                 req.Name,
		Phone:                phone,
		Email:                req.Email,
		Relation:             req.Relation,
		IsTrusted:            req.IsTrusted,
		IsPriority:           req.IsPriority,
		NotificationsEnabled: notificationsEnabled,
		CreatedAt:            time.Now(),
	}

	if err := s.contactRepo.CreateContact(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// UpdateContact applies the provided fields to an existing contact
func (s *ContactService) UpdateContact(ctx context.Context, userID, contactID string, req *models.UpdateContactRequest) (*models.Contact, error) {
	contact, err := s.contactRepo.GetContact(ctx, contactID, userID)
	if err != nil {
		return nil, errors.New("contact not found")
	}

	if req.Name != nil {
		contact.Name = *req.Name
	}
	if req.Phone != nil {
		phone := *req.Phone
		if phone != "" {
			normalized, err := utils.NormalizePhone(phone)
			if err != nil {
				return nil, err
			}
			phone = normalized
		}
		contact.Phone = phone
	}
	if req.Email != nil {
		if *req.Email != "" {
			if err := utils.ValidateEmail(*req.Email); err != nil {
				return nil, err
			}
		}
		contact.Email = *req.Email
	}
	if req.Relation != nil {
		contact.Relation = *req.Relation
	}
	if req.IsTrusted != nil {
		contact.IsTrusted = *req.IsTrusted
	}
	if req.IsPriority != nil {
		contact.IsPriority = *req.IsPriority
	}
	if req.NotificationsEnabled != nil {
		contact.NotificationsEnabled = *req.NotificationsEnabled
	}

	if contact.Phone == "" && contact.Email == "" {
		return nil, errors.New("contact needs a phone number or an email")
	}

	if err := s.contactRepo.UpdateContact(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

// DeleteContact removes a contact owned by the user
func (s *ContactService) DeleteContact(ctx context.Context, userID, contactID string) error {
	if err := s.contactRepo.DeleteContact(ctx, contactID, userID); err != nil {
		return errors.New("contact not found")
	}
	return nil
}
